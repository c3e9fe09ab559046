package imageutil

import (
	"image"
	"image/color"
)

// RGB は1ピクセル分の色（アルファなし、各8ビット）
type RGB struct {
	R, G, B uint8
}

// PixelGrid は比較対象となる読み取り専用のRGBピクセル配列
type PixelGrid struct {
	width  int
	height int
	pix    []RGB // y*width+x でアクセスする
}

// NewPixelGrid は画像をPixelGridに変換する
// 色は乗算済みでないRGBとして読み出し、アルファは無視する
func NewPixelGrid(img image.Image) *PixelGrid {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pix := make([]RGB, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			pix[y*width+x] = RGB{c.R, c.G, c.B}
		}
	}

	return &PixelGrid{width: width, height: height, pix: pix}
}

// Width はグリッドの幅を返す
func (g *PixelGrid) Width() int { return g.width }

// Height はグリッドの高さを返す
func (g *PixelGrid) Height() int { return g.height }

// At は座標 (x, y) の色を返す
func (g *PixelGrid) At(x, y int) RGB {
	return g.pix[y*g.width+x]
}

// sameSize は2つのグリッドの寸法が一致するかを返す
func (g *PixelGrid) sameSize(other *PixelGrid) bool {
	return g.width == other.width && g.height == other.height
}
