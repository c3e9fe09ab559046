package imageutil

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"

	"github.com/xshoji/go-diffbox/utils"
)

// arcSegments は角丸1つあたりの分割数
const arcSegments = 8

// BorderStyle は差分領域の枠線の描画設定
type BorderStyle struct {
	Color     color.RGBA // 枠の色
	Thickness int        // 枠の太さ（ピクセル単位）
	ArcWidth  int        // 角丸の水平方向の直径（0なら角は丸めない）
	ArcHeight int        // 角丸の垂直方向の直径（0なら角は丸めない）
}

// DrawRegions は各矩形の範囲を囲む枠線を描画する
// 枠は Rectangle.Bounds() の内側に収まり、画像の範囲外ははみ出さない
func DrawRegions(img *image.RGBA, rects []Rectangle, style BorderStyle) {
	thickness := utils.Max(1, style.Thickness)
	src := image.NewUniform(style.Color)

	for _, rect := range rects {
		box := rect.Bounds().Intersect(img.Bounds())
		if box.Empty() {
			continue
		}

		// ラスタライザの座標は box の左上を原点とする
		w, h := float64(box.Dx()), float64(box.Dy())
		z := vector.NewRasterizer(box.Dx(), box.Dy())

		rx := utils.ClampFloat64(float64(style.ArcWidth)/2, 0, w/2)
		ry := utils.ClampFloat64(float64(style.ArcHeight)/2, 0, h/2)
		outer := roundRectPoints(0, 0, w, h, rx, ry)
		addPolygon(z, outer, false)

		// 内側の輪郭を逆向きに追加すると、その内部の被覆が打ち消されて枠だけが残る
		t := float64(thickness)
		if w > 2*t && h > 2*t {
			inner := roundRectPoints(t, t, w-t, h-t, math.Max(0, rx-t), math.Max(0, ry-t))
			addPolygon(z, inner, true)
		}

		z.Draw(img, box, src, image.Point{})
	}
}

// roundRectPoints は角丸矩形の輪郭を時計回り（画面座標）の点列で返す
// rx または ry が0の場合、角は直角になる
func roundRectPoints(x0, y0, x1, y1, rx, ry float64) [][2]float64 {
	if rx <= 0 || ry <= 0 {
		return [][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
	}

	// 各角の楕円の中心と開始角（左上, 右上, 右下, 左下の順）
	corners := []struct {
		cx, cy, start float64
	}{
		{x0 + rx, y0 + ry, math.Pi},
		{x1 - rx, y0 + ry, 1.5 * math.Pi},
		{x1 - rx, y1 - ry, 0},
		{x0 + rx, y1 - ry, 0.5 * math.Pi},
	}

	points := make([][2]float64, 0, len(corners)*(arcSegments+1))
	for _, c := range corners {
		for i := 0; i <= arcSegments; i++ {
			theta := c.start + 0.5*math.Pi*float64(i)/arcSegments
			points = append(points, [2]float64{
				c.cx + rx*math.Cos(theta),
				c.cy + ry*math.Sin(theta),
			})
		}
	}
	return points
}

// addPolygon は点列を閉じたパスとしてラスタライザに追加する
func addPolygon(z *vector.Rasterizer, points [][2]float64, reverse bool) {
	n := len(points)
	at := func(i int) [2]float64 {
		if reverse {
			return points[n-1-i]
		}
		return points[i]
	}

	first := at(0)
	z.MoveTo(float32(first[0]), float32(first[1]))
	for i := 1; i < n; i++ {
		p := at(i)
		z.LineTo(float32(p[0]), float32(p[1]))
	}
	z.ClosePath()
}
