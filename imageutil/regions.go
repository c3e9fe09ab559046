package imageutil

import (
	"github.com/xshoji/go-diffbox/utils"
)

// point はマスク上の座標
type point struct {
	x, y int
}

// bounds は塗りつぶし中の領域の最小・最大座標
type bounds struct {
	minX, minY, maxX, maxY int
}

// include は座標を含むように範囲を広げる
func (b *bounds) include(x, y int) {
	b.minX = utils.Min(b.minX, x)
	b.minY = utils.Min(b.minY, y)
	b.maxX = utils.Max(b.maxX, x)
	b.maxY = utils.Max(b.maxY, y)
}

// ExtractRegions はマスクから4連結の差分領域を抽出し、領域ごとに矩形を返す
//
// マスクを行優先（y が外側、x が内側）で走査し、Marked のセルから塗りつぶしを開始する。
// 訪れたセルは Visited に書き換えるため、同じマスクに対する2回目の呼び出しは何も返さない。
// 矩形は起点セルが見つかった順に並ぶ。
func ExtractRegions(mask *DiffMask) []Rectangle {
	var rects []Rectangle
	var stack []point

	for y := 0; y < mask.Height(); y++ {
		for x := 0; x < mask.Width(); x++ {
			if mask.At(x, y) != Marked {
				continue
			}

			var b bounds
			b, stack = fill(mask, x, y, stack[:0])
			rects = append(rects, Rectangle{
				X:      b.minX,
				Y:      b.minY,
				Width:  b.maxY - b.minY,
				Height: b.maxX - b.minX,
			})
		}
	}

	return rects
}

// neighbors は探索の優先順（下, 右, 左, 上）の逆順に並べた4近傍
// スタックに積むと下から順に取り出される
var neighbors = [4]point{
	{0, -1}, // 上
	{-1, 0}, // 左
	{1, 0},  // 右
	{0, 1},  // 下
}

// fill は (x, y) から明示的なスタックで深さ優先の塗りつぶしを行い、領域の範囲を返す
// 再帰を使わないため、画像全体が1つの領域でもコールスタックは溢れない
// 作業用スタックは呼び出し間で再利用できるよう返す
func fill(mask *DiffMask, x, y int, stack []point) (bounds, []point) {
	b := bounds{minX: x, minY: y, maxX: x, maxY: y}
	stack = append(stack, point{x, y})

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// 別の経路で先に訪れたセルは飛ばす
		i := p.y*mask.width + p.x
		if mask.cells[i] != Marked {
			continue
		}
		mask.cells[i] = Visited
		b.include(p.x, p.y)

		for _, d := range neighbors {
			nx, ny := p.x+d.x, p.y+d.y
			if mask.InBounds(nx, ny) && mask.At(nx, ny) == Marked {
				stack = append(stack, point{nx, ny})
			}
		}
	}

	return b, stack
}
