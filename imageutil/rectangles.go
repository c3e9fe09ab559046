package imageutil

import (
	"fmt"
	"image"
	"sort"
)

// Rectangle は1つの差分領域を囲む矩形
//
// X, Y は領域の最小座標。Width は Y 方向の広がり (maxY-minY)、
// Height は X 方向の広がり (maxX-minX) を表す。
// 描画側はこの対応を前提としているため、軸を入れ替えたまま保持する。
type Rectangle struct {
	X      int
	Y      int
	Width  int
	Height int
}

// String は矩形を "{x,y w×h}" 形式で返す
func (r Rectangle) String() string {
	return fmt.Sprintf("{%d,%d %dx%d}", r.X, r.Y, r.Width, r.Height)
}

// Bounds は矩形が覆うピクセル範囲を image.Rectangle として返す
// X 方向は [X, X+Height]、Y 方向は [Y, Y+Width] の両端を含む
func (r Rectangle) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Height+1, r.Y+r.Width+1)
}

// Contains は座標 (x, y) が矩形の範囲内にあるかどうかを返す
func (r Rectangle) Contains(x, y int) bool {
	return image.Pt(x, y).In(r.Bounds())
}

// SortRectangles は矩形を位置順（Y, X, Width, Height の順）に並べ替える
func SortRectangles(rects []Rectangle) {
	sort.Slice(rects, func(i, j int) bool {
		a, b := rects[i], rects[j]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Width != b.Width {
			return a.Width < b.Width
		}
		return a.Height < b.Height
	})
}
