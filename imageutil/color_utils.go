package imageutil

import (
	"math"
)

// MaxColorDistance はRGB空間での最大距離 sqrt(255^2 * 3) ≈ 441.67
var MaxColorDistance = math.Sqrt(255 * 255 * 3)

// ColorDistance は2つの色の間のユークリッド距離を計算する
// 0.0~441.67の範囲で値を返す（0=完全一致、441.67=最大差異[白と黒]）
func ColorDistance(c1, c2 RGB) float64 {
	dr := float64(int(c1.R) - int(c2.R))
	dg := float64(int(c1.G) - int(c2.G))
	db := float64(int(c1.B) - int(c2.B))

	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// NormalizedDistance は色距離を最大距離で割り、0.0~1.0の範囲に正規化する
func NormalizedDistance(c1, c2 RGB) float64 {
	return ColorDistance(c1, c2) / MaxColorDistance
}
