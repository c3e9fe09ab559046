// imageutil パッケージは2枚の画像の差分領域を検出し、枠で囲んで可視化します
package imageutil

// 機能は以下のファイルに分割されています：
// - grid.go: 比較用のRGBピクセル配列
// - color_utils.go: 色距離の計算
// - mask.go: 差分マスクとセル状態
// - detector.go: 差分マスクの生成（閾値判定と近傍の膨張）
// - regions.go: 4連結領域の抽出
// - rectangles.go: 差分領域の矩形
// - renderer.go: 枠線の描画
// - imageloader.go: 画像の読み込み・保存
// - diff_analyzer.go: 比較から描画までの一連の処理
