package imageutil

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/xshoji/go-diffbox/utils"
)

// MaskBuilder は2つの画像から差分マスクを生成する
//
// 正規化した色距離が Sensitivity を超えるピクセルをシードとし、
// シード (x, y) ごとに [x-Radius, x+Radius) × [y-Radius, y+Radius) を Marked にする。
// 上限は含まないため、Radius=0 の場合は何もマークされない。
type MaskBuilder struct {
	Radius      int     // マークする近傍の半径
	Sensitivity float64 // 正規化した色距離の閾値 (0.0-1.0)
	Workers     int     // 行を並列処理するワーカー数（1以下なら逐次処理）

	// Progress は行の処理が終わるたびに（処理済み行数, 全行数）で呼ばれる。nil なら呼ばれない
	// 呼び出しは常に Build を呼んだゴルーチンから行われる
	Progress func(done, total int)
}

// Summary は差分マスク生成時の統計情報
type Summary struct {
	Seeds          int     // 閾値を超えたピクセル数
	MarkedCells    int     // 膨張後に Marked となったセル数
	Coverage       float64 // MarkedCells / 全セル数
	MeanDistance   float64 // シードの正規化色距離の平均
	StdDevDistance float64 // シードの正規化色距離の標準偏差
	MaxDistance    float64 // シードの正規化色距離の最大値
}

// BuildMask は差分マスクを逐次処理で生成する
func BuildMask(first, second *PixelGrid, radius int, sensitivity float64) (*DiffMask, error) {
	return MaskBuilder{Radius: radius, Sensitivity: sensitivity, Workers: 1}.Build(first, second)
}

// Build は差分マスクを生成する
func (b MaskBuilder) Build(first, second *PixelGrid) (*DiffMask, error) {
	mask, _, err := b.BuildWithSummary(first, second)
	return mask, err
}

// BuildWithSummary は差分マスクとその統計情報を生成する
// 結果はワーカー数によらず同一になる
func (b MaskBuilder) BuildWithSummary(first, second *PixelGrid) (*DiffMask, *Summary, error) {
	if err := b.validate(first, second); err != nil {
		return nil, nil, err
	}

	width, height := first.Width(), first.Height()
	mask := NewDiffMask(width, height)
	if width == 0 || height == 0 {
		return mask, &Summary{}, nil
	}

	workers := utils.Clamp(b.Workers, 1, height)
	total := height * 2
	done := 0
	onRowDone := func() {
		done++
		if b.Progress != nil {
			b.Progress(done, total)
		}
	}

	// 1. 各行のシードを検出し、水平方向に膨張させる
	// 各ゴルーチンは担当する行のスライスにのみ書き込む
	rowMarks := make([][]bool, height)
	rowDistances := make([][]float64, height)
	forEachRow(height, workers, func(y int) {
		var marks []bool
		var distances []float64
		for x := 0; x < width; x++ {
			percent := NormalizedDistance(first.At(x, y), second.At(x, y))
			if percent <= b.Sensitivity {
				continue
			}
			distances = append(distances, percent)
			if marks == nil {
				marks = make([]bool, width)
			}
			from := utils.Max(0, x-b.Radius)
			to := utils.Min(width, x+b.Radius)
			for mx := from; mx < to; mx++ {
				marks[mx] = true
			}
		}
		rowMarks[y] = marks
		rowDistances[y] = distances
	}, onRowDone)

	// 2. 垂直方向に膨張させる
	// マスク行 my をマークするのは my ∈ [sy-Radius, sy+Radius) となるシード行 sy
	forEachRow(height, workers, func(my int) {
		from := utils.Max(0, my-b.Radius+1)
		to := utils.Min(height-1, my+b.Radius)
		for sy := from; sy <= to; sy++ {
			for x, marked := range rowMarks[sy] {
				if marked {
					mask.Mark(x, my)
				}
			}
		}
	}, onRowDone)

	return mask, summarize(mask, rowDistances), nil
}

// Validate は半径と感度が範囲内かどうかをチェックする
func (b MaskBuilder) Validate() error {
	if b.Radius < 0 {
		return fmt.Errorf("%w: radius must be >= 0, got %d", ErrInvalidParameter, b.Radius)
	}
	if math.IsNaN(b.Sensitivity) || b.Sensitivity < 0 || b.Sensitivity > 1 {
		return fmt.Errorf("%w: sensitivity must be within [0, 1], got %v", ErrInvalidParameter, b.Sensitivity)
	}
	return nil
}

// validate はピクセル処理の前にパラメータと寸法をチェックする
func (b MaskBuilder) validate(first, second *PixelGrid) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if first == nil || second == nil {
		return fmt.Errorf("%w: pixel grid is nil", ErrInvalidParameter)
	}
	if !first.sameSize(second) {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch,
			first.Width(), first.Height(), second.Width(), second.Height())
	}
	return nil
}

// forEachRow は rows 行を workers 個のワーカーで処理する
// onRowDone は呼び出し元のゴルーチンで1行ごとに呼ばれ、全行の処理が終わってから戻る
func forEachRow(rows, workers int, fn func(y int), onRowDone func()) {
	rowCh := make(chan int, rows)
	doneCh := make(chan struct{}, rows)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rowCh {
				fn(y)
				doneCh <- struct{}{}
			}
		}()
	}

	for y := 0; y < rows; y++ {
		rowCh <- y
	}
	close(rowCh)

	go func() {
		wg.Wait()
		close(doneCh)
	}()

	for range doneCh {
		onRowDone()
	}
}

// summarize はシードの色距離から統計情報を計算する
func summarize(mask *DiffMask, rowDistances [][]float64) *Summary {
	var distances []float64
	for _, d := range rowDistances {
		distances = append(distances, d...)
	}

	marked := mask.Count(Marked)
	s := &Summary{
		Seeds:       len(distances),
		MarkedCells: marked,
		Coverage:    float64(marked) / float64(mask.Width()*mask.Height()),
	}
	if len(distances) == 0 {
		return s
	}

	s.MaxDistance = floats.Max(distances)
	if len(distances) == 1 {
		s.MeanDistance = distances[0]
		return s
	}
	s.MeanDistance, s.StdDevDistance = stat.MeanStdDev(distances, nil)
	return s
}
