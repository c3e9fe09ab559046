package imageutil

import (
	"fmt"
	"image"
	"image/draw"
	"time"

	"github.com/xshoji/go-diffbox/config"
)

// DiffAnalyzer 画像差分の解析とビジュアル化を行う構造体
type DiffAnalyzer struct {
	cfg *config.AppConfig
}

// Result は1回の比較結果
type Result struct {
	Width   int         // 比較した画像の幅
	Height  int         // 比較した画像の高さ
	Regions []Rectangle // 差分領域（検出順）
	Summary *Summary    // 差分マスクの統計情報
}

// HasDifferences は差分領域が1つ以上あるかどうかを返す
func (r *Result) HasDifferences() bool {
	return len(r.Regions) > 0
}

// NewDiffAnalyzer 設定をもとに新しいDiffAnalyzerインスタンスを作成
func NewDiffAnalyzer(cfg *config.AppConfig) *DiffAnalyzer {
	return &DiffAnalyzer{
		cfg: cfg,
	}
}

// maskBuilder は設定から MaskBuilder を組み立てる
func (da *DiffAnalyzer) maskBuilder() MaskBuilder {
	b := MaskBuilder{
		Radius:      da.cfg.Radius,
		Sensitivity: da.cfg.Sensitivity,
		Workers:     da.cfg.NumCPU,
	}

	// 進捗状況を表示
	step := da.cfg.ProgressStep
	if step > 0 && step < 100 {
		startTime := time.Now()
		lastPercentReported := 0
		b.Progress = func(done, total int) {
			percent := (done * 100) / total
			if percent >= lastPercentReported+step && percent < 100 {
				elapsed := time.Since(startTime)
				remaining := float64(elapsed) * float64(total-done) / float64(done)
				da.logf("Diff mask progress: %d%% - Elapsed: %.1fs, Est. remaining: %.1fs",
					percent, elapsed.Seconds(), remaining/float64(time.Second))
				lastPercentReported = percent - percent%step
			}
		}
	}

	return b
}

// Compare は2つの画像を比較し、差分領域を検出する
// 画像サイズが異なる場合は ErrDimensionMismatch を返す
func (da *DiffAnalyzer) Compare(imgA, imgB image.Image) (*Result, error) {
	startTime := time.Now()

	mask, summary, err := da.buildMask(imgA, imgB)
	if err != nil {
		return nil, err
	}

	da.logf("Extracting diff regions...")
	regions := ExtractRegions(mask)
	da.logf("Found %d diff regions", len(regions))

	elapsed := time.Since(startTime)
	da.logf("Diff region detection completed in %.2f seconds", elapsed.Seconds())

	return &Result{
		Width:   mask.Width(),
		Height:  mask.Height(),
		Regions: regions,
		Summary: summary,
	}, nil
}

// HasDifferences は2つの画像の間に差分があるかどうかを検出する
// 領域の抽出は行わない
func (da *DiffAnalyzer) HasDifferences(imgA, imgB image.Image) (bool, error) {
	mask, _, err := da.buildMask(imgA, imgB)
	if err != nil {
		return false, err
	}
	return mask.HasMarked(), nil
}

// buildMask は画像をPixelGridに変換して差分マスクを生成する
func (da *DiffAnalyzer) buildMask(imgA, imgB image.Image) (*DiffMask, *Summary, error) {
	boundsA, boundsB := imgA.Bounds(), imgB.Bounds()
	if boundsA.Dx() != boundsB.Dx() || boundsA.Dy() != boundsB.Dy() {
		return nil, nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch,
			boundsA.Dx(), boundsA.Dy(), boundsB.Dx(), boundsB.Dy())
	}

	builder := da.maskBuilder()
	// 範囲外のパラメータはピクセル変換の前に弾く
	if err := builder.Validate(); err != nil {
		return nil, nil, err
	}

	da.logf("Creating diff mask for dimensions %dx%d (radius: %d, sensitivity: %.2f, workers: %d)...",
		boundsB.Dx(), boundsB.Dy(), builder.Radius, builder.Sensitivity, builder.Workers)

	gridA := NewPixelGrid(imgA)
	gridB := NewPixelGrid(imgB)

	mask, summary, err := builder.BuildWithSummary(gridA, gridB)
	if err != nil {
		return nil, nil, err
	}

	da.logf("Diff mask complete: %d differing pixels, %d marked cells (%.2f%% coverage)",
		summary.Seeds, summary.MarkedCells, summary.Coverage*100)
	if summary.Seeds > 0 {
		da.logf("Color distance of differing pixels: mean=%.4f, stddev=%.4f, max=%.4f",
			summary.MeanDistance, summary.StdDevDistance, summary.MaxDistance)
	}

	return mask, summary, nil
}

// GenerateDiffImage は差分画像を生成する
// imgB（second画像）をベースにして、その上に差分領域を枠で囲んで表示する
func (da *DiffAnalyzer) GenerateDiffImage(imgA, imgB image.Image) (image.Image, *Result, error) {
	result, err := da.Compare(imgA, imgB)
	if err != nil {
		return nil, nil, err
	}

	startTime := time.Now()
	boundsB := imgB.Bounds()

	// まずimgB（second画像）を描画して、これをベースとする
	canvas := image.NewRGBA(image.Rect(0, 0, boundsB.Dx(), boundsB.Dy()))
	draw.Draw(canvas, canvas.Bounds(), imgB, boundsB.Min, draw.Src)

	da.logf("Drawing borders around %d diff regions...", len(result.Regions))
	DrawRegions(canvas, result.Regions, BorderStyle{
		Color:     da.cfg.BorderColor,
		Thickness: da.cfg.BorderThickness,
		ArcWidth:  da.cfg.ArcWidth,
		ArcHeight: da.cfg.ArcHeight,
	})

	elapsed := time.Since(startTime)
	da.logf("Diff image generation completed in %.2f seconds", elapsed.Seconds())

	return canvas, result, nil
}

// logf は [INFO] 付きでログを出力する（Quiet 時は出力しない）
func (da *DiffAnalyzer) logf(format string, args ...any) {
	if da.cfg.Quiet {
		return
	}
	fmt.Printf("[INFO] "+format+"\n", args...)
}
