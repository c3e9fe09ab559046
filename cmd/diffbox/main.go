package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/xshoji/go-diffbox/config"
	"github.com/xshoji/go-diffbox/imageutil"
	"github.com/xshoji/go-diffbox/utils"
)

// 定数定義
const (
	UsageRequiredPrefix = "\u001B[33m(REQ)\u001B[0m "
)

// アプリケーション設定とオプション
var (
	// コマンドオプション表示に関する設定
	commandDescription      = "Draws boxes around every region that differs between two same-sized images."
	commandOptionFieldWidth = "12" // フィールド幅の推奨値: 一般的に12、ブール値のみの場合は5

	// 必須オプション
	optionFirstImage  = flag.String("first", "", UsageRequiredPrefix+"First (original) image path")
	optionSecondImage = flag.String("second", "", UsageRequiredPrefix+"Second image path (used as the base of the output)")

	// 出力と設定ファイル
	optionOutput     = flag.String("o", "./diff.png", "Output diff image path (.png, .jpg, .tif, .bmp)")
	optionConfigFile = flag.String("config", "", "TOML config file (overridden by DIFFBOX_* env vars and flags)")

	// 差分検出の設定
	optionRadius      = flag.Int("r", 3, "Radius of the square marked around every differing pixel")
	optionSensitivity = flag.Float64("s", 0.10, "Normalized color distance threshold (0.0-1.0)")

	// 並列処理のためのCPU数設定
	optionNumCPU = flag.Int("c", runtime.NumCPU(), "Number of CPU cores to use for parallel processing")

	// 枠線の設定
	optionBorderRed   = flag.Int("tr", 255, "Red component for border color (0-255)")
	optionBorderGreen = flag.Int("tg", 0, "Green component for border color (0-255)")
	optionBorderBlue  = flag.Int("tb", 0, "Blue component for border color (0-255)")
	optionThickness   = flag.Int("t", 1, "Border thickness in pixels")
	optionArcWidth    = flag.Int("aw", 0, "Horizontal diameter of the rounded corners")
	optionArcHeight   = flag.Int("ah", 15, "Vertical diameter of the rounded corners")

	// ログ設定
	optionQuiet = flag.Bool("q", false, "Suppress [INFO] logs")
)

func init() {
	// ヘルプメッセージのカスタマイズ
	customizeHelpMessage()
}

// main エントリポイント
func main() {
	// コマンドライン引数の解析
	flag.Parse()

	// 必須オプションのチェック
	if err := validateRequiredOptions(); err != nil {
		fmt.Println(err)
		flag.Usage()
		os.Exit(1)
	}

	// 設定オブジェクトの作成
	cfg, err := createAppConfig()
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}

	// 設定情報の表示
	if !cfg.Quiet {
		printFlagInfo()
	}

	// 画像処理の実行
	result, err := processImages(cfg)
	if err != nil {
		fmt.Printf("[ERROR] %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Found %d diff regions. Diff image saved to %s\n", len(result.Regions), cfg.OutputPath)
}

// validateRequiredOptions 必須オプションが指定されているかチェック
func validateRequiredOptions() error {
	var missingOptions []string

	if *optionFirstImage == "" {
		missingOptions = append(missingOptions, "first")
	}
	if *optionSecondImage == "" {
		missingOptions = append(missingOptions, "second")
	}

	if len(missingOptions) > 0 {
		return fmt.Errorf("\n[ERROR] Missing required option(s): %s\n",
			strings.Join(missingOptions, ", "))
	}

	return nil
}

// printFlagInfo 設定情報を表示
func printFlagInfo() {
	fmt.Printf("[ Command options ]\n")
	flag.VisitAll(func(a *flag.Flag) {
		fmt.Printf("  -%-30s %s\n",
			fmt.Sprintf("%s %v", a.Name, a.Value),
			strings.Trim(a.Usage, "\n"))
	})

	fmt.Printf("\n\n")
}

// createAppConfig アプリケーション設定オブジェクトを作成
// デフォルト < 設定ファイル < 環境変数 < 明示的に指定したフラグ の順に上書きする
func createAppConfig() (*config.AppConfig, error) {
	cfg, err := config.Load(*optionConfigFile)
	if err != nil {
		return nil, err
	}

	borderColorSet := false
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			cfg.OutputPath = *optionOutput
		case "r":
			cfg.Radius = *optionRadius
		case "s":
			cfg.Sensitivity = *optionSensitivity
		case "c":
			cfg.NumCPU = *optionNumCPU
		case "t":
			cfg.BorderThickness = *optionThickness
		case "aw":
			cfg.ArcWidth = *optionArcWidth
		case "ah":
			cfg.ArcHeight = *optionArcHeight
		case "q":
			cfg.Quiet = *optionQuiet
		case "tr", "tg", "tb":
			borderColorSet = true
		}
	})

	if borderColorSet {
		// 色調の範囲を制限
		r := utils.Clamp(*optionBorderRed, 0, 255)
		g := utils.Clamp(*optionBorderGreen, 0, 255)
		b := utils.Clamp(*optionBorderBlue, 0, 255)
		cfg.BorderColor = color.RGBA{uint8(r), uint8(g), uint8(b), 255}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// processImages 画像処理のメインフロー
func processImages(cfg *config.AppConfig) (*imageutil.Result, error) {
	startTime := time.Now()

	// 1. 画像の読み込み
	imageA, imageB, err := loadImages(cfg)
	if err != nil {
		return nil, err
	}

	// 2. 画像サイズの確認
	if err := checkImageDimensions(cfg, imageA, imageB); err != nil {
		return nil, err
	}

	// 3. 差分検出と画像生成
	diffImage, result, err := imageutil.NewDiffAnalyzer(cfg).GenerateDiffImage(imageA, imageB)
	if err != nil {
		return nil, fmt.Errorf("failed to detect differences: %w", err)
	}

	// 4. 差分画像を保存
	infof(cfg, "Saving diff image to %s...", cfg.OutputPath)
	if err := imageutil.SaveDiffImage(diffImage, &cfg.OutputPath); err != nil {
		return nil, fmt.Errorf("failed to save diff image: %w", err)
	}

	// 処理時間を表示
	elapsed := time.Since(startTime)
	infof(cfg, "Total processing completed in %.2f seconds", elapsed.Seconds())

	return result, nil
}

// loadImages は入力画像を読み込む
func loadImages(cfg *config.AppConfig) (imageA, imageB image.Image, err error) {
	infof(cfg, "Loading images...")

	imageA, err = imageutil.LoadImage(optionFirstImage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load first image: %w", err)
	}

	imageB, err = imageutil.LoadImage(optionSecondImage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load second image: %w", err)
	}

	return imageA, imageB, nil
}

// checkImageDimensions は画像サイズを表示し、一致しない場合はエラーを返す
func checkImageDimensions(cfg *config.AppConfig, imageA, imageB image.Image) error {
	boundsA := imageA.Bounds()
	boundsB := imageB.Bounds()

	infof(cfg, "First image: %s (%dx%d)", *optionFirstImage, boundsA.Dx(), boundsA.Dy())
	infof(cfg, "Second image: %s (%dx%d)", *optionSecondImage, boundsB.Dx(), boundsB.Dy())

	// 位置合わせは行わないため、サイズが異なる場合は比較できない
	if boundsA.Dx() != boundsB.Dx() || boundsA.Dy() != boundsB.Dy() {
		return fmt.Errorf("%w: first is %dx%d, second is %dx%d", imageutil.ErrDimensionMismatch,
			boundsA.Dx(), boundsA.Dy(), boundsB.Dx(), boundsB.Dy())
	}

	return nil
}

// infof は [INFO] 付きでログを出力する
func infof(cfg *config.AppConfig, format string, args ...any) {
	if cfg.Quiet {
		return
	}
	fmt.Printf("[INFO] "+format+"\n", args...)
}

// customizeHelpMessage ヘルプメッセージの表示形式をカスタマイズする
func customizeHelpMessage() {
	b := new(bytes.Buffer)
	func() { flag.CommandLine.SetOutput(b); flag.Usage(); flag.CommandLine.SetOutput(os.Stderr) }()
	usage := strings.Replace(strings.Replace(b.String(), ":", " [OPTIONS] [-h, --help]\n\nDescription:\n  "+commandDescription+"\n\nOptions:\n", 1), "Usage of", "Usage:", 1)
	re := regexp.MustCompile(`[^,] +(-\S+)(?: (\S+))?\n*(\s+)(.*)\n`)
	flag.Usage = func() {
		_, _ = fmt.Fprint(flag.CommandLine.Output(), re.ReplaceAllStringFunc(usage, func(m string) string {
			return fmt.Sprintf("  %-"+commandOptionFieldWidth+"s %s\n", re.FindStringSubmatch(m)[1]+" "+strings.TrimSpace(re.FindStringSubmatch(m)[2]), re.FindStringSubmatch(m)[4])
		}))
	}
}
