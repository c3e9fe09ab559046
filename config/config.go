package config

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"runtime"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/xshoji/go-diffbox/utils"
)

// 環境変数名
const (
	EnvConfigPath  = "DIFFBOX_CONFIG"
	EnvRadius      = "DIFFBOX_RADIUS"
	EnvSensitivity = "DIFFBOX_SENSITIVITY"
	EnvNumCPU      = "DIFFBOX_NUM_CPU"
	EnvOutput      = "DIFFBOX_OUTPUT"
)

// ErrInvalidConfig は設定値が不正な場合に返される
var ErrInvalidConfig = errors.New("invalid config")

// AppConfig は画像差分検出のための設定を保持する構造体
type AppConfig struct {
	// 差分検出の設定
	Radius      int     // 差分ピクセル周辺をマークする半径（ピクセル単位）
	Sensitivity float64 // 正規化した色距離の閾値 (0.0-1.0)

	// 並列処理のための設定
	NumCPU int // 使用するCPUコア数

	// 枠線の設定
	BorderColor     color.RGBA // 枠の色
	BorderThickness int        // 枠の太さ（ピクセル単位）
	ArcWidth        int        // 角丸の水平方向の直径
	ArcHeight       int        // 角丸の垂直方向の直径

	// 出力の設定
	OutputPath string // 差分画像の出力先

	// 進捗表示の設定
	ProgressStep int  // 進捗表示の間隔（パーセント）
	Quiet        bool // [INFO] ログを抑制する
}

// NewDefaultConfig はデフォルト設定を持つ新しいAppConfigを返す
func NewDefaultConfig() *AppConfig {
	return &AppConfig{
		Radius:          3,
		Sensitivity:     0.10,
		NumCPU:          runtime.NumCPU(),
		BorderColor:     color.RGBA{255, 0, 0, 255}, // 赤枠
		BorderThickness: 1,
		ArcWidth:        0,
		ArcHeight:       15,
		OutputPath:      "./diff.png",
		ProgressStep:    25,
		Quiet:           false,
	}
}

// fileConfig はTOML設定ファイルの構造
// 指定されていない項目はnilのまま残り、既存の値を上書きしない
type fileConfig struct {
	Radius       *int     `toml:"radius"`
	Sensitivity  *float64 `toml:"sensitivity"`
	NumCPU       *int     `toml:"num_cpu"`
	Output       *string  `toml:"output"`
	ProgressStep *int     `toml:"progress_step"`
	Quiet        *bool    `toml:"quiet"`
	Border       struct {
		Color     *string `toml:"color"`
		Thickness *int    `toml:"thickness"`
		ArcWidth  *int    `toml:"arc_width"`
		ArcHeight *int    `toml:"arc_height"`
	} `toml:"border"`
}

// Load はデフォルト設定に設定ファイルと環境変数を順に重ねた設定を返す
// path が空の場合は DIFFBOX_CONFIG を参照し、それも空なら設定ファイルは読まない
func Load(path string) (*AppConfig, error) {
	// .env ファイルを読み込む（ファイルがなければ無視）
	_ = godotenv.Load()

	cfg := NewDefaultConfig()

	if path == "" {
		path = utils.GetEnvOrDefault(EnvConfigPath, "")
	}
	if path != "" {
		if err := cfg.ApplyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyFile はTOML設定ファイルの値で設定を上書きする
func (c *AppConfig) ApplyFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if fc.Radius != nil {
		c.Radius = *fc.Radius
	}
	if fc.Sensitivity != nil {
		c.Sensitivity = *fc.Sensitivity
	}
	if fc.NumCPU != nil {
		c.NumCPU = *fc.NumCPU
	}
	if fc.Output != nil {
		c.OutputPath = *fc.Output
	}
	if fc.ProgressStep != nil {
		c.ProgressStep = *fc.ProgressStep
	}
	if fc.Quiet != nil {
		c.Quiet = *fc.Quiet
	}
	if fc.Border.Color != nil {
		col, err := ParseHexColor(*fc.Border.Color)
		if err != nil {
			return fmt.Errorf("config file %s: %w", path, err)
		}
		c.BorderColor = col
	}
	if fc.Border.Thickness != nil {
		c.BorderThickness = *fc.Border.Thickness
	}
	if fc.Border.ArcWidth != nil {
		c.ArcWidth = *fc.Border.ArcWidth
	}
	if fc.Border.ArcHeight != nil {
		c.ArcHeight = *fc.Border.ArcHeight
	}

	return nil
}

// ApplyEnv は環境変数の値で設定を上書きする
func (c *AppConfig) ApplyEnv() error {
	if v := utils.GetEnvOrDefault(EnvRadius, ""); v != "" {
		radius, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, EnvRadius, v)
		}
		c.Radius = radius
	}
	if v := utils.GetEnvOrDefault(EnvSensitivity, ""); v != "" {
		sensitivity, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, EnvSensitivity, v)
		}
		c.Sensitivity = sensitivity
	}
	if v := utils.GetEnvOrDefault(EnvNumCPU, ""); v != "" {
		numCPU, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, EnvNumCPU, v)
		}
		c.NumCPU = numCPU
	}
	c.OutputPath = utils.GetEnvOrDefault(EnvOutput, c.OutputPath)

	return nil
}

// Validate は設定値の範囲をチェックする
func (c *AppConfig) Validate() error {
	switch {
	case c.Radius < 0:
		return fmt.Errorf("%w: radius must be >= 0, got %d", ErrInvalidConfig, c.Radius)
	case math.IsNaN(c.Sensitivity) || c.Sensitivity < 0 || c.Sensitivity > 1:
		return fmt.Errorf("%w: sensitivity must be within [0, 1], got %v", ErrInvalidConfig, c.Sensitivity)
	case c.NumCPU < 1:
		return fmt.Errorf("%w: cpu count must be >= 1, got %d", ErrInvalidConfig, c.NumCPU)
	case c.BorderThickness < 1:
		return fmt.Errorf("%w: border thickness must be >= 1, got %d", ErrInvalidConfig, c.BorderThickness)
	case c.ArcWidth < 0 || c.ArcHeight < 0:
		return fmt.Errorf("%w: arc size must be >= 0, got %dx%d", ErrInvalidConfig, c.ArcWidth, c.ArcHeight)
	case c.OutputPath == "":
		return fmt.Errorf("%w: output path is empty", ErrInvalidConfig)
	}
	return nil
}

// ParseHexColor は "#rrggbb" または "rrggbb" 形式の文字列を不透明な色に変換する
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: color %q must be in #rrggbb form", ErrInvalidConfig, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: color %q: %v", ErrInvalidConfig, s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
