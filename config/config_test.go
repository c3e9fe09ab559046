package config

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv はテスト中の DIFFBOX_* 環境変数を空にする（空文字は未設定として扱われる）
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvConfigPath, EnvRadius, EnvSensitivity, EnvNumCPU, EnvOutput} {
		t.Setenv(key, "")
	}
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Radius != 3 {
		t.Errorf("Radius should be 3, but got %d", cfg.Radius)
	}

	if cfg.Sensitivity != 0.10 {
		t.Errorf("Sensitivity should be 0.10, but got %f", cfg.Sensitivity)
	}

	if cfg.NumCPU != runtime.NumCPU() {
		t.Errorf("NumCPU should be %d, but got %d", runtime.NumCPU(), cfg.NumCPU)
	}

	if cfg.BorderColor != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("BorderColor should be red, but got %v", cfg.BorderColor)
	}

	if cfg.BorderThickness != 1 {
		t.Errorf("BorderThickness should be 1, but got %d", cfg.BorderThickness)
	}

	if cfg.ArcWidth != 0 || cfg.ArcHeight != 15 {
		t.Errorf("Arc should be 0x15, but got %dx%d", cfg.ArcWidth, cfg.ArcHeight)
	}

	if cfg.OutputPath != "./diff.png" {
		t.Errorf("OutputPath should be ./diff.png, but got %s", cfg.OutputPath)
	}

	if cfg.ProgressStep != 25 {
		t.Errorf("ProgressStep should be 25, but got %d", cfg.ProgressStep)
	}

	if cfg.Quiet {
		t.Errorf("Quiet should be false, but got %v", cfg.Quiet)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid, but got %v", err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "diffbox.toml")
	content := `
radius = 5
sensitivity = 0.25
output = "out/file.png"
quiet = true

[border]
color = "#00ff00"
thickness = 3
arc_width = 4
arc_height = 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// 環境変数は設定ファイルより優先される
	t.Setenv(EnvRadius, "7")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Radius)
	assert.Equal(t, 0.25, cfg.Sensitivity)
	assert.Equal(t, "out/file.png", cfg.OutputPath)
	assert.True(t, cfg.Quiet)
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, cfg.BorderColor)
	assert.Equal(t, 3, cfg.BorderThickness)
	assert.Equal(t, 4, cfg.ArcWidth)
	assert.Equal(t, 8, cfg.ArcHeight)
	// ファイルに記載のない項目はデフォルトのまま
	assert.Equal(t, 25, cfg.ProgressStep)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "env.toml")
	require.NoError(t, os.WriteFile(path, []byte("radius = 9\n"), 0o644))
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Radius)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
		require.Error(t, err)
	})

	t.Run("bad color", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("[border]\ncolor = \"red\"\n"), 0o644))
		_, err := Load(path)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("bad env number", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvSensitivity, "high")
		_, err := Load("")
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvRadius, "1")
	t.Setenv(EnvSensitivity, "0.5")
	t.Setenv(EnvNumCPU, "2")
	t.Setenv(EnvOutput, "result.jpg")

	cfg := NewDefaultConfig()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, 1, cfg.Radius)
	assert.Equal(t, 0.5, cfg.Sensitivity)
	assert.Equal(t, 2, cfg.NumCPU)
	assert.Equal(t, "result.jpg", cfg.OutputPath)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *AppConfig)
		wantErr bool
	}{
		{"default", func(c *AppConfig) {}, false},
		{"radius zero", func(c *AppConfig) { c.Radius = 0 }, false},
		{"negative radius", func(c *AppConfig) { c.Radius = -1 }, true},
		{"sensitivity zero", func(c *AppConfig) { c.Sensitivity = 0 }, false},
		{"sensitivity one", func(c *AppConfig) { c.Sensitivity = 1 }, false},
		{"sensitivity above one", func(c *AppConfig) { c.Sensitivity = 1.01 }, true},
		{"negative sensitivity", func(c *AppConfig) { c.Sensitivity = -0.1 }, true},
		{"NaN sensitivity", func(c *AppConfig) { c.Sensitivity = math.NaN() }, true},
		{"zero cpu", func(c *AppConfig) { c.NumCPU = 0 }, true},
		{"zero thickness", func(c *AppConfig) { c.BorderThickness = 0 }, true},
		{"negative arc", func(c *AppConfig) { c.ArcHeight = -2 }, true},
		{"empty output", func(c *AppConfig) { c.OutputPath = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input   string
		want    color.RGBA
		wantErr bool
	}{
		{"#ff0000", color.RGBA{255, 0, 0, 255}, false},
		{"0080ff", color.RGBA{0, 128, 255, 255}, false},
		{" #FFFFFF ", color.RGBA{255, 255, 255, 255}, false},
		{"#fff", color.RGBA{}, true},
		{"#gggggg", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseHexColor(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
