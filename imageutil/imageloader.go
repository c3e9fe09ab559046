package imageutil

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// LoadImage 指定されたパスから画像を読み込む
// 対応形式: PNG, JPEG, TIFF, BMP, WebP
func LoadImage(filePath *string) (image.Image, error) {
	file, err := os.Open(*filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var img image.Image
	ext := strings.ToLower(filepath.Ext(*filePath))

	switch ext {
	case ".png":
		img, err = png.Decode(file)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(file)
	case ".tif", ".tiff":
		img, err = tiff.Decode(file)
	case ".bmp":
		img, err = bmp.Decode(file)
	case ".webp":
		img, err = webp.Decode(file)
	default:
		return nil, fmt.Errorf("unsupported image format: %s", ext)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return img, nil
}

// SaveDiffImage 差分画像をファイルに保存する
// 対応形式: PNG, JPEG, TIFF, BMP
func SaveDiffImage(img image.Image, outputPath *string) error {
	ext := strings.ToLower(filepath.Ext(*outputPath))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp":
	default:
		return fmt.Errorf("unsupported output format: %s", ext)
	}

	file, err := os.Create(*outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	var saveErr error
	switch ext {
	case ".png":
		saveErr = png.Encode(file, img)
	case ".jpg", ".jpeg":
		saveErr = jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
	case ".tif", ".tiff":
		saveErr = tiff.Encode(file, img, &tiff.Options{Compression: tiff.Deflate})
	case ".bmp":
		saveErr = bmp.Encode(file, img)
	}

	if saveErr != nil {
		return fmt.Errorf("failed to save image: %w", saveErr)
	}

	return nil
}
