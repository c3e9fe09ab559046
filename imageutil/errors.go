package imageutil

import "errors"

var (
	// ErrDimensionMismatch は2つの画像の幅または高さが異なる場合に返される
	ErrDimensionMismatch = errors.New("image dimensions do not match")

	// ErrInvalidParameter は半径や感度が範囲外の場合に返される
	ErrInvalidParameter = errors.New("invalid parameter")
)
