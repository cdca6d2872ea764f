package assets

import "errors"

// Sentinel errors for asset loading.
var (
	ErrInvalidImage = errors.New("invalid image")
	ErrEmptyRef     = errors.New("empty photo reference")
)
