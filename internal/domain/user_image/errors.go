package user_image

import "errors"

var (
	ErrUnsupportedFormat          = errors.New("unsupported image format")
	ErrTooSmall                   = errors.New("image too small")
	ErrTooManyPixels              = errors.New("image dimensions too large")
	ErrInvalidDimension           = errors.New("invalid dimension")
	ErrDerivativeGenerationFailed = errors.New("derivative generation failed")
	ErrStorageFailure             = errors.New("storage failure")
	ErrImageNotFound              = errors.New("image not found")
)
