package domain

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrDecode          = errors.New("image decode failed")
	ErrSynthesis       = errors.New("synthesis failed")
	ErrGeometry        = errors.New("geometry invariant violated")
	ErrOutsideContent  = errors.New("outside visible content")
	ErrUnsupportedView = errors.New("unsupported view")
)
