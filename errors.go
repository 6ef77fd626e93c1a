package wiki2html

import "errors"

// Sentinel errors for library operations.
var (
	ErrInputTooLarge   = errors.New("input exceeds maximum size")
	ErrUnknownFormat   = errors.New("unknown wiki format")
	ErrInvalidOption   = errors.New("invalid converter option")
	ErrHTMLRewrite     = errors.New("HTML post-processing failed")
	ErrInvalidTOCDepth = errors.New("invalid TOC depth")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
