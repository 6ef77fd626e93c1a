package dump

import "errors"

var (
	// ErrStop may be returned by a PageFunc to end reading early. The
	// reader then returns nil.
	ErrStop = errors.New("dump: stop")

	ErrMalformed     = errors.New("dump: malformed input")
	ErrNotArray      = errors.New("dump: JSON dump must be a top-level array")
	ErrUnknownLayout = errors.New("dump: unrecognized dump layout")
)
