package analysis

import "errors"

var (
	// ErrBadInput marks client-side data problems (malformed CSV, missing
	// column, undecodable chart image). Mapped to 400 at the HTTP edge.
	ErrBadInput = errors.New("bad input")
)
