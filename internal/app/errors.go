package app

import "errors"

// ErrNoSnapshot and related errors describe runtime failures.
var (
	ErrNoSnapshot = errors.New("no snapshot available")
)
