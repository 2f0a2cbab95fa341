package domain

import "errors"

var (
	ErrInvalidID        = errors.New("invalid id")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrInvalidCount     = errors.New("invalid count")
)
