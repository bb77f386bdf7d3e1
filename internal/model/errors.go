package model

import "errors"

var (
	// ErrFetch wraps network, status and decoding failures of the oracle.
	ErrFetch = errors.New("gas oracle fetch failed")
	// ErrInvalidSample marks a parsed sample whose standard price is zero.
	ErrInvalidSample = errors.New("invalid gas sample")
	// ErrInvalidInterval is returned when the sampling interval is not positive.
	ErrInvalidInterval = errors.New("sampling interval must be positive")
	// ErrNoData is returned when an operation needs at least one sample.
	ErrNoData = errors.New("no data")
)
