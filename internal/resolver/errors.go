package resolver

import "errors"

var (
	// ErrPairNotFound means every probe came back empty: no pool exists for
	// the pair within the searched range.
	ErrPairNotFound = errors.New("pair not found")
	ErrNetwork      = errors.New("network error")
	ErrTimeout      = errors.New("remote read timed out")
)
