package core

import "errors"

var (
	// ErrInvalidParameter reports an out-of-range or malformed configuration
	// value. Wrapped errors name the offending parameter and value.
	ErrInvalidParameter = errors.New("core: invalid parameter")

	// ErrNumericOverflow reports a computed magnitude beyond the plot-safe
	// range. It is raised instead of letting NaN/Inf propagate silently.
	ErrNumericOverflow = errors.New("core: numeric overflow")
)
