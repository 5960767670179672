package system

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-lti/core"
)

var (
	// ErrInvalidFilterParameter reports an out-of-range filter design
	// parameter (cutoff, order, window length). It wraps
	// core.ErrInvalidParameter so callers can match either.
	ErrInvalidFilterParameter = fmt.Errorf("system: invalid filter parameter (%w)", core.ErrInvalidParameter)

	// ErrImproperSystem reports a transfer function whose leading
	// denominator coefficient is zero.
	ErrImproperSystem = errors.New("system: improper transfer function")

	// ErrDegenerateSystem reports a numerically singular coefficient set
	// (empty, non-finite, or one whose roots cannot be determined).
	ErrDegenerateSystem = errors.New("system: degenerate transfer function")
)
