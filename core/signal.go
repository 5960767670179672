package core

import (
	"fmt"
	"math"
)

// Signal pairs a time grid with a same-length sample sequence. Signals are
// created fresh per request and treated as immutable once produced.
type Signal struct {
	Grid    TimeGrid
	Samples []float64
}

// NewSignal allocates a zero-valued signal over the grid.
func NewSignal(grid TimeGrid) Signal {
	return Signal{Grid: grid, Samples: make([]float64, grid.Len())}
}

// Len returns the sample count.
func (s Signal) Len() int {
	return len(s.Samples)
}

// Validate checks the length invariant and rejects non-finite samples.
func (s Signal) Validate() error {
	if len(s.Samples) != s.Grid.Len() {
		return fmt.Errorf("%w: signal length %d does not match grid length %d", ErrInvalidParameter, len(s.Samples), s.Grid.Len())
	}
	for i, v := range s.Samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite sample at index %d: %f", ErrInvalidParameter, i, v)
		}
	}
	return nil
}
