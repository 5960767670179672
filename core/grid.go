package core

import (
	"fmt"
	"math"
)

// TimeGrid describes a uniform sampling grid over the half-open interval
// [StartOffset, StartOffset+Duration). Sample i lies at
// StartOffset + i/SampleRate, matching the endpoint-exclusive convention
// of the sample count round(SampleRate*Duration).
type TimeGrid struct {
	SampleRate  float64
	Duration    float64
	StartOffset float64
}

// NewTimeGrid validates and returns a uniform time grid.
func NewTimeGrid(sampleRate, duration, startOffset float64) (TimeGrid, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return TimeGrid{}, fmt.Errorf("%w: grid sample rate must be > 0: %f", ErrInvalidParameter, sampleRate)
	}
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return TimeGrid{}, fmt.Errorf("%w: grid duration must be > 0: %f", ErrInvalidParameter, duration)
	}
	if math.IsNaN(startOffset) || math.IsInf(startOffset, 0) {
		return TimeGrid{}, fmt.Errorf("%w: grid start offset must be finite: %f", ErrInvalidParameter, startOffset)
	}
	if int(math.Round(sampleRate*duration)) < 1 {
		return TimeGrid{}, fmt.Errorf("%w: grid holds no samples: rate=%f duration=%f", ErrInvalidParameter, sampleRate, duration)
	}
	return TimeGrid{SampleRate: sampleRate, Duration: duration, StartOffset: startOffset}, nil
}

// GridFromConfig builds the time grid described by a Config.
func GridFromConfig(cfg Config) (TimeGrid, error) {
	return NewTimeGrid(cfg.SampleRate, cfg.Duration, cfg.StartOffset)
}

// Len returns the number of samples on the grid.
func (g TimeGrid) Len() int {
	return int(math.Round(g.SampleRate * g.Duration))
}

// Step returns the sample spacing in seconds.
func (g TimeGrid) Step() float64 {
	return 1 / g.SampleRate
}

// Nyquist returns half the sample rate.
func (g TimeGrid) Nyquist() float64 {
	return g.SampleRate / 2
}

// At returns the time of sample i.
func (g TimeGrid) At(i int) float64 {
	return g.StartOffset + float64(i)/g.SampleRate
}

// Times returns the full vector of sample instants. The result is strictly
// increasing with uniform spacing 1/SampleRate.
func (g TimeGrid) Times() []float64 {
	out := make([]float64, g.Len())
	for i := range out {
		out[i] = g.At(i)
	}
	return out
}

// NearestIndex returns the grid index whose sample instant is closest to t,
// clamped to the grid bounds.
func (g TimeGrid) NearestIndex(t float64) int {
	i := int(math.Round((t - g.StartOffset) * g.SampleRate))
	if i < 0 {
		return 0
	}
	if n := g.Len(); i >= n {
		return n - 1
	}
	return i
}
