// Package spectrum computes one-sided magnitude/phase spectra of sampled
// signals.
//
// Analysis policy (fixed so identical inputs always produce identical
// output): no window is applied (rectangular), the input is zero-padded to
// the next power of two, and bins above Nyquist are discarded. Magnitudes
// are raw FFT moduli without bin-count normalization.
package spectrum

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-lti/core"
	"github.com/cwbudde/algo-vecmath"
)

// Result pairs an ascending one-sided frequency axis (length N/2+1) with
// same-length magnitude and unwrapped phase sequences.
type Result struct {
	Frequencies []float64
	Magnitude   []float64
	Phase       []float64
}

// Analyzer computes spectra under a shared configuration.
type Analyzer struct {
	cfg core.Config
}

// NewAnalyzer creates a configured spectrum analyzer.
func NewAnalyzer(opts ...core.Option) *Analyzer {
	return &Analyzer{cfg: core.ApplyOptions(opts...)}
}

// Config returns the analyzer configuration.
func (a *Analyzer) Config() core.Config {
	return a.cfg
}

// Spectrum computes the one-sided spectrum of a signal. The frequency axis
// derives from the signal's own sample rate and the padded FFT length.
func (a *Analyzer) Spectrum(sig core.Signal) (Result, error) {
	if sig.Len() == 0 {
		return Result{}, fmt.Errorf("%w: spectrum input must not be empty", core.ErrInvalidParameter)
	}
	if err := sig.Validate(); err != nil {
		return Result{}, err
	}

	fftSize := nextPowerOfTwo(sig.Len())

	in := make([]complex128, fftSize)
	for i, v := range sig.Samples {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Result{}, fmt.Errorf("spectrum fft plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return Result{}, fmt.Errorf("spectrum fft: %w", err)
	}

	bins := fftSize/2 + 1
	oneSided := out[:bins]

	freqs := make([]float64, bins)
	binWidth := sig.Grid.SampleRate / float64(fftSize)
	for k := range freqs {
		freqs[k] = float64(k) * binWidth
	}

	return Result{
		Frequencies: freqs,
		Magnitude:   Magnitude(oneSided),
		Phase:       UnwrapPhase(Phase(oneSided)),
	}, nil
}

// Magnitude returns |X[k]| for each complex spectrum bin using the SIMD
// vector kernels.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	re := make([]float64, len(in))
	im := make([]float64, len(in))
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	out := make([]float64, len(in))
	vecmath.Magnitude(out, re, im)
	return out
}

// MagnitudeDB converts linear magnitudes to dB (20*log10), flooring each
// value at floorDB so zero bins map to a finite level instead of -Inf.
func MagnitudeDB(in []float64, floorDB float64) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	for i, m := range in {
		out[i] = core.Clamp(core.LinearToDB(m), floorDB, math.Inf(1))
	}
	return out
}

// Phase returns arg(X[k]) for each complex spectrum bin in radians.
func Phase(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = cmplx.Phase(c)
	}
	return out
}

// UnwrapPhase returns a new phase slice with +/-2*pi discontinuities
// removed.
func UnwrapPhase(phase []float64) []float64 {
	if len(phase) == 0 {
		return nil
	}
	out := make([]float64, len(phase))
	out[0] = phase[0]
	offset := 0.0
	for i := 1; i < len(phase); i++ {
		d := phase[i] - phase[i-1]
		switch {
		case d > math.Pi:
			offset -= 2 * math.Pi
		case d < -math.Pi:
			offset += 2 * math.Pi
		}
		out[i] = phase[i] + offset
	}
	return out
}

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size *= 2
	}
	return size
}
