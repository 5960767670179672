package system

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-lti/core"
	"github.com/cwbudde/algo-lti/spectrum"
)

// FrequencyResponse holds magnitude and unwrapped phase over a frequency
// axis in Hz.
type FrequencyResponse struct {
	Frequencies []float64
	Magnitude   []float64
	Phase       []float64
}

// Responses bundles the three standard views of a discrete system.
type Responses struct {
	Impulse   core.Signal
	Step      core.Signal
	Frequency FrequencyResponse
}

// Responses computes impulse, step and frequency response over the given
// grid. Time-domain responses require a discrete-time system; the frequency
// axis defaults to FrequencyAxis(len(grid)/2 + 1).
func (a *Analyzer) Responses(tf TransferFunction, grid core.TimeGrid) (Responses, error) {
	impulse, err := a.ImpulseResponse(tf, grid)
	if err != nil {
		return Responses{}, err
	}
	step, err := a.StepResponse(tf, grid)
	if err != nil {
		return Responses{}, err
	}
	freq, err := a.FrequencyResponse(tf, a.FrequencyAxis(grid.Len()/2+1))
	if err != nil {
		return Responses{}, err
	}
	return Responses{Impulse: impulse, Step: step, Frequency: freq}, nil
}

// ImpulseResponse feeds a unit sample through the system.
//
// Truncation policy: the response is computed over at most
// min(grid length, ImpulseHorizon) samples — IIR responses never terminate
// exactly — and the tail is trimmed once |h[n]| stays below
// DecayTolerance times the response peak.
func (a *Analyzer) ImpulseResponse(tf TransferFunction, grid core.TimeGrid) (core.Signal, error) {
	n := a.horizon(grid)
	input := make([]float64, n)
	input[0] = 1

	h, err := a.filter(tf, input)
	if err != nil {
		return core.Signal{}, err
	}
	h = a.trimDecayedTail(h)

	return signalOver(grid, h), nil
}

// StepResponse feeds the unit step (u[0] = 1) through the system. The step
// response is not tail-trimmed: it settles toward the DC gain rather than
// zero.
func (a *Analyzer) StepResponse(tf TransferFunction, grid core.TimeGrid) (core.Signal, error) {
	n := a.horizon(grid)
	input := make([]float64, n)
	for i := range input {
		input[i] = 1
	}

	s, err := a.filter(tf, input)
	if err != nil {
		return core.Signal{}, err
	}
	return signalOver(grid, s), nil
}

// Apply filters an arbitrary input signal through the system.
func (a *Analyzer) Apply(tf TransferFunction, in core.Signal) (core.Signal, error) {
	out, err := a.filter(tf, in.Samples)
	if err != nil {
		return core.Signal{}, err
	}
	return core.Signal{Grid: in.Grid, Samples: out}, nil
}

// FrequencyAxis returns n frequencies linearly spaced over [0, Nyquist].
func (a *Analyzer) FrequencyAxis(n int) []float64 {
	if n < 2 {
		n = 2
	}
	nyquist := a.cfg.SampleRate / 2
	out := make([]float64, n)
	for i := range out {
		out[i] = nyquist * float64(i) / float64(n-1)
	}
	return out
}

// FrequencyResponse evaluates H on the unit circle (discrete) or the
// imaginary axis (continuous) at the given frequencies in Hz. Phase is
// unwrapped to remove arctangent branch discontinuities.
func (a *Analyzer) FrequencyResponse(tf TransferFunction, freqs []float64) (FrequencyResponse, error) {
	if len(freqs) == 0 {
		return FrequencyResponse{}, fmt.Errorf("%w: frequency axis must not be empty", core.ErrInvalidParameter)
	}

	mag := make([]float64, len(freqs))
	phase := make([]float64, len(freqs))
	for i, f := range freqs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return FrequencyResponse{}, fmt.Errorf("%w: non-finite frequency at index %d", core.ErrInvalidParameter, i)
		}

		var x complex128
		if tf.Domain == DomainDiscrete {
			w := 2 * math.Pi * f / a.cfg.SampleRate
			x = cmplx.Exp(complex(0, w))
		} else {
			x = complex(0, 2*math.Pi*f)
		}

		h := tf.Eval(x)
		m := cmplx.Abs(h)
		if math.IsInf(m, 0) || math.IsNaN(m) || m > a.cfg.OverflowLimit {
			return FrequencyResponse{}, fmt.Errorf("%w: |H| at %f Hz exceeds %g", core.ErrNumericOverflow, f, a.cfg.OverflowLimit)
		}
		mag[i] = m
		phase[i] = cmplx.Phase(h)
	}

	return FrequencyResponse{
		Frequencies: append([]float64(nil), freqs...),
		Magnitude:   mag,
		Phase:       spectrum.UnwrapPhase(phase),
	}, nil
}

func (a *Analyzer) horizon(grid core.TimeGrid) int {
	n := grid.Len()
	if a.cfg.ImpulseHorizon > 0 && n > a.cfg.ImpulseHorizon {
		n = a.cfg.ImpulseHorizon
	}
	return n
}

// filter runs Direct Form II Transposed over the full coefficient pair.
// Only defined for discrete-time systems; any output sample beyond the
// overflow limit aborts with ErrNumericOverflow instead of letting Inf/NaN
// propagate into plots. Cascade designs filter stage by stage.
func (a *Analyzer) filter(tf TransferFunction, input []float64) ([]float64, error) {
	if tf.Domain != DomainDiscrete {
		return nil, fmt.Errorf("%w: time-domain response requires a discrete-time system", core.ErrInvalidParameter)
	}
	if len(tf.sections) > 0 {
		return a.filterCascade(tf.sections, input)
	}
	if len(tf.Den) == 0 || tf.Den[0] == 0 {
		return nil, fmt.Errorf("%w: leading denominator coefficient is zero", ErrImproperSystem)
	}

	order := len(tf.Num)
	if len(tf.Den) > order {
		order = len(tf.Den)
	}

	// Taps normalized so a0 == 1, zero-padded to a common length.
	b := make([]float64, order)
	av := make([]float64, order)
	for i, c := range tf.Num {
		b[i] = c / tf.Den[0]
	}
	for i, c := range tf.Den {
		av[i] = c / tf.Den[0]
	}

	out := make([]float64, len(input))
	state := make([]float64, order-1)

	for i, x := range input {
		var y float64
		if order == 1 {
			y = b[0] * x
		} else {
			y = b[0]*x + state[0]
			for j := 0; j < order-2; j++ {
				state[j] = b[j+1]*x - av[j+1]*y + state[j+1]
			}
			state[order-2] = b[order-1]*x - av[order-1]*y
		}

		if math.IsNaN(y) || math.Abs(y) > a.cfg.OverflowLimit {
			return nil, fmt.Errorf("%w: response sample %d exceeds %g", core.ErrNumericOverflow, i, a.cfg.OverflowLimit)
		}
		out[i] = y
	}
	return out, nil
}

// filterCascade runs each stage in Direct Form II Transposed, feeding the
// output of one stage into the next. Per-stage state keeps high-order
// designs well conditioned where the flattened taps are not.
func (a *Analyzer) filterCascade(sections []section, input []float64) ([]float64, error) {
	out := make([]float64, len(input))
	d0 := make([]float64, len(sections))
	d1 := make([]float64, len(sections))

	for i, x := range input {
		for j, s := range sections {
			y := s.b0*x + d0[j]
			d0[j] = s.b1*x - s.a1*y + d1[j]
			d1[j] = s.b2*x - s.a2*y
			x = y
		}

		if math.IsNaN(x) || math.Abs(x) > a.cfg.OverflowLimit {
			return nil, fmt.Errorf("%w: response sample %d exceeds %g", core.ErrNumericOverflow, i, a.cfg.OverflowLimit)
		}
		out[i] = x
	}
	return out, nil
}

// trimDecayedTail drops trailing samples once the response envelope has
// decayed below DecayTolerance times its peak. At least one sample is kept.
func (a *Analyzer) trimDecayedTail(h []float64) []float64 {
	peak := 0.0
	for _, v := range h {
		if av := math.Abs(v); av > peak {
			peak = av
		}
	}
	if peak == 0 {
		return h[:1]
	}

	threshold := a.cfg.DecayTolerance * peak
	last := len(h) - 1
	for last > 0 && math.Abs(h[last]) < threshold {
		last--
	}
	return h[:last+1]
}

// signalOver wraps samples of length <= grid.Len() in a signal whose grid
// spans exactly the kept samples.
func signalOver(grid core.TimeGrid, samples []float64) core.Signal {
	sub := core.TimeGrid{
		SampleRate:  grid.SampleRate,
		Duration:    float64(len(samples)) / grid.SampleRate,
		StartOffset: grid.StartOffset,
	}
	return core.Signal{Grid: sub, Samples: samples}
}
