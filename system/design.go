package system

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-lti/core"
)

// Analyzer builds transfer functions for named filter families and computes
// their responses. It holds only the analysis configuration; every call is
// independent and reentrant.
type Analyzer struct {
	cfg core.Config
}

// NewAnalyzer creates a configured system analyzer.
func NewAnalyzer(opts ...core.Option) *Analyzer {
	return &Analyzer{cfg: core.ApplyOptions(opts...)}
}

// Config returns the analyzer configuration.
func (a *Analyzer) Config() core.Config {
	return a.cfg
}

// Build constructs the transfer function for a filter family spec.
//
// Butterworth designs are digital (bilinear transform) against the
// configured sample rate; cutoffs must lie strictly inside (0, Nyquist).
//
//nolint:cyclop
func (a *Analyzer) Build(spec FamilySpec) (TransferFunction, error) {
	nyquist := a.cfg.SampleRate / 2

	switch s := spec.(type) {
	case LowpassParams:
		if err := validateCutoff("lowpass cutoff", s.Cutoff, nyquist); err != nil {
			return TransferFunction{}, err
		}
		if err := validateOrder("lowpass", s.Order); err != nil {
			return TransferFunction{}, err
		}
		return newCascade(butterworthSections(s.Cutoff, s.Order, a.cfg.SampleRate, false))

	case HighpassParams:
		if err := validateCutoff("highpass cutoff", s.Cutoff, nyquist); err != nil {
			return TransferFunction{}, err
		}
		if err := validateOrder("highpass", s.Order); err != nil {
			return TransferFunction{}, err
		}
		return newCascade(butterworthSections(s.Cutoff, s.Order, a.cfg.SampleRate, true))

	case BandpassParams:
		if err := validateCutoff("bandpass low cut", s.LowCut, nyquist); err != nil {
			return TransferFunction{}, err
		}
		if err := validateCutoff("bandpass high cut", s.HighCut, nyquist); err != nil {
			return TransferFunction{}, err
		}
		if s.LowCut >= s.HighCut {
			return TransferFunction{}, fmt.Errorf("%w: bandpass edges must satisfy low < high: %f >= %f", ErrInvalidFilterParameter, s.LowCut, s.HighCut)
		}
		if err := validateOrder("bandpass", s.Order); err != nil {
			return TransferFunction{}, err
		}
		// Series highpass-at-LowCut, lowpass-at-HighCut cascade. This
		// approximates a true 2*Order bandpass prototype; the band edges
		// match but the passband is slightly narrower for close cutoffs.
		sections := butterworthSections(s.LowCut, s.Order, a.cfg.SampleRate, true)
		sections = append(sections, butterworthSections(s.HighCut, s.Order, a.cfg.SampleRate, false)...)
		return newCascade(sections)

	case MovingAverageParams:
		if s.Window < 1 {
			return TransferFunction{}, fmt.Errorf("%w: moving average window must be >= 1: %d", ErrInvalidFilterParameter, s.Window)
		}
		num := make([]float64, s.Window)
		for i := range num {
			num[i] = 1 / float64(s.Window)
		}
		return NewTransferFunction(num, []float64{1}, DomainDiscrete)

	case DifferentiatorParams:
		// Stable approximation of the unrealizable ideal differentiator
		// jw: the leaky difference H(z) = (1 - z^-1)/(1 - Alpha*z^-1).
		// Gain error versus the ideal grows toward Nyquist, bounded by
		// 2/(1-Alpha) instead of diverging.
		if err := validateLeak("differentiator alpha", s.Alpha, 0.999); err != nil {
			return TransferFunction{}, err
		}
		return NewTransferFunction([]float64{1, -1}, []float64{1, -s.Alpha}, DomainDiscrete)

	case IntegratorParams:
		// Stable approximation of the unrealizable ideal integrator 1/jw:
		// the leaky accumulator H(z) = 1/(1 - Beta*z^-1). DC gain is
		// 1/(1-Beta) rather than infinite, so a constant input settles
		// instead of ramping forever.
		if err := validateLeak("integrator beta", s.Beta, 0.9999); err != nil {
			return TransferFunction{}, err
		}
		return NewTransferFunction([]float64{1}, []float64{1, -s.Beta}, DomainDiscrete)

	case CustomParams:
		return NewTransferFunction(s.Num, s.Den, s.Domain)
	}

	return TransferFunction{}, fmt.Errorf("%w: unknown filter family spec %T", ErrInvalidFilterParameter, spec)
}

func validateCutoff(name string, cutoff, nyquist float64) error {
	if cutoff <= 0 || cutoff >= nyquist || math.IsNaN(cutoff) {
		return fmt.Errorf("%w: %s must be in (0, %f): %f", ErrInvalidFilterParameter, name, nyquist, cutoff)
	}
	return nil
}

func validateOrder(name string, order int) error {
	if order < 1 {
		return fmt.Errorf("%w: %s order must be >= 1: %d", ErrInvalidFilterParameter, name, order)
	}
	return nil
}

func validateLeak(name string, leak, max float64) error {
	if leak < 0 || leak > max || math.IsNaN(leak) {
		return fmt.Errorf("%w: %s must be in [0, %g]: %f", ErrInvalidFilterParameter, name, max, leak)
	}
	return nil
}

// section is a second-order digital filter stage with a0 normalized to 1.
// First-order stages leave b2 and a2 zero.
type section struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// eval evaluates the stage transfer function at a z-plane point. The
// positive-power form (b0*z^2 + b1*z + b2)/(z^2 + a1*z + a2) is used so
// z = 0 stays well defined; first-order stages use the linear form.
func (s section) eval(z complex128) complex128 {
	if s.b2 == 0 && s.a2 == 0 {
		num := complex(s.b0, 0)*z + complex(s.b1, 0)
		den := z + complex(s.a1, 0)
		return num / den
	}
	num := (complex(s.b0, 0)*z+complex(s.b1, 0))*z + complex(s.b2, 0)
	den := (z+complex(s.a1, 0))*z + complex(s.a2, 0)
	return num / den
}

// poleSet returns the stage poles in closed form: the single root -a1 for
// first-order stages, the roots of z^2 + a1*z + a2 otherwise.
func (s section) poleSet() []complex128 {
	if s.b2 == 0 && s.a2 == 0 {
		return []complex128{complex(-s.a1, 0)}
	}
	return quadraticRoots(1, s.a1, s.a2)
}

// zeroSet returns the stage zeros in closed form, mirroring poleSet for the
// numerator.
func (s section) zeroSet() []complex128 {
	if s.b2 == 0 && s.a2 == 0 {
		if s.b0 == 0 {
			return nil
		}
		return []complex128{complex(-s.b1/s.b0, 0)}
	}
	return quadraticRoots(s.b0, s.b1, s.b2)
}

// quadraticRoots solves a*z^2 + b*z + c = 0, lifting a negative
// discriminant into a conjugate pair.
func quadraticRoots(a, b, c float64) []complex128 {
	if a == 0 {
		if b == 0 {
			return nil
		}
		return []complex128{complex(-c/b, 0)}
	}
	sq := cmplx.Sqrt(complex(b*b-4*a*c, 0))
	return []complex128{
		(complex(-b, 0) + sq) / complex(2*a, 0),
		(complex(-b, 0) - sq) / complex(2*a, 0),
	}
}

// butterworthSections designs a Butterworth cascade as biquad stages: one
// RBJ biquad per conjugate pole pair with section Q from the Butterworth
// pole angles, plus a first-order stage for odd orders.
func butterworthSections(freq float64, order int, sampleRate float64, highpass bool) []section {
	sections := make([]section, 0, (order+1)/2)

	for i := order/2 - 1; i >= 0; i-- {
		q := butterworthQ(order, i)
		sections = append(sections, biquadRBJ(freq, q, sampleRate, highpass))
	}
	if order%2 != 0 {
		sections = append(sections, firstOrderSection(freq, sampleRate, highpass))
	}
	return sections
}

// butterworthQ returns the quality factor of Butterworth section index
// (0 .. order/2-1).
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return 1 / math.Sqrt2
	}
	return 1 / (2 * s)
}

// biquadRBJ designs a second-order low/highpass stage from the RBJ cookbook
// formulas. The caller guarantees 0 < freq < sampleRate/2.
func biquadRBJ(freq, q, sampleRate float64, highpass bool) section {
	w0 := 2 * math.Pi * freq / sampleRate
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	a0 := 1 + alpha
	var b0, b1, b2 float64
	if highpass {
		b0 = (1 + cw) / 2
		b1 = -(1 + cw)
		b2 = (1 + cw) / 2
	} else {
		b0 = (1 - cw) / 2
		b1 = 1 - cw
		b2 = (1 - cw) / 2
	}

	return section{
		b0: b0 / a0,
		b1: b1 / a0,
		b2: b2 / a0,
		a1: -2 * cw / a0,
		a2: (1 - alpha) / a0,
	}
}

// firstOrderSection designs the odd-order tail stage via the bilinear
// transform of a first-order analog prototype.
func firstOrderSection(freq, sampleRate float64, highpass bool) section {
	k := math.Tan(math.Pi * freq / sampleRate)
	norm := 1 / (1 + k)

	if highpass {
		return section{b0: norm, b1: -norm, a1: (k - 1) * norm}
	}
	return section{b0: k * norm, b1: k * norm, a1: (k - 1) * norm}
}

// newCascade wraps cascaded stages in a transfer function that keeps the
// stage list. The flattened polynomials are exposed for inspection, but
// evaluation, filtering and root extraction run on the stages: multiplying
// high-order cascades out loses the pole positions to rounding near the
// band edges.
func newCascade(sections []section) (TransferFunction, error) {
	num, den := cascadeToPoly(sections)
	tf, err := NewTransferFunction(num, den, DomainDiscrete)
	if err != nil {
		return TransferFunction{}, err
	}
	tf.sections = sections
	return tf, nil
}

// cascadeToPoly multiplies cascaded stages into a single numerator and
// denominator polynomial pair (descending-power convention).
func cascadeToPoly(sections []section) (num, den []float64) {
	num = []float64{1}
	den = []float64{1}
	for _, s := range sections {
		bs := []float64{s.b0, s.b1, s.b2}
		as := []float64{1, s.a1, s.a2}
		if s.b2 == 0 && s.a2 == 0 {
			bs = bs[:2]
			as = as[:2]
		}
		num = polyMul(num, bs)
		den = polyMul(den, as)
	}
	return num, den
}

// polyMul is the linear convolution of two coefficient sequences.
func polyMul(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}
