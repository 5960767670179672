package signal

import "math"

// Kind identifies a waveform family. The set is closed; Generate dispatches
// over it exhaustively.
type Kind int

const (
	KindSine Kind = iota
	KindCosine
	KindSquare
	KindTriangle
	KindSawtooth
	KindUnitStep
	KindImpulse
	KindExponentialDecay
	KindGaussianPulse
	KindExpression
)

var kindNames = map[Kind]string{
	KindSine:             "sine",
	KindCosine:           "cosine",
	KindSquare:           "square",
	KindTriangle:         "triangle",
	KindSawtooth:         "sawtooth",
	KindUnitStep:         "unit-step",
	KindImpulse:          "impulse",
	KindExponentialDecay: "exponential-decay",
	KindGaussianPulse:    "gaussian-pulse",
	KindExpression:       "expression",
}

// String returns the waveform name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Params holds waveform parameters. Each kind reads only the fields it
// recognizes; DefaultParams supplies the conventional defaults.
type Params struct {
	// Amplitude scales the waveform peak. Used by all kinds.
	Amplitude float64
	// Frequency in Hz. Used by the periodic kinds.
	Frequency float64
	// Phase offset in radians. Used by the periodic kinds.
	Phase float64
	// DCOffset is added to every sample. Used by all kinds.
	DCOffset float64
	// DutyCycle is the high fraction of a square wave period, in (0, 1).
	DutyCycle float64
	// Width is the rising fraction of a triangle period, in (0, 1].
	Width float64
	// DecayRate is the exponential decay constant in 1/s.
	DecayRate float64
	// Center is the Gaussian pulse center time in seconds. NaN (the
	// DefaultParams value) means "middle of the grid"; any finite value,
	// including 0, is honored as given.
	Center float64
	// PulseWidth is the Gaussian pulse standard deviation in seconds.
	PulseWidth float64
	// StepTime shifts the unit step: u(t - StepTime).
	StepTime float64
	// ImpulseTime places the unit sample at the nearest grid instant.
	ImpulseTime float64
	// Expression is the closed-form source for KindExpression.
	Expression string
}

// DefaultParams returns the conventional waveform defaults: unit amplitude,
// 1 Hz, 50% duty, symmetric triangle, decay rate 1/s, 0.1 s Gaussian width,
// grid-centered pulse.
func DefaultParams() Params {
	return Params{
		Amplitude:  1,
		Frequency:  1,
		DutyCycle:  0.5,
		Width:      0.5,
		DecayRate:  1,
		Center:     math.NaN(),
		PulseWidth: 0.1,
	}
}

// WithCenter sets an explicit Gaussian pulse center.
func (p Params) WithCenter(center float64) Params {
	p.Center = center
	return p
}
