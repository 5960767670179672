package system

// Family identifies a filter family. The set is closed; Analyzer.Build
// dispatches over it exhaustively.
type Family int

const (
	FamilyLowpass Family = iota
	FamilyHighpass
	FamilyBandpass
	FamilyMovingAverage
	FamilyDifferentiator
	FamilyIntegrator
	FamilyCustom
)

var familyNames = map[Family]string{
	FamilyLowpass:        "lowpass",
	FamilyHighpass:       "highpass",
	FamilyBandpass:       "bandpass",
	FamilyMovingAverage:  "moving-average",
	FamilyDifferentiator: "differentiator",
	FamilyIntegrator:     "integrator",
	FamilyCustom:         "custom",
}

// String returns the family name.
func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}
	return "unknown"
}

// FamilySpec is the tagged-variant interface over filter families: each
// family carries its own parameter struct and reports its tag.
type FamilySpec interface {
	Family() Family
}

// LowpassParams parameterizes a Butterworth lowpass design.
type LowpassParams struct {
	// Cutoff is the -3 dB frequency in Hz, strictly inside (0, Nyquist).
	Cutoff float64
	// Order is the filter order, >= 1.
	Order int
}

// Family returns FamilyLowpass.
func (LowpassParams) Family() Family { return FamilyLowpass }

// HighpassParams parameterizes a Butterworth highpass design.
type HighpassParams struct {
	Cutoff float64
	Order  int
}

// Family returns FamilyHighpass.
func (HighpassParams) Family() Family { return FamilyHighpass }

// BandpassParams parameterizes a Butterworth bandpass design.
type BandpassParams struct {
	// LowCut and HighCut bound the passband in Hz, 0 < LowCut < HighCut <
	// Nyquist.
	LowCut  float64
	HighCut float64
	// Order is applied to each band edge.
	Order int
}

// Family returns FamilyBandpass.
func (BandpassParams) Family() Family { return FamilyBandpass }

// MovingAverageParams parameterizes an N-tap moving average.
type MovingAverageParams struct {
	// Window is the tap count, >= 1.
	Window int
}

// Family returns FamilyMovingAverage.
func (MovingAverageParams) Family() Family { return FamilyMovingAverage }

// DifferentiatorParams parameterizes the leaky discrete differentiator
// H(z) = (1 - z^-1) / (1 - Alpha*z^-1).
type DifferentiatorParams struct {
	// Alpha is the feedback leak in [0, 0.999]. The conventional default
	// is DefaultDifferentiatorAlpha.
	Alpha float64
}

// Family returns FamilyDifferentiator.
func (DifferentiatorParams) Family() Family { return FamilyDifferentiator }

// IntegratorParams parameterizes the leaky discrete accumulator
// H(z) = 1 / (1 - Beta*z^-1).
type IntegratorParams struct {
	// Beta is the accumulator leak in [0, 0.9999]. The conventional
	// default is DefaultIntegratorBeta.
	Beta float64
}

// Family returns FamilyIntegrator.
func (IntegratorParams) Family() Family { return FamilyIntegrator }

// CustomParams carries explicit numerator/denominator coefficients in
// descending-power convention.
type CustomParams struct {
	Num    []float64
	Den    []float64
	Domain Domain
}

// Family returns FamilyCustom.
func (CustomParams) Family() Family { return FamilyCustom }

// Conventional defaults for the approximated ideal operators.
const (
	DefaultDifferentiatorAlpha = 0.95
	DefaultIntegratorBeta      = 0.99
)
