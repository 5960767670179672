package system

import "math/cmplx"

// Stability is the tri-state outcome of pole-based stability evaluation.
// MarginallyStable is reported when a pole sits on the stability boundary
// within the configured tolerance; it is never rounded into Stable or
// Unstable.
type Stability int

const (
	Stable Stability = iota
	MarginallyStable
	Unstable
)

// String returns the stability verdict name.
func (s Stability) String() string {
	switch s {
	case Stable:
		return "stable"
	case MarginallyStable:
		return "marginally stable"
	case Unstable:
		return "unstable"
	}
	return "unknown"
}

// Stability classifies the transfer function from its pole locations:
// discrete systems require all poles strictly inside the unit circle,
// continuous ones strictly in the left half plane. The returned poles are
// the classified set.
func (a *Analyzer) Stability(tf TransferFunction) (Stability, []complex128, error) {
	poles, err := tf.Poles()
	if err != nil {
		return Unstable, nil, err
	}

	tol := a.cfg.StabilityTolerance
	verdict := Stable
	for _, p := range poles {
		var excess float64
		if tf.Domain == DomainDiscrete {
			excess = cmplx.Abs(p) - 1
		} else {
			excess = real(p)
		}

		switch {
		case excess > tol:
			return Unstable, poles, nil
		case excess >= -tol:
			verdict = MarginallyStable
		}
	}
	return verdict, poles, nil
}
