// Package system builds rational transfer functions for named LTI filter
// families and computes their impulse, step and frequency responses.
package system

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"github.com/cwbudde/algo-lti/internal/polyroot"
)

// Domain selects the transform domain of a transfer function.
type Domain int

const (
	// DomainDiscrete means H(z); coefficients are filter taps in powers of
	// z^-1 (equivalently a descending-power polynomial pair in z).
	DomainDiscrete Domain = iota
	// DomainContinuous means H(s) with descending-power polynomials in s.
	DomainContinuous
)

// String returns the domain name.
func (d Domain) String() string {
	if d == DomainContinuous {
		return "continuous"
	}
	return "discrete"
}

// TransferFunction is a ratio of real-coefficient polynomials, both in
// descending-power convention. Instances are immutable; parameter edits
// produce a fresh value via NewTransferFunction or a Builder call.
//
// Cascade designs additionally carry their second-order sections. The
// multiplied-out polynomials are exact in intent but ill-conditioned for
// high orders with cutoffs near the band edges, so evaluation and root
// extraction prefer the section form whenever it is present.
type TransferFunction struct {
	Num    []float64
	Den    []float64
	Domain Domain

	sections []section
}

// NewTransferFunction validates and returns a transfer function.
//
// The denominator must be non-empty with a nonzero leading coefficient
// (ErrImproperSystem otherwise). Empty or non-finite coefficient sets
// return ErrDegenerateSystem. Leading zeros of the numerator are trimmed;
// the discrete Eval z-power adjustment keeps the tap interpretation
// unchanged. Coefficient slices are copied.
func NewTransferFunction(num, den []float64, domain Domain) (TransferFunction, error) {
	if len(num) == 0 {
		return TransferFunction{}, fmt.Errorf("%w: empty numerator", ErrDegenerateSystem)
	}
	if len(den) == 0 {
		return TransferFunction{}, fmt.Errorf("%w: empty denominator", ErrDegenerateSystem)
	}
	for i, c := range num {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return TransferFunction{}, fmt.Errorf("%w: non-finite numerator coefficient at index %d: %f", ErrDegenerateSystem, i, c)
		}
	}
	for i, c := range den {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return TransferFunction{}, fmt.Errorf("%w: non-finite denominator coefficient at index %d: %f", ErrDegenerateSystem, i, c)
		}
	}
	if den[0] == 0 {
		return TransferFunction{}, fmt.Errorf("%w: leading denominator coefficient is zero", ErrImproperSystem)
	}
	for len(num) > 1 && num[0] == 0 {
		num = num[1:]
	}

	tf := TransferFunction{
		Num:    append([]float64(nil), num...),
		Den:    append([]float64(nil), den...),
		Domain: domain,
	}
	return tf, nil
}

// Order returns the filter order, the larger of the numerator and
// denominator polynomial degrees.
func (tf TransferFunction) Order() int {
	if len(tf.Num) > len(tf.Den) {
		return len(tf.Num) - 1
	}
	return len(tf.Den) - 1
}

// Eval evaluates H at a complex point: z on the z-plane for discrete
// systems, s on the s-plane for continuous ones.
//
// Discrete coefficients are filter taps (b0 + b1*z^-1 + ...); unequal
// numerator/denominator lengths are reconciled by the implied z power, so
// Eval matches the tap convention regardless of relative length. Cascade
// designs evaluate as the product of their stage responses.
func (tf TransferFunction) Eval(x complex128) complex128 {
	if len(tf.sections) > 0 {
		h := complex(1, 0)
		for _, s := range tf.sections {
			h *= s.eval(x)
		}
		return h
	}

	num := realPolyEval(tf.Num, x)
	den := realPolyEval(tf.Den, x)

	if tf.Domain == DomainDiscrete {
		if diff := len(tf.Den) - len(tf.Num); diff != 0 {
			num *= cmplx.Pow(x, complex(float64(diff), 0))
		}
	}
	return num / den
}

// DCGain returns H(1) for discrete systems and H(0) for continuous ones.
func (tf TransferFunction) DCGain() complex128 {
	if tf.Domain == DomainDiscrete {
		return tf.Eval(1)
	}
	return tf.Eval(0)
}

// Zeros extracts the numerator roots. Cascade designs derive them in
// closed form per stage; otherwise the polynomial is rooted numerically.
// Repeated roots appear as near-duplicate values. Root extraction failure
// is reported as ErrDegenerateSystem.
func (tf TransferFunction) Zeros() ([]complex128, error) {
	if len(tf.sections) > 0 {
		zeros := make([]complex128, 0, tf.Order())
		for _, s := range tf.sections {
			zeros = append(zeros, s.zeroSet()...)
		}
		sortRoots(zeros)
		return zeros, nil
	}
	if allZero(tf.Num) {
		// H == 0 everywhere has no zeros to report.
		return []complex128{}, nil
	}
	zeros, err := polyroot.Roots(tf.Num)
	if err != nil {
		return nil, fmt.Errorf("%w: numerator roots: %v", ErrDegenerateSystem, err)
	}
	return zeros, nil
}

// Poles extracts the denominator roots in the same manner as Zeros.
func (tf TransferFunction) Poles() ([]complex128, error) {
	if len(tf.sections) > 0 {
		poles := make([]complex128, 0, tf.Order())
		for _, s := range tf.sections {
			poles = append(poles, s.poleSet()...)
		}
		sortRoots(poles)
		return poles, nil
	}
	poles, err := polyroot.Roots(tf.Den)
	if err != nil {
		return nil, fmt.Errorf("%w: denominator roots: %v", ErrDegenerateSystem, err)
	}
	return poles, nil
}

// PoleZero extracts zeros and poles in one call.
func (tf TransferFunction) PoleZero() (zeros, poles []complex128, err error) {
	zeros, err = tf.Zeros()
	if err != nil {
		return nil, nil, err
	}
	poles, err = tf.Poles()
	if err != nil {
		return nil, nil, err
	}
	return zeros, poles, nil
}

// sortRoots orders roots by real part, then imaginary part, matching the
// polynomial solver so either extraction path reports the same layout.
func sortRoots(roots []complex128) {
	sort.Slice(roots, func(i, j int) bool {
		if real(roots[i]) != real(roots[j]) {
			return real(roots[i]) < real(roots[j])
		}
		return imag(roots[i]) < imag(roots[j])
	})
}

func allZero(coeffs []float64) bool {
	for _, c := range coeffs {
		if c != 0 {
			return false
		}
	}
	return true
}

func realPolyEval(coeffs []float64, x complex128) complex128 {
	cc := make([]complex128, len(coeffs))
	for i, c := range coeffs {
		cc[i] = complex(c, 0)
	}
	return polyroot.Eval(cc, x)
}
