// Package polyroot provides polynomial root finding for rational transfer
// function analysis.
package polyroot

import (
	"errors"
	"math"
	"math/cmplx"
	"sort"
)

// ErrDegeneratePolynomial is returned when a polynomial has degenerate
// coefficients (all zero, non-finite, or the solver fails to converge).
var ErrDegeneratePolynomial = errors.New("polyroot: degenerate polynomial")

// Roots finds all complex roots of a real-coefficient polynomial given in
// descending power order: c[0]*x^n + c[1]*x^(n-1) + ... + c[n].
//
// Leading zero coefficients are trimmed first. A constant polynomial has no
// roots and yields an empty slice. Repeated roots are reported as
// near-duplicate values; conjugate symmetry of real-coefficient inputs holds
// up to the solver tolerance. The result is sorted by real part, then
// imaginary part, so identical inputs always produce identical output.
func Roots(coeffs []float64) ([]complex128, error) {
	start := 0
	for start < len(coeffs) && coeffs[start] == 0 {
		start++
	}
	trimmed := coeffs[start:]

	if len(trimmed) == 0 {
		return nil, ErrDegeneratePolynomial
	}
	for _, c := range trimmed {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, ErrDegeneratePolynomial
		}
	}
	if len(trimmed) == 1 {
		return []complex128{}, nil
	}

	cc := make([]complex128, len(trimmed))
	for i, c := range trimmed {
		cc[i] = complex(c, 0)
	}

	roots, err := durandKerner(cc)
	if err != nil {
		return nil, err
	}

	sort.Slice(roots, func(i, j int) bool {
		if real(roots[i]) != real(roots[j]) {
			return real(roots[i]) < real(roots[j])
		}
		return imag(roots[i]) < imag(roots[j])
	})
	return roots, nil
}

// durandKerner finds all roots of a polynomial using the Durand-Kerner
// (Weierstrass) simultaneous iteration method. Coefficients are in
// descending power order with a nonzero leading coefficient. The initial
// iterates are a fixed ring of points, so the method is fully deterministic.
func durandKerner(coeff []complex128) ([]complex128, error) {
	lead := coeff[0]
	if lead == 0 {
		return nil, ErrDegeneratePolynomial
	}

	n := len(coeff) - 1

	norm := make([]complex128, len(coeff))
	for i := range coeff {
		norm[i] = coeff[i] / lead
	}

	// Cauchy-style bound on root magnitude for the starting ring.
	radius := 0.0
	for i := 1; i <= n; i++ {
		if r := cmplx.Abs(norm[i]); r > radius {
			radius = r
		}
	}
	if radius < 1 {
		radius = 1
	}

	roots := make([]complex128, n)
	for i := range n {
		angle := 2*math.Pi*float64(i)/float64(n) + 0.3
		r := radius * (1 + 0.1*float64(i)/float64(n))
		roots[i] = complex(r*math.Cos(angle), r*math.Sin(angle))
	}

	const (
		maxIter = 500
		tol     = 1e-12
	)

	for range maxIter {
		maxDelta := 0.0

		for i := range n {
			den := complex(1, 0)
			for j := range n {
				if i == j {
					continue
				}
				den *= roots[i] - roots[j]
			}

			if cmplx.Abs(den) == 0 {
				// Collided iterates; nudge apart and retry next sweep.
				roots[i] += complex(1e-10, 1e-10)
				continue
			}

			delta := Eval(norm, roots[i]) / den
			roots[i] -= delta
			if d := cmplx.Abs(delta); d > maxDelta {
				maxDelta = d
			}
		}

		if maxDelta < tol {
			return roots, nil
		}
	}

	maxResidual := 0.0
	for _, r := range roots {
		if res := cmplx.Abs(Eval(norm, r)); res > maxResidual {
			maxResidual = res
		}
	}
	if maxResidual < 1e-6 {
		return roots, nil
	}

	return nil, ErrDegeneratePolynomial
}

// Eval evaluates a polynomial at x using Horner's method. Coefficients are
// in descending power order: coeff[0]*x^n + ... + coeff[n].
func Eval(coeff []complex128, x complex128) complex128 {
	if len(coeff) == 0 {
		return 0
	}
	v := coeff[0]
	for i := 1; i < len(coeff); i++ {
		v = v*x + coeff[i]
	}
	return v
}
