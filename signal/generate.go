// Package signal generates sampled waveforms over uniform time grids.
//
// All generators are pure functions of their inputs: the output signal has
// exactly one sample per grid instant and no state is shared between calls.
package signal

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-lti/core"
	"github.com/cwbudde/algo-lti/internal/expr"
)

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.Config
	grid core.TimeGrid
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.Option) (*Generator, error) {
	cfg := core.ApplyOptions(opts...)
	grid, err := core.GridFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, grid: grid}, nil
}

// Config returns the generator configuration.
func (g *Generator) Config() core.Config {
	return g.cfg
}

// Grid returns the generator's default time grid.
func (g *Generator) Grid() core.TimeGrid {
	return g.grid
}

// Generate produces a waveform of the given kind over the generator's grid.
func (g *Generator) Generate(kind Kind, p Params) (core.Signal, error) {
	return g.GenerateOn(g.grid, kind, p)
}

// GenerateOn produces a waveform of the given kind over an explicit grid.
//
//nolint:cyclop
func (g *Generator) GenerateOn(grid core.TimeGrid, kind Kind, p Params) (core.Signal, error) {
	if err := validateParams(kind, p); err != nil {
		return core.Signal{}, err
	}

	out := core.NewSignal(grid)

	switch kind {
	case KindSine:
		fillPeriodic(out, p, func(theta float64) float64 { return math.Sin(theta) })
	case KindCosine:
		fillPeriodic(out, p, func(theta float64) float64 { return math.Cos(theta) })
	case KindSquare:
		duty := p.DutyCycle
		fillPhaseFraction(out, p, func(frac float64) float64 {
			if frac < duty {
				return 1
			}
			return -1
		})
	case KindTriangle:
		fillPhaseFraction(out, p, rampShape(p.Width))
	case KindSawtooth:
		fillPhaseFraction(out, p, rampShape(1))
	case KindUnitStep:
		// Heaviside with u(0) = 1: the sample at t == StepTime is high.
		for i := range out.Samples {
			if grid.At(i) >= p.StepTime {
				out.Samples[i] = p.Amplitude
			}
			out.Samples[i] += p.DCOffset
		}
	case KindImpulse:
		// Discrete approximation of the Dirac delta: a single unit sample
		// at the grid instant nearest ImpulseTime. The pulse area is
		// Amplitude/SampleRate, not Amplitude, on purpose.
		for i := range out.Samples {
			out.Samples[i] = p.DCOffset
		}
		out.Samples[grid.NearestIndex(p.ImpulseTime)] += p.Amplitude
	case KindExponentialDecay:
		for i := range out.Samples {
			out.Samples[i] = p.Amplitude*math.Exp(-p.DecayRate*grid.At(i)) + p.DCOffset
		}
	case KindGaussianPulse:
		center := p.Center
		if math.IsNaN(center) {
			center = grid.StartOffset + grid.Duration/2
		}
		for i := range out.Samples {
			d := (grid.At(i) - center) / p.PulseWidth
			out.Samples[i] = p.Amplitude*math.Exp(-0.5*d*d) + p.DCOffset
		}
	case KindExpression:
		if err := g.fillExpression(out, p); err != nil {
			return core.Signal{}, err
		}
	default:
		return core.Signal{}, fmt.Errorf("%w: unknown signal kind: %d", core.ErrInvalidParameter, kind)
	}

	return out, nil
}

func fillPeriodic(sig core.Signal, p Params, shape func(theta float64) float64) {
	omega := 2 * math.Pi * p.Frequency
	for i := range sig.Samples {
		sig.Samples[i] = p.Amplitude*shape(omega*sig.Grid.At(i)+p.Phase) + p.DCOffset
	}
}

// fillPhaseFraction evaluates shape on the wrapped phase fraction in [0, 1).
func fillPhaseFraction(sig core.Signal, p Params, shape func(frac float64) float64) {
	for i := range sig.Samples {
		cycles := p.Frequency*sig.Grid.At(i) + p.Phase/(2*math.Pi)
		frac := math.Mod(cycles, 1)
		if frac < 0 {
			frac++
		}
		sig.Samples[i] = p.Amplitude*shape(frac) + p.DCOffset
	}
}

// rampShape returns a periodic ramp rising from -1 to 1 over the first
// width fraction of the period and falling back over the remainder.
// width 1 is a pure sawtooth, width 0.5 a symmetric triangle.
func rampShape(width float64) func(frac float64) float64 {
	return func(frac float64) float64 {
		if frac < width {
			return 2*frac/width - 1
		}
		return 1 - 2*(frac-width)/(1-width)
	}
}

func (g *Generator) fillExpression(sig core.Signal, p Params) error {
	compiled, err := expr.Parse(p.Expression, g.cfg.MaxExpressionNodes)
	if err != nil {
		return err
	}
	for i := range sig.Samples {
		t := sig.Grid.At(i)
		v, err := compiled.Eval(t)
		if err != nil {
			return fmt.Errorf("expression at t=%g: %w", t, err)
		}
		sig.Samples[i] = p.Amplitude*v + p.DCOffset
	}
	return nil
}

//nolint:cyclop
func validateParams(kind Kind, p Params) error {
	if math.IsNaN(p.Amplitude) || math.IsInf(p.Amplitude, 0) {
		return fmt.Errorf("%w: %s amplitude must be finite: %f", core.ErrInvalidParameter, kind, p.Amplitude)
	}
	if math.IsNaN(p.DCOffset) || math.IsInf(p.DCOffset, 0) {
		return fmt.Errorf("%w: %s dc offset must be finite: %f", core.ErrInvalidParameter, kind, p.DCOffset)
	}

	switch kind {
	case KindSine, KindCosine, KindSquare, KindTriangle, KindSawtooth:
		if p.Frequency < 0 || math.IsNaN(p.Frequency) || math.IsInf(p.Frequency, 0) {
			return fmt.Errorf("%w: %s frequency must be >= 0: %f", core.ErrInvalidParameter, kind, p.Frequency)
		}
	case KindExponentialDecay:
		if p.DecayRate < 0 || math.IsNaN(p.DecayRate) || math.IsInf(p.DecayRate, 0) {
			return fmt.Errorf("%w: decay rate must be >= 0: %f", core.ErrInvalidParameter, p.DecayRate)
		}
	case KindGaussianPulse:
		if p.PulseWidth <= 0 || math.IsNaN(p.PulseWidth) || math.IsInf(p.PulseWidth, 0) {
			return fmt.Errorf("%w: gaussian pulse width must be > 0: %f", core.ErrInvalidParameter, p.PulseWidth)
		}
		// NaN is the grid-centered default; infinities are rejected.
		if math.IsInf(p.Center, 0) {
			return fmt.Errorf("%w: gaussian pulse center must be finite: %f", core.ErrInvalidParameter, p.Center)
		}
	case KindExpression:
		if p.Expression == "" {
			return fmt.Errorf("%w: expression must not be empty", core.ErrInvalidParameter)
		}
	}

	if kind == KindSquare && (p.DutyCycle <= 0 || p.DutyCycle >= 1) {
		return fmt.Errorf("%w: square duty cycle must be in (0, 1): %f", core.ErrInvalidParameter, p.DutyCycle)
	}
	if kind == KindTriangle && (p.Width <= 0 || p.Width > 1) {
		return fmt.Errorf("%w: triangle width must be in (0, 1]: %f", core.ErrInvalidParameter, p.Width)
	}
	return nil
}
