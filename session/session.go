// Package session ties the signal generator, system analyzer and spectrum
// engine into a single analysis round trip. A Session is configured once,
// holds no mutable state between calls, and produces plain numeric results
// for presentation code to render.
package session

import (
	"fmt"

	"github.com/cwbudde/algo-lti/core"
	"github.com/cwbudde/algo-lti/signal"
	"github.com/cwbudde/algo-lti/spectrum"
	"github.com/cwbudde/algo-lti/system"
)

// SignalRequest names the input signal to generate.
type SignalRequest struct {
	Kind   signal.Kind
	Params signal.Params
}

// SystemRequest names the system to analyze. Spec is one of the family
// parameter structs from the system package.
type SystemRequest struct {
	Spec system.FamilySpec
}

// Request describes one analysis run. System is optional; without it the
// run covers the input signal and its spectrum only.
type Request struct {
	Signal SignalRequest
	System *SystemRequest
}

// SystemResult bundles everything computed for the requested system.
type SystemResult struct {
	Transfer  system.TransferFunction
	Stability system.Stability
	Poles     []complex128
	Zeros     []complex128
	// Impulse, Step and Frequency are zero-valued for continuous systems,
	// which have no sampled time response.
	Impulse   core.Signal
	Step      core.Signal
	Frequency system.FrequencyResponse
	// Output is the input signal filtered through the system, with its
	// spectrum. Discrete systems only.
	Output         core.Signal
	OutputSpectrum spectrum.Result
}

// Result is the complete outcome of one Analyze call.
type Result struct {
	Input         core.Signal
	InputSpectrum spectrum.Result
	System        *SystemResult
}

// Session owns the analysis configuration and the three engines built
// from it. Safe for one Analyze call per goroutine.
type Session struct {
	cfg       core.Config
	generator *signal.Generator
	analyzer  *system.Analyzer
	transform *spectrum.Analyzer
}

// New builds a session from the default configuration and any options.
func New(opts ...core.Option) (*Session, error) {
	gen, err := signal.NewGenerator(opts...)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return &Session{
		cfg:       gen.Config(),
		generator: gen,
		analyzer:  system.NewAnalyzer(opts...),
		transform: spectrum.NewAnalyzer(opts...),
	}, nil
}

// Config returns the session configuration.
func (s *Session) Config() core.Config {
	return s.cfg
}

// Analyze runs the full pipeline for one request. Any failure returns a
// nil result, leaving whatever the caller held before untouched.
func (s *Session) Analyze(req Request) (*Result, error) {
	input, err := s.generator.Generate(req.Signal.Kind, req.Signal.Params)
	if err != nil {
		return nil, fmt.Errorf("session: generate input: %w", err)
	}
	inputSpec, err := s.transform.Spectrum(input)
	if err != nil {
		return nil, fmt.Errorf("session: input spectrum: %w", err)
	}

	res := &Result{Input: input, InputSpectrum: inputSpec}
	if req.System == nil {
		return res, nil
	}

	sys, err := s.analyzeSystem(*req.System, input)
	if err != nil {
		return nil, err
	}
	res.System = sys
	return res, nil
}

func (s *Session) analyzeSystem(req SystemRequest, input core.Signal) (*SystemResult, error) {
	if req.Spec == nil {
		return nil, fmt.Errorf("session: %w: system request without a family spec", core.ErrInvalidParameter)
	}
	tf, err := s.analyzer.Build(req.Spec)
	if err != nil {
		return nil, fmt.Errorf("session: build system: %w", err)
	}

	// Stability already extracts the poles; only the zeros remain.
	verdict, poles, err := s.analyzer.Stability(tf)
	if err != nil {
		return nil, fmt.Errorf("session: stability: %w", err)
	}
	zeros, err := tf.Zeros()
	if err != nil {
		return nil, fmt.Errorf("session: zeros: %w", err)
	}

	out := &SystemResult{
		Transfer:  tf,
		Stability: verdict,
		Poles:     poles,
		Zeros:     zeros,
	}
	if tf.Domain == system.DomainContinuous {
		// Continuous systems carry only the frequency-domain view.
		freqs := s.analyzer.FrequencyAxis(input.Len()/2 + 1)
		fr, err := s.analyzer.FrequencyResponse(tf, freqs)
		if err != nil {
			return nil, fmt.Errorf("session: frequency response: %w", err)
		}
		out.Frequency = fr
		return out, nil
	}

	resp, err := s.analyzer.Responses(tf, input.Grid)
	if err != nil {
		return nil, fmt.Errorf("session: responses: %w", err)
	}
	out.Impulse = resp.Impulse
	out.Step = resp.Step
	out.Frequency = resp.Frequency

	filtered, err := s.analyzer.Apply(tf, input)
	if err != nil {
		return nil, fmt.Errorf("session: filter input: %w", err)
	}
	outSpec, err := s.transform.Spectrum(filtered)
	if err != nil {
		return nil, fmt.Errorf("session: output spectrum: %w", err)
	}
	out.Output = filtered
	out.OutputSpectrum = outSpec
	return out, nil
}
