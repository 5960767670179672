package session

import (
	"errors"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-lti/core"
	"github.com/cwbudde/algo-lti/signal"
	"github.com/cwbudde/algo-lti/system"
)

func newSession(t *testing.T, opts ...core.Option) *Session {
	t.Helper()
	s, err := New(opts...)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return s
}

func TestAnalyzeSignalOnly(t *testing.T) {
	s := newSession(t, core.WithSampleRate(500), core.WithDuration(0.5))

	params := signal.DefaultParams()
	params.Frequency = 25
	res, err := s.Analyze(Request{Signal: SignalRequest{Kind: signal.KindSine, Params: params}})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if res.Input.Len() != 250 {
		t.Fatalf("input length %d, want 250", res.Input.Len())
	}
	if len(res.InputSpectrum.Magnitude) == 0 {
		t.Fatalf("input spectrum missing")
	}
	if res.System != nil {
		t.Fatalf("system result present without a system request")
	}
}

func TestAnalyzeFullPipeline(t *testing.T) {
	s := newSession(t, core.WithSampleRate(1000), core.WithDuration(0.512))

	params := signal.DefaultParams()
	params.Frequency = 10
	res, err := s.Analyze(Request{
		Signal: SignalRequest{Kind: signal.KindSine, Params: params},
		System: &SystemRequest{Spec: system.LowpassParams{Cutoff: 100, Order: 4}},
	})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	sys := res.System
	if sys == nil {
		t.Fatalf("system result missing")
	}
	if sys.Stability != system.Stable {
		t.Fatalf("stability %s, want stable", sys.Stability)
	}
	if len(sys.Poles) != 4 {
		t.Fatalf("pole count %d, want 4", len(sys.Poles))
	}
	if sys.Impulse.Len() == 0 || sys.Step.Len() == 0 {
		t.Fatalf("time responses missing")
	}
	if len(sys.Frequency.Magnitude) == 0 {
		t.Fatalf("frequency response missing")
	}
	if sys.Output.Len() != res.Input.Len() {
		t.Fatalf("output length %d, want input length %d", sys.Output.Len(), res.Input.Len())
	}
	if len(sys.OutputSpectrum.Magnitude) != len(res.InputSpectrum.Magnitude) {
		t.Fatalf("output spectrum bins %d, want %d",
			len(sys.OutputSpectrum.Magnitude), len(res.InputSpectrum.Magnitude))
	}
}

func TestAnalyzeContinuousSystem(t *testing.T) {
	s := newSession(t, core.WithDuration(0.256))

	res, err := s.Analyze(Request{
		Signal: SignalRequest{Kind: signal.KindSine, Params: signal.DefaultParams()},
		System: &SystemRequest{Spec: system.CustomParams{
			Num:    []float64{1},
			Den:    []float64{1, 1},
			Domain: system.DomainContinuous,
		}},
	})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	sys := res.System
	if sys.Stability != system.Stable {
		t.Fatalf("stability %s, want stable", sys.Stability)
	}
	// No sampled time response for a continuous system.
	if sys.Impulse.Len() != 0 || sys.Step.Len() != 0 || sys.Output.Len() != 0 {
		t.Fatalf("continuous system produced time-domain artifacts")
	}
	if len(sys.Frequency.Magnitude) == 0 {
		t.Fatalf("frequency response missing")
	}
}

func TestAnalyzePoleZeroValues(t *testing.T) {
	s := newSession(t, core.WithSampleRate(500), core.WithDuration(0.5))

	params := signal.DefaultParams()
	params.Frequency = 25
	res, err := s.Analyze(Request{
		Signal: SignalRequest{Kind: signal.KindSine, Params: params},
		System: &SystemRequest{Spec: system.CustomParams{
			Num: []float64{1, -1},
			Den: []float64{1, -0.5},
		}},
	})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	if len(res.System.Zeros) != 1 || cmplx.Abs(res.System.Zeros[0]-1) > 1e-9 {
		t.Fatalf("zeros %v, want [1]", res.System.Zeros)
	}
	if len(res.System.Poles) != 1 || cmplx.Abs(res.System.Poles[0]-0.5) > 1e-9 {
		t.Fatalf("poles %v, want [0.5]", res.System.Poles)
	}
	if res.System.Stability != system.Stable {
		t.Fatalf("stability %s, want stable", res.System.Stability)
	}
}

func TestAnalyzeFailureReturnsNil(t *testing.T) {
	s := newSession(t)

	bad := signal.DefaultParams()
	bad.Frequency = -5
	res, err := s.Analyze(Request{Signal: SignalRequest{Kind: signal.KindSine, Params: bad}})
	if err == nil {
		t.Fatalf("invalid signal request accepted")
	}
	if res != nil {
		t.Fatalf("failed analysis returned a partial result")
	}
	if !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("error %v, want %v", err, core.ErrInvalidParameter)
	}

	res, err = s.Analyze(Request{
		Signal: SignalRequest{Kind: signal.KindSine, Params: signal.DefaultParams()},
		System: &SystemRequest{Spec: system.LowpassParams{Cutoff: -1, Order: 2}},
	})
	if err == nil || res != nil {
		t.Fatalf("invalid system request produced result %v, error %v", res, err)
	}
	if !errors.Is(err, system.ErrInvalidFilterParameter) {
		t.Fatalf("error %v, want %v", err, system.ErrInvalidFilterParameter)
	}
}

func TestAnalyzeNilSystemSpec(t *testing.T) {
	s := newSession(t)
	_, err := s.Analyze(Request{
		Signal: SignalRequest{Kind: signal.KindSine, Params: signal.DefaultParams()},
		System: &SystemRequest{},
	})
	if !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("error %v, want %v", err, core.ErrInvalidParameter)
	}
}

func TestSessionReentrant(t *testing.T) {
	s := newSession(t, core.WithDuration(0.128))
	req := Request{
		Signal: SignalRequest{Kind: signal.KindSquare, Params: signal.DefaultParams()},
		System: &SystemRequest{Spec: system.MovingAverageParams{Window: 4}},
	}
	first, err := s.Analyze(req)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	second, err := s.Analyze(req)
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	for i := range first.Input.Samples {
		if first.Input.Samples[i] != second.Input.Samples[i] {
			t.Fatalf("input sample %d differs between identical runs", i)
		}
	}
	for i := range first.System.Output.Samples {
		if first.System.Output.Samples[i] != second.System.Output.Samples[i] {
			t.Fatalf("output sample %d differs between identical runs", i)
		}
	}
}
