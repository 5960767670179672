package core

// Config defines common analysis settings shared by the signal generator,
// system analyzer and spectrum engine. It is always passed by value; the
// engines never share mutable state.
type Config struct {
	// SampleRate is the sampling frequency in Hz.
	SampleRate float64
	// Duration is the analysis window length in seconds.
	Duration float64
	// StartOffset is the time of the first sample in seconds.
	StartOffset float64
	// ImpulseHorizon caps impulse/step response length in samples.
	ImpulseHorizon int
	// DecayTolerance is the relative envelope threshold (fraction of the
	// response peak) below which an impulse-response tail is truncated.
	DecayTolerance float64
	// StabilityTolerance is the numeric band around the stability boundary
	// within which a pole is classified as marginally stable.
	StabilityTolerance float64
	// OverflowLimit is the largest sample magnitude a response computation
	// may produce before it aborts with ErrNumericOverflow.
	OverflowLimit float64
	// MaxExpressionNodes caps the AST size of custom expressions.
	MaxExpressionNodes int
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the default analysis settings.
func DefaultConfig() Config {
	return Config{
		SampleRate:         1000,
		Duration:           2.0,
		StartOffset:        0,
		ImpulseHorizon:     4096,
		DecayTolerance:     1e-6,
		StabilityTolerance: 1e-9,
		OverflowLimit:      1e12,
		MaxExpressionNodes: 4096,
	}
}

// WithSampleRate sets the sampling frequency.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithDuration sets the analysis window length in seconds.
func WithDuration(duration float64) Option {
	return func(cfg *Config) {
		if duration > 0 {
			cfg.Duration = duration
		}
	}
}

// WithStartOffset sets the time of the first sample.
func WithStartOffset(offset float64) Option {
	return func(cfg *Config) {
		cfg.StartOffset = offset
	}
}

// WithImpulseHorizon caps impulse/step response length in samples.
func WithImpulseHorizon(samples int) Option {
	return func(cfg *Config) {
		if samples > 0 {
			cfg.ImpulseHorizon = samples
		}
	}
}

// WithDecayTolerance sets the relative impulse-response truncation threshold.
func WithDecayTolerance(tol float64) Option {
	return func(cfg *Config) {
		if tol > 0 {
			cfg.DecayTolerance = tol
		}
	}
}

// WithDecayToleranceDB sets the truncation threshold as a level in dB
// below the response peak, e.g. -120 for a 120 dB floor.
func WithDecayToleranceDB(db float64) Option {
	return func(cfg *Config) {
		if db < 0 {
			cfg.DecayTolerance = DBToLinear(db)
		}
	}
}

// WithStabilityTolerance sets the marginal-stability classification band.
func WithStabilityTolerance(tol float64) Option {
	return func(cfg *Config) {
		if tol > 0 {
			cfg.StabilityTolerance = tol
		}
	}
}

// WithOverflowLimit sets the response overflow abort threshold.
func WithOverflowLimit(limit float64) Option {
	return func(cfg *Config) {
		if limit > 0 {
			cfg.OverflowLimit = limit
		}
	}
}

// WithMaxExpressionNodes caps the AST size of custom expressions.
func WithMaxExpressionNodes(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.MaxExpressionNodes = n
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
