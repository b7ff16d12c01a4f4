package core

// EngineConfig defines common synthesis settings shared across the module.
type EngineConfig struct {
	SampleRate float64
	BlockSize  int
}

// EngineOption mutates an EngineConfig.
type EngineOption func(*EngineConfig)

// DefaultEngineConfig returns sensible defaults for real-time rendering.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		SampleRate: 44100,
		BlockSize:  128,
	}
}

// WithSampleRate sets the rendering sample rate.
func WithSampleRate(sampleRate float64) EngineOption {
	return func(cfg *EngineConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the render block size.
func WithBlockSize(blockSize int) EngineOption {
	return func(cfg *EngineConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// ApplyEngineOptions applies zero or more options to the default config.
func ApplyEngineOptions(opts ...EngineOption) EngineConfig {
	cfg := DefaultEngineConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
