package promptgen

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the extractor and the Generator.
type Option func(*generatorConfig)

// generatorConfig holds the internal configuration for generation.
type generatorConfig struct {
	logger            *zap.Logger
	concurrency       int
	fallbackNamespace string
	backend           Backend
}

// defaultGeneratorConfig returns the default generation configuration.
func defaultGeneratorConfig() *generatorConfig {
	return &generatorConfig{
		logger:            zap.NewNop(),
		concurrency:       DefaultConcurrency,
		fallbackNamespace: DefaultNamespace,
		backend:           NewGoBackend(),
	}
}

func applyOptions(opts []Option) *generatorConfig {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithLogger sets the logger.
// Default: zap.NewNop()
func WithLogger(logger *zap.Logger) Option {
	return func(c *generatorConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithConcurrency bounds the number of declarations processed at once.
// Values below one are ignored.
// Default: 8
func WithConcurrency(n int) Option {
	return func(c *generatorConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithFallbackNamespace sets the namespace used for candidates whose host
// offers none.
// Default: "prompts"
func WithFallbackNamespace(namespace string) Option {
	return func(c *generatorConfig) {
		if namespace != "" {
			c.fallbackNamespace = namespace
		}
	}
}

// WithBackend sets the back end that serializes artifact definitions.
// Default: the Go back end
func WithBackend(backend Backend) Option {
	return func(c *generatorConfig) {
		if backend != nil {
			c.backend = backend
		}
	}
}
