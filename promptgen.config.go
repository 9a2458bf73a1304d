package promptgen

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config file looked up by the CLI.
const DefaultConfigFile = "promptgen.yaml"

// Config is the generator configuration file.
//
//	sources:
//	  - ./internal/prompts
//	manifests:
//	  - ./prompts.yaml
//	output:
//	  driver: filesystem
//	  dsn: ./internal/prompts
//	concurrency: 4
//	namespace: prompts
type Config struct {
	Sources     []string     `yaml:"sources"`
	Manifests   []string     `yaml:"manifests"`
	Output      OutputConfig `yaml:"output"`
	Concurrency int          `yaml:"concurrency"`
	Namespace   string       `yaml:"namespace"`
}

// OutputConfig selects the artifact store.
type OutputConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// LoadConfig reads a YAML config file. Relative source, manifest and
// filesystem output paths are resolved against the file's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigError(ErrMsgConfigReadFailed, path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, NewConfigError(ErrMsgConfigParseFailed, path, err)
	}

	base := filepath.Dir(path)
	for i, s := range cfg.Sources {
		cfg.Sources[i] = resolvePath(base, s)
	}
	for i, m := range cfg.Manifests {
		cfg.Manifests[i] = resolvePath(base, m)
	}
	if cfg.Output.Driver == StoreDriverNameFilesystem {
		cfg.Output.DSN = resolvePath(base, cfg.Output.DSN)
	}
	return cfg, nil
}

// ParseConfig decodes YAML config and applies defaults.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Concurrency < 0 {
		return nil, NewValidationError(ErrMsgConcurrencyInvalid)
	}
	if cfg.Output.Driver == "" {
		cfg.Output.Driver = StoreDriverNameFilesystem
	}
	return &cfg, nil
}

// Validate checks that the config names something to generate from.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 && len(c.Manifests) == 0 {
		return NewValidationError(ErrMsgConfigNoSources)
	}
	return nil
}

// Source builds the declaration source described by the config: Go sources
// first, then manifests, in listed order.
func (c *Config) Source(logger *zap.Logger) DeclarationSource {
	var multi MultiSource
	if len(c.Sources) > 0 {
		multi = append(multi, NewGoSource(c.Sources, WithLogger(logger)))
	}
	for _, m := range c.Manifests {
		multi = append(multi, NewManifestSource(m))
	}
	return multi
}

// Options returns the generator options described by the config.
func (c *Config) Options(logger *zap.Logger) []Option {
	return []Option{
		WithLogger(logger),
		WithConcurrency(c.Concurrency),
		WithFallbackNamespace(c.Namespace),
	}
}

// OpenStore opens the configured artifact store.
func (c *Config) OpenStore() (ArtifactStore, error) {
	return OpenStore(c.Output.Driver, c.Output.DSN)
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
