package main

import (
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"
	"strings"

	"github.com/itsatony/go-promptgen"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput || path == "" {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}

// loadData decodes a JSON object from a file or an inline string. No data
// yields an empty map.
func loadData(jsonStr, filePath string) (map[string]any, error) {
	var jsonData []byte

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		jsonData = data
	} else if jsonStr != "" {
		jsonData = []byte(jsonStr)
	} else {
		return make(map[string]any), nil
	}

	var result map[string]any
	if err := json.Unmarshal(jsonData, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// stringValues formats decoded JSON values as text for Bind.
func stringValues(data map[string]any) map[string]string {
	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = promptgen.FormatValue(v)
	}
	return out
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// newLogger returns a development console logger on w when verbose is set
// and a no-op logger otherwise.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

// sourceFlags are the flags shared by commands that read declarations.
type sourceFlags struct {
	configPath string
	manifests  stringList
	namespace  string
	paths      []string
}

func (sf *sourceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&sf.configPath, FlagConfig, "", "")
	fs.StringVar(&sf.configPath, FlagConfigShort, "", "")
	fs.Var(&sf.manifests, FlagManifest, "")
	fs.Var(&sf.manifests, FlagManifestShort, "")
	fs.StringVar(&sf.namespace, FlagNamespace, "", "")
	fs.StringVar(&sf.namespace, FlagNamespaceShort, "", "")
}

// config builds the generator config. An explicit --config wins; without
// paths or manifests promptgen.yaml is used when present, else the working
// directory is scanned. Manifests and namespace flags apply on top.
func (sf *sourceFlags) config() (*promptgen.Config, error) {
	var cfg *promptgen.Config
	switch {
	case sf.configPath != "":
		loaded, err := promptgen.LoadConfig(sf.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case len(sf.paths) == 0 && len(sf.manifests) == 0 && fileExists(promptgen.DefaultConfigFile):
		loaded, err := promptgen.LoadConfig(promptgen.DefaultConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		cfg = &promptgen.Config{
			Sources: sf.paths,
			Output:  promptgen.OutputConfig{Driver: promptgen.StoreDriverNameFilesystem},
		}
		if len(sf.paths) == 0 && len(sf.manifests) == 0 {
			cfg.Sources = []string{"."}
		}
	}

	if sf.configPath != "" {
		cfg.Sources = append(cfg.Sources, sf.paths...)
	}
	cfg.Manifests = append(cfg.Manifests, sf.manifests...)
	if sf.namespace != "" {
		cfg.Namespace = sf.namespace
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// errNoPrompt is returned by findDefinition when name matches nothing.
var errNoPrompt = errors.New(ErrMsgPromptNotFound)

// findDefinition looks a definition up by source name, then by type name.
func findDefinition(defs []promptgen.ArtifactDefinition, name string) (*promptgen.ArtifactDefinition, error) {
	for i := range defs {
		if defs[i].SourceName == name {
			return &defs[i], nil
		}
	}
	for i := range defs {
		if defs[i].TypeName == name {
			return &defs[i], nil
		}
	}
	return nil, errNoPrompt
}
