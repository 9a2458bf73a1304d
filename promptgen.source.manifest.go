package promptgen

import (
	"context"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Manifest lists template declarations outside of Go source.
//
//	namespace: capitol
//	templates:
//	  - name: Capitol
//	    text: "What is the capital of {{$state}}?"
//	    behavior: HistoryCustomizable
//	    max_tokens: 1000
//	    temperature: 0.7
type Manifest struct {
	Namespace string             `yaml:"namespace"`
	Templates []ManifestTemplate `yaml:"templates"`
}

// ManifestTemplate is one manifest entry. Omitted numeric fields keep the
// declaration defaults.
type ManifestTemplate struct {
	Name        string   `yaml:"name"`
	Text        string   `yaml:"text"`
	Behavior    string   `yaml:"behavior,omitempty"`
	MaxTokens   *int     `yaml:"max_tokens,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty"`
	TopP        *float64 `yaml:"top_p,omitempty"`
}

// ParseManifest decodes a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Candidates converts the manifest entries into candidates. Every entry is
// a marked textual constant; the extractor still applies its own rules.
func (m *Manifest) Candidates(path string) []Candidate {
	out := make([]Candidate, 0, len(m.Templates))
	for i, t := range m.Templates {
		out = append(out, Candidate{
			Name:      t.Name,
			Text:      t.Text,
			IsConst:   true,
			IsText:    true,
			Namespace: m.Namespace,
			Position:  Position{File: path, Line: i + 1},
			Marker: &Marker{
				Name:     MarkerName,
				Behavior: t.Behavior,
				Args:     t.args(),
			},
		})
	}
	return out
}

// args renders the numeric fields as positional marker arguments, leaving
// blanks for omitted fields that precede a present one.
func (t ManifestTemplate) args() []string {
	args := []string{"", "", ""}
	last := -1
	if t.MaxTokens != nil {
		args[ArgIndexMaxTokens] = strconv.Itoa(*t.MaxTokens)
		last = ArgIndexMaxTokens
	}
	if t.Temperature != nil {
		args[ArgIndexTemperature] = strconv.FormatFloat(*t.Temperature, 'g', -1, 64)
		last = ArgIndexTemperature
	}
	if t.TopP != nil {
		args[ArgIndexTopP] = strconv.FormatFloat(*t.TopP, 'g', -1, 64)
		last = ArgIndexTopP
	}
	return args[:last+1]
}

// ManifestSource is a DeclarationSource backed by a YAML manifest file.
type ManifestSource struct {
	path string
}

// NewManifestSource creates a source reading the manifest at path.
func NewManifestSource(path string) *ManifestSource {
	return &ManifestSource{path: path}
}

// Discover reads and decodes the manifest.
func (s *ManifestSource) Discover(ctx context.Context) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, NewSourceError(ErrMsgSourceReadFailed, s.path, err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, NewSourceError(ErrMsgManifestInvalid, s.path, err)
	}
	return m.Candidates(s.path), nil
}
