package promptgen

import (
	"strconv"

	"github.com/itsatony/go-promptgen/internal"
)

// ParamType is the semantic type tag of a template parameter. Built-in tags
// are the ParamType* constants; any other value names an enumeration or user
// type and is used verbatim by back ends.
type ParamType string

// Built-in parameter types
const (
	ParamTypeText  ParamType = internal.TypeTagText
	ParamTypeInt   ParamType = internal.TypeTagInt
	ParamTypeInt64 ParamType = internal.TypeTagInt64
	ParamTypeFloat ParamType = internal.TypeTagFloat
	ParamTypeBool  ParamType = internal.TypeTagBool
)

// IsBuiltin reports whether t is one of the built-in type tags.
func (t ParamType) IsBuiltin() bool {
	switch t {
	case ParamTypeText, ParamTypeInt, ParamTypeInt64, ParamTypeFloat, ParamTypeBool:
		return true
	default:
		return false
	}
}

// Parameter is a named, typed input slot of a template.
type Parameter struct {
	Name string    `json:"name" yaml:"name"`
	Type ParamType `json:"type" yaml:"type"`
}

// Settings are the execution settings passed to a chat completion service.
type Settings struct {
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
	TopP        float64 `json:"top_p" yaml:"top_p"`
}

// DefaultSettings returns the settings applied when a marker omits its arguments.
func DefaultSettings() Settings {
	return Settings{
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
	}
}

// Position locates a candidate in its host source.
type Position struct {
	File string `json:"file,omitempty" yaml:"file,omitempty"`
	Line int    `json:"line,omitempty" yaml:"line,omitempty"`
}

// String returns "file:line", or the empty string for an unknown position.
func (p Position) String() string {
	if p.File == "" {
		return ""
	}
	if p.Line <= 0 {
		return p.File
	}
	return p.File + ":" + strconv.Itoa(p.Line)
}

// Marker is the template marker attached to a candidate declaration.
// Args holds the raw positional arguments (maxTokens, temperature, topP).
type Marker struct {
	Name     string   `json:"name" yaml:"name"`
	Behavior string   `json:"behavior,omitempty" yaml:"behavior,omitempty"`
	Args     []string `json:"args,omitempty" yaml:"args,omitempty"`
}

// Candidate is a host-agnostic view of a named constant or variable offered
// by a DeclarationSource. The extractor decides whether it qualifies.
type Candidate struct {
	Name      string   `json:"name"`
	Text      string   `json:"text"`
	IsConst   bool     `json:"is_const"`
	IsText    bool     `json:"is_text"`
	Marker    *Marker  `json:"marker,omitempty"`
	Namespace string   `json:"namespace,omitempty"`
	Position  Position `json:"position"`
}

// Declaration is an annotated template declaration found in host source.
type Declaration struct {
	Namespace    string
	Name         string
	RawText      string
	BaseBehavior string
	MaxTokens    int
	Temperature  float64
	TopP         float64
	Source       Position
}

// Settings returns the execution settings carried by the declaration.
func (d Declaration) Settings() Settings {
	return Settings{
		MaxTokens:   d.MaxTokens,
		Temperature: d.Temperature,
		TopP:        d.TopP,
	}
}

// CompiledTemplate is a declaration with its parameters resolved and its
// text normalized.
type CompiledTemplate struct {
	Declaration    Declaration
	Parameters     []Parameter
	NormalizedText string
}

// BehaviorKind classifies the behavior an artifact inherits.
type BehaviorKind int

const (
	BehaviorKindStandard BehaviorKind = iota
	BehaviorKindHistoryCustomizable
	BehaviorKindCustom
)

// String returns the human-readable name of the kind.
func (k BehaviorKind) String() string {
	switch k {
	case BehaviorKindStandard:
		return BehaviorStandard
	case BehaviorKindHistoryCustomizable:
		return BehaviorHistoryCustomizable
	default:
		return BehaviorKindNameCustom
	}
}

// MarshalText encodes the kind by name.
func (k BehaviorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// KindOfBehavior classifies a behavior identifier taken from a marker.
func KindOfBehavior(behavior string) BehaviorKind {
	switch behavior {
	case "", BehaviorStandard:
		return BehaviorKindStandard
	case BehaviorHistoryCustomizable:
		return BehaviorKindHistoryCustomizable
	default:
		return BehaviorKindCustom
	}
}

// GeneratedFile is an artifact serialized by a back end.
type GeneratedFile struct {
	Namespace   string
	TypeName    string
	FileName    string
	Source      []byte
	Fingerprint string
}
