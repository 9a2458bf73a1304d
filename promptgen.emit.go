package promptgen

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/itsatony/go-promptgen/internal"
)

// ArtifactDefinition is the language-neutral description of a generated
// prompt artifact. Back ends serialize it into host source.
type ArtifactDefinition struct {
	Namespace      string       `json:"namespace"`
	TypeName       string       `json:"type_name"`
	SourceName     string       `json:"source_name"`
	Parameters     []Parameter  `json:"parameters"`
	NormalizedText string       `json:"normalized_text"`
	Settings       Settings     `json:"settings"`
	Behavior       string       `json:"behavior"`
	BehaviorKind   BehaviorKind `json:"behavior_kind"`
	Source         Position     `json:"-"`
}

// Emit builds the artifact definition for a compiled template. Emit is pure:
// equal input yields an equal definition. The type name is the exported form
// of the declaration name, so names differing only in case share a type.
func Emit(compiled CompiledTemplate) ArtifactDefinition {
	decl := compiled.Declaration
	params := make([]Parameter, len(compiled.Parameters))
	copy(params, compiled.Parameters)

	behavior := decl.BaseBehavior
	if behavior == "" {
		behavior = BehaviorStandard
	}

	return ArtifactDefinition{
		Namespace:      decl.Namespace,
		TypeName:       internal.ExportedIdent(decl.Name) + ArtifactSuffix,
		SourceName:     decl.Name,
		Parameters:     params,
		NormalizedText: compiled.NormalizedText,
		Settings:       decl.Settings(),
		Behavior:       behavior,
		BehaviorKind:   KindOfBehavior(behavior),
		Source:         decl.Source,
	}
}

// Render applies the artifact's render rule: each parameter marker is
// replaced by the formatted value of the matching argument.
func (d *ArtifactDefinition) Render(args ...Argument) string {
	return Render(d.NormalizedText, args...)
}

// Fingerprint returns a stable hash of everything that affects generated
// output. The source position is excluded so moving a declaration does not
// change its artifact.
func (d *ArtifactDefinition) Fingerprint() string {
	var b strings.Builder
	field := func(s string) {
		b.WriteString(strconv.Quote(s))
		b.WriteByte('\n')
	}
	field(d.Namespace)
	field(d.TypeName)
	field(d.SourceName)
	field(d.NormalizedText)
	field(d.Behavior)
	field(d.BehaviorKind.String())
	field(strconv.Itoa(d.Settings.MaxTokens))
	field(strconv.FormatFloat(d.Settings.Temperature, 'g', -1, 64))
	field(strconv.FormatFloat(d.Settings.TopP, 'g', -1, 64))
	for _, p := range d.Parameters {
		field(p.Name + ":" + string(p.Type))
	}
	return fingerprintBytes([]byte(b.String()))
}

// Parameter returns the named parameter.
func (d *ArtifactDefinition) Parameter(name string) (Parameter, bool) {
	for _, p := range d.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// Bind coerces string values to the parameter types and returns a prompt
// that renders the definition without generated code. Every parameter needs
// a value and unknown names are rejected. Custom behaviors bind as Standard;
// use BindBehavior to supply one.
func (d *ArtifactDefinition) Bind(values map[string]string) (Prompt, error) {
	var behavior Behavior = Standard{}
	if d.BehaviorKind == BehaviorKindHistoryCustomizable {
		behavior = HistoryCustomizable{}
	}
	return d.BindBehavior(values, behavior)
}

// BindBehavior is Bind with an explicit behavior.
func (d *ArtifactDefinition) BindBehavior(values map[string]string, behavior Behavior) (Prompt, error) {
	if behavior == nil {
		behavior = Standard{}
	}
	for name, v := range values {
		if _, ok := d.Parameter(name); !ok {
			return nil, NewArgumentError(ErrMsgUnknownArgument, name, "", v)
		}
	}

	args := make([]Argument, 0, len(d.Parameters))
	for _, p := range d.Parameters {
		raw, ok := values[p.Name]
		if !ok {
			return nil, NewArgumentError(ErrMsgMissingArgument, p.Name, p.Type, "")
		}
		v, err := coerceValue(p.Type, raw)
		if err != nil {
			return nil, NewArgumentError(ErrMsgInvalidArgument, p.Name, p.Type, raw)
		}
		args = append(args, Arg(p.Name, v))
	}

	return &BoundPrompt{
		Behavior: behavior,
		text:     d.Render(args...),
		settings: d.Settings,
		typeName: d.TypeName,
	}, nil
}

// BoundPrompt is a prompt built at run time from an artifact definition.
type BoundPrompt struct {
	Behavior
	text     string
	settings Settings
	typeName string
}

// Text returns the rendered prompt text.
func (p *BoundPrompt) Text() string { return p.text }

// Settings returns the execution settings.
func (p *BoundPrompt) Settings() Settings { return p.settings }

// TypeName returns the name of the artifact the prompt was bound from.
func (p *BoundPrompt) TypeName() string { return p.typeName }

func coerceValue(t ParamType, raw string) (any, error) {
	switch t {
	case ParamTypeInt:
		return strconv.Atoi(raw)
	case ParamTypeInt64:
		return strconv.ParseInt(raw, 10, 64)
	case ParamTypeFloat:
		return strconv.ParseFloat(raw, 64)
	case ParamTypeBool:
		return strconv.ParseBool(raw)
	default:
		return raw, nil
	}
}

func fingerprintBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:FingerprintByteCount])
}
