package promptgen

import (
	"bytes"
	"go/format"
	"go/token"
	"strconv"
	"strings"
	"text/template"

	"github.com/itsatony/go-promptgen/internal"
)

// GoBackendName identifies the Go back end.
const GoBackendName = "go"

var goFileTemplate = template.Must(template.New("artifact").Parse(goArtifactTemplate))

// GoBackend renders artifact definitions as Go source using text/template
// and go/format.
type GoBackend struct{}

// NewGoBackend creates the Go back end.
func NewGoBackend() *GoBackend {
	return &GoBackend{}
}

// Name returns "go".
func (b *GoBackend) Name() string { return GoBackendName }

// FileName returns GoFileName(def).
func (b *GoBackend) FileName(def ArtifactDefinition) string { return GoFileName(def) }

// Serialize renders def as a formatted Go file. Parameter types and custom
// behaviors must be types of the host package; anything needing an import
// is rejected.
func (b *GoBackend) Serialize(def ArtifactDefinition) (GeneratedFile, error) {
	data := newGoFileData(def)
	if !token.IsIdentifier(data.TypeName) {
		return GeneratedFile{}, NewEmitError(ErrMsgInvalidTypeName, def.Namespace, def.TypeName, nil)
	}
	if def.BehaviorKind == BehaviorKindCustom && !token.IsIdentifier(data.Embed) {
		return GeneratedFile{}, NewEmitError(ErrMsgInvalidBehavior, def.Namespace, def.TypeName, nil)
	}
	for i, p := range data.Params {
		if !internal.IsLocalTypeExpr(p.Type) {
			return GeneratedFile{}, NewParamTypeError(def.Namespace, def.TypeName, def.Parameters[i].Name, p.Type)
		}
	}

	var buf bytes.Buffer
	if err := goFileTemplate.Execute(&buf, data); err != nil {
		return GeneratedFile{}, NewEmitError(ErrMsgTemplateRenderFailed, def.Namespace, def.TypeName, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return GeneratedFile{}, NewEmitError(ErrMsgFormatFailed, def.Namespace, def.TypeName, err)
	}

	return GeneratedFile{
		Namespace:   def.Namespace,
		TypeName:    data.TypeName,
		FileName:    GoFileName(def),
		Source:      src,
		Fingerprint: fingerprintBytes(src),
	}, nil
}

// GoFileName returns the file name the Go back end uses for def,
// e.g. capitol_prompt.gen.go for the Capitol declaration.
func GoFileName(def ArtifactDefinition) string {
	name := def.SourceName
	if name == "" {
		name = strings.TrimSuffix(def.TypeName, ArtifactSuffix)
	}
	return internal.SnakeCase(name) + GeneratedFileSuffix
}

// GoType returns the Go type used for a parameter type.
func GoType(t ParamType) string {
	switch t {
	case ParamTypeText:
		return "string"
	case ParamTypeInt:
		return "int"
	case ParamTypeInt64:
		return "int64"
	case ParamTypeFloat:
		return "float64"
	case ParamTypeBool:
		return "bool"
	default:
		return strings.TrimSpace(string(t))
	}
}

type goFileData struct {
	Header       string
	Package      string
	ImportPath   string
	Runtime      string
	TypeName     string
	ConstName    string
	Constructor  string
	SourceName   string
	Embed        string
	TemplateText string
	Params       []goParam
	MaxTokens    string
	Temperature  string
	TopP         string
}

type goParam struct {
	Field string
	Type  string
	Name  string
}

func newGoFileData(def ArtifactDefinition) goFileData {
	typeName := internal.ExportedIdent(def.TypeName)
	embed := goEmbed(def)

	// The embedded field is named after the last element of its type.
	embedField := embed[strings.LastIndex(embed, ".")+1:]
	idents := internal.NewIdentSet(embedField, RuntimePackageName, "context")

	params := make([]goParam, len(def.Parameters))
	for i, p := range def.Parameters {
		params[i] = goParam{
			Field: idents.Claim(internal.LocalIdent(p.Name)),
			Type:  GoType(p.Type),
			Name:  strconv.Quote(p.Name),
		}
	}

	return goFileData{
		Header:       GeneratedCodeHeader,
		Package:      internal.PackageIdent(def.Namespace),
		ImportPath:   RuntimeImportPath,
		Runtime:      RuntimePackageName,
		TypeName:     typeName,
		ConstName:    typeName + TemplateConstSuffix,
		Constructor:  ConstructorPrefix + typeName,
		SourceName:   def.SourceName,
		Embed:        embed,
		TemplateText: goStringLiteral(def.NormalizedText),
		Params:       params,
		MaxTokens:    strconv.Itoa(def.Settings.MaxTokens),
		Temperature:  strconv.FormatFloat(def.Settings.Temperature, 'g', -1, 64),
		TopP:         strconv.FormatFloat(def.Settings.TopP, 'g', -1, 64),
	}
}

// goEmbed returns the type the artifact embeds for its behavior.
func goEmbed(def ArtifactDefinition) string {
	switch def.BehaviorKind {
	case BehaviorKindHistoryCustomizable:
		return RuntimePackageName + "." + BehaviorHistoryCustomizable
	case BehaviorKindCustom:
		return strings.TrimSpace(def.Behavior)
	default:
		return RuntimePackageName + "." + BehaviorStandard
	}
}

// goStringLiteral prefers a raw string literal and falls back to an
// interpreted one when the text cannot be written raw.
func goStringLiteral(s string) string {
	if strings.ContainsAny(s, "`\r") {
		return strconv.Quote(s)
	}
	return "`" + s + "`"
}

const goArtifactTemplate = `{{.Header}}

package {{.Package}}

import (
	"context"

	{{printf "%q" .ImportPath}}
)

// {{.ConstName}} is the normalized template text of {{.SourceName}}.
const {{.ConstName}} = {{.TemplateText}}

// {{.TypeName}} is the typed prompt generated from {{.SourceName}}.
type {{.TypeName}} struct {
	{{.Embed}}
{{- range .Params}}
	{{.Field}} {{.Type}}
{{- end}}
}

// {{.Constructor}} creates a {{.TypeName}}.
func {{.Constructor}}({{range $i, $p := .Params}}{{if $i}}, {{end}}{{$p.Field}} {{$p.Type}}{{end}}) *{{.TypeName}} {
	return &{{.TypeName}}{
{{- range .Params}}
		{{.Field}}: {{.Field}},
{{- end}}
	}
}

// Text returns the rendered prompt text.
func (p *{{.TypeName}}) Text() string {
	return {{.Runtime}}.Render({{.ConstName}}{{range .Params}},
		{{$.Runtime}}.Arg({{.Name}}, p.{{.Field}}){{end}})
}

// Settings returns the execution settings of the prompt.
func (p *{{.TypeName}}) Settings() {{.Runtime}}.Settings {
	return {{.Runtime}}.Settings{
		MaxTokens:   {{.MaxTokens}},
		Temperature: {{.Temperature}},
		TopP:        {{.TopP}},
	}
}

// Execute sends the prompt to the default service, or the one selected
// with WithServiceID, and returns the raw response.
func (p *{{.TypeName}}) Execute(ctx context.Context, services *{{.Runtime}}.ServiceRegistry, opts ...{{.Runtime}}.ExecuteOption) (string, error) {
	return {{.Runtime}}.Execute(ctx, p, services, opts...)
}

// ExecuteWithHistory is Execute with a callback that customizes the
// conversation before dispatch.
func (p *{{.TypeName}}) ExecuteWithHistory(ctx context.Context, services *{{.Runtime}}.ServiceRegistry, history {{.Runtime}}.HistoryFunc, opts ...{{.Runtime}}.ExecuteOption) (string, error) {
	return {{.Runtime}}.ExecuteWithHistory(ctx, p, services, history, opts...)
}

var _ {{.Runtime}}.Prompt = (*{{.TypeName}})(nil)
`
