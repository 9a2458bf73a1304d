package promptgen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseGenerated parses src and returns its package name and the struct
// fields of its single type.
func parseGenerated(t *testing.T, src []byte) (string, []string) {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, parser.ParseComments)
	require.NoError(t, err, string(src))

	var fields []string
	ast.Inspect(file, func(n ast.Node) bool {
		st, ok := n.(*ast.StructType)
		if !ok {
			return true
		}
		for _, f := range st.Fields.List {
			if len(f.Names) == 0 {
				fields = append(fields, "embedded")
				continue
			}
			for _, name := range f.Names {
				fields = append(fields, name.Name)
			}
		}
		return false
	})
	return file.Name.Name, fields
}

func TestGoBackend_Serialize(t *testing.T) {
	def := capitolDefinition(BehaviorStandard)

	file, err := NewGoBackend().Serialize(def)
	require.NoError(t, err)

	assert.Equal(t, testNamespace, file.Namespace)
	assert.Equal(t, "CapitolPrompt", file.TypeName)
	assert.Equal(t, "capitol_prompt.gen.go", file.FileName)
	assert.Equal(t, fingerprintBytes(file.Source), file.Fingerprint)

	src := string(file.Source)
	assert.True(t, strings.HasPrefix(src, GeneratedCodeHeader+"\n\npackage capitol\n"))
	for _, snippet := range []string{
		"const CapitolPromptTemplate = `" + testCapitolNorm + "`",
		"type CapitolPrompt struct {\n\tpromptgen.Standard\n\tstate string\n\twords int\n}",
		"func NewCapitolPrompt(state string, words int) *CapitolPrompt {",
		"promptgen.Arg(\"state\", p.state)",
		"promptgen.Arg(\"words\", p.words))",
		"MaxTokens:   1000,",
		"Temperature: 0.7,",
		"TopP:        0,",
		"func (p *CapitolPrompt) Execute(ctx context.Context, services *promptgen.ServiceRegistry, opts ...promptgen.ExecuteOption) (string, error) {",
		"func (p *CapitolPrompt) ExecuteWithHistory(ctx context.Context, services *promptgen.ServiceRegistry, history promptgen.HistoryFunc, opts ...promptgen.ExecuteOption) (string, error) {",
		"var _ promptgen.Prompt = (*CapitolPrompt)(nil)",
	} {
		assert.Contains(t, src, snippet)
	}

	pkg, fields := parseGenerated(t, file.Source)
	assert.Equal(t, testNamespace, pkg)
	assert.Equal(t, []string{"embedded", "state", "words"}, fields)
}

func TestGoBackend_Deterministic(t *testing.T) {
	def := capitolDefinition(BehaviorStandard)
	a, err := NewGoBackend().Serialize(def)
	require.NoError(t, err)
	b, err := NewGoBackend().Serialize(def)
	require.NoError(t, err)

	assert.Equal(t, a.Source, b.Source)
	assert.Equal(t, a.Fingerprint, b.Fingerprint)
}

func TestGoBackend_Embeds(t *testing.T) {
	tests := []struct {
		behavior string
		embed    string
	}{
		{BehaviorStandard, "\tpromptgen.Standard\n"},
		{BehaviorHistoryCustomizable, "\tpromptgen.HistoryCustomizable\n"},
		{"Audited", "\tAudited\n"},
	}
	for _, tt := range tests {
		t.Run(tt.behavior, func(t *testing.T) {
			file, err := NewGoBackend().Serialize(capitolDefinition(tt.behavior))
			require.NoError(t, err)
			assert.Contains(t, string(file.Source), tt.embed)
		})
	}
}

func TestGoBackend_IdentifierCollisions(t *testing.T) {
	def := Emit(Resolve(Declaration{
		Namespace:    "my prompts",
		Name:         "Odd",
		RawText:      "{{$promptgen}} {{$type}} {{$first name}} {{$first-name}} {{$Standard}} {{$level:Level}}",
		BaseBehavior: BehaviorStandard,
		MaxTokens:    10,
	}))

	file, err := NewGoBackend().Serialize(def)
	require.NoError(t, err)

	pkg, fields := parseGenerated(t, file.Source)
	assert.Equal(t, "myprompts", pkg)
	assert.Equal(t, []string{"embedded", "promptgen2", "type_", "firstName", "firstName2", "standard", "level"}, fields)

	src := string(file.Source)
	assert.Contains(t, src, `promptgen.Arg("first name", p.firstName)`)
	assert.Contains(t, src, `promptgen.Arg("first-name", p.firstName2)`)
	assert.Contains(t, src, "level      Level")
}

func TestGoBackend_TemplateLiterals(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"raw", "line one\nline \"two\"", "`line one\nline \"two\"`"},
		{"backquote", "use `code` {{$x}}", "\"use `code` {{$x}}\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := Emit(Resolve(Declaration{Namespace: "ns", Name: "Lit", RawText: tt.text}))
			file, err := NewGoBackend().Serialize(def)
			require.NoError(t, err)
			assert.Contains(t, string(file.Source), "const LitPromptTemplate = "+tt.want)
		})
	}
}

func TestGoBackend_NoParameters(t *testing.T) {
	def := Emit(Resolve(Declaration{Namespace: "ns", Name: "Joke", RawText: "Tell a joke."}))

	file, err := NewGoBackend().Serialize(def)
	require.NoError(t, err)

	assert.Contains(t, string(file.Source), "func NewJokePrompt() *JokePrompt {")
	assert.Contains(t, string(file.Source), "return promptgen.Render(JokePromptTemplate)")
	_, fields := parseGenerated(t, file.Source)
	assert.Equal(t, []string{"embedded"}, fields)
}

func TestGoBackend_InvalidCustomBehavior(t *testing.T) {
	for _, behavior := range []string{"not a type!", "other.JSONReply"} {
		_, err := NewGoBackend().Serialize(capitolDefinition(behavior))

		require.Error(t, err, behavior)
		assert.Contains(t, err.Error(), ErrMsgInvalidBehavior)
	}
}

func TestGoBackend_ParameterTypes(t *testing.T) {
	tests := []struct {
		annotation string
		valid      bool
	}{
		{"Level", true},
		{"[]string", true},
		{"map[string]Level", true},
		{"list of strings", false},
		{"time.Duration", false},
		{"chan int", false},
	}

	for _, tt := range tests {
		t.Run(tt.annotation, func(t *testing.T) {
			def := Emit(Resolve(Declaration{
				Namespace:    testNamespace,
				Name:         "Typed",
				RawText:      "value {{$v:" + tt.annotation + "}}",
				BaseBehavior: BehaviorStandard,
			}))

			file, err := NewGoBackend().Serialize(def)
			if tt.valid {
				require.NoError(t, err)
				assert.Contains(t, string(file.Source), "v "+tt.annotation)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), ErrMsgInvalidParamType)
			assert.Equal(t, "v", metadata(t, err, MetaKeyParameter))
		})
	}
}

func TestGoBackend_FileName(t *testing.T) {
	def := Emit(Resolve(Declaration{Namespace: testNamespace, Name: "capitol", RawText: "x"}))

	assert.Equal(t, "CapitolPrompt", def.TypeName)
	assert.Equal(t, "capitol_prompt.gen.go", NewGoBackend().FileName(def))
}

func TestGoFileName(t *testing.T) {
	assert.Equal(t, "capitol_custom_prompt.gen.go", GoFileName(ArtifactDefinition{SourceName: "CapitolCustom"}))
	assert.Equal(t, "http_call_prompt.gen.go", GoFileName(ArtifactDefinition{TypeName: "HTTPCallPrompt"}))
}

func TestGoType(t *testing.T) {
	assert.Equal(t, "string", GoType(ParamTypeText))
	assert.Equal(t, "int", GoType(ParamTypeInt))
	assert.Equal(t, "int64", GoType(ParamTypeInt64))
	assert.Equal(t, "float64", GoType(ParamTypeFloat))
	assert.Equal(t, "bool", GoType(ParamTypeBool))
	assert.Equal(t, "Level", GoType(ParamType("Level")))
}
