package promptgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTemplate(t *testing.T) {
	params, normalized := ParseTemplate(testCapitolText)

	assert.Equal(t, []Parameter{
		{Name: "state", Type: ParamTypeText},
		{Name: "words", Type: ParamTypeInt},
	}, params)
	assert.Equal(t, testCapitolNorm, normalized)
}

func TestParseTemplate_NoPlaceholders(t *testing.T) {
	params, normalized := ParseTemplate("  Tell me a joke.  ")

	assert.NotNil(t, params)
	assert.Empty(t, params)
	assert.Equal(t, "Tell me a joke.", normalized)
}

func TestParseTemplate_Idempotent(t *testing.T) {
	params, normalized := ParseTemplate("{{$a:bool}} {{$b:Color}} {{$a}} {{$}}")
	again, renormalized := ParseTemplate(normalized)

	assert.Equal(t, normalized, renormalized)
	assert.Len(t, again, len(params))
	for i := range params {
		assert.Equal(t, params[i].Name, again[i].Name)
	}
}

func TestParseParamType(t *testing.T) {
	tests := []struct {
		raw     string
		want    ParamType
		builtin bool
	}{
		{"", ParamTypeText, true},
		{"String", ParamTypeText, true},
		{"integer", ParamTypeInt, true},
		{"long", ParamTypeInt64, true},
		{"double", ParamTypeFloat, true},
		{"boolean", ParamTypeBool, true},
		{"Color", ParamType("Color"), false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseParamType(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.builtin, got.IsBuiltin())
		})
	}
}

func TestResolve(t *testing.T) {
	decl := Declaration{
		Namespace:    testNamespace,
		Name:         "Capitol",
		RawText:      testCapitolText,
		BaseBehavior: BehaviorStandard,
		MaxTokens:    1000,
		Temperature:  0.7,
	}

	compiled := Resolve(decl)

	assert.Equal(t, decl, compiled.Declaration)
	assert.Equal(t, testCapitolNorm, compiled.NormalizedText)
	assert.Len(t, compiled.Parameters, 2)
}

func TestPlaceholderMarker(t *testing.T) {
	assert.Equal(t, "{{$state}}", PlaceholderMarker("state"))
}
