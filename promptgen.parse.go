package promptgen

import (
	"github.com/itsatony/go-promptgen/internal"
)

// ParseTemplate extracts the unique placeholders of text in first-seen order
// and returns them with the normalized text. Every well-formed
// {{$name:type}} occurrence is rewritten to {{$name}} and the result is
// trimmed. Malformed markers stay in the text and produce no parameter.
//
// ParseTemplate is idempotent on its own output: parsing the normalized text
// again yields the same names and the same text.
func ParseTemplate(text string) ([]Parameter, string) {
	found, normalized := internal.ScanPlaceholders(text)
	params := make([]Parameter, len(found))
	for i, p := range found {
		params[i] = Parameter{Name: p.Name, Type: ParamType(p.Type)}
	}
	return params, normalized
}

// ParseParamType maps a raw type annotation to its tag. Aliases such as
// "integer" or "double" resolve to the built-in tags; anything else is kept
// verbatim as a user type.
func ParseParamType(raw string) ParamType {
	return ParamType(internal.CanonicalType(raw))
}

// Resolve compiles a declaration by parsing its raw text.
func Resolve(decl Declaration) CompiledTemplate {
	params, normalized := ParseTemplate(decl.RawText)
	return CompiledTemplate{
		Declaration:    decl,
		Parameters:     params,
		NormalizedText: normalized,
	}
}

// PlaceholderMarker returns the normalized marker for a parameter name.
func PlaceholderMarker(name string) string {
	return internal.Marker(name)
}
