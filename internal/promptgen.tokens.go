package internal

import (
	"regexp"
	"strings"
)

var placeholderRegex = regexp.MustCompile(PlaceholderPattern)

// Placeholder is a unique parameter found in a template, in first-seen order.
type Placeholder struct {
	Name string
	// Type is the canonical type tag (see CanonicalType).
	Type string
}

// ScanPlaceholders scans text left to right and returns the unique
// placeholders plus the normalized text. Every well-formed placeholder is
// rewritten to {{$name}}; the first occurrence of a name decides its type.
// Malformed markers are copied through unchanged.
func ScanPlaceholders(text string) ([]Placeholder, string) {
	text = strings.TrimSpace(text)

	matches := placeholderRegex.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []Placeholder{}, text
	}

	placeholders := make([]Placeholder, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))

	var b strings.Builder
	b.Grow(len(text))
	last := 0

	for _, m := range matches {
		name := strings.TrimSpace(text[m[2]:m[3]])
		if name == "" {
			continue
		}

		rawType := ""
		if m[4] >= 0 {
			rawType = text[m[4]:m[5]]
		}

		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			placeholders = append(placeholders, Placeholder{
				Name: name,
				Type: CanonicalType(rawType),
			})
		}

		b.WriteString(text[last:m[0]])
		b.WriteString(Marker(name))
		last = m[1]
	}
	b.WriteString(text[last:])

	return placeholders, b.String()
}

// Marker returns the normalized placeholder marker for name.
func Marker(name string) string {
	return StrPlaceholderOpen + name + StrPlaceholderClose
}

// CanonicalType maps a raw type annotation to its canonical tag.
// Unknown annotations are returned trimmed and unchanged; they name
// enumerations or other user types.
func CanonicalType(raw string) string {
	t := strings.TrimSpace(raw)
	switch strings.ToLower(t) {
	case "", "text", "string", "str":
		return TypeTagText
	case "int", "integer":
		return TypeTagInt
	case "int64", "long":
		return TypeTagInt64
	case "float", "float64", "double", "decimal", "number":
		return TypeTagFloat
	case "bool", "boolean":
		return TypeTagBool
	default:
		return t
	}
}
