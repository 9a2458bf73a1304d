package promptgen

import (
	"fmt"
	"strconv"
	"strings"
)

// Argument binds a value to a template parameter for Render.
type Argument struct {
	Name  string
	Value any
}

// Arg creates an Argument.
func Arg(name string, value any) Argument {
	return Argument{Name: name, Value: value}
}

// Render substitutes every {{$name}} marker in template with the formatted
// value of the matching argument. Markers without an argument are left
// untouched and substituted values are never re-scanned.
func Render(template string, args ...Argument) string {
	if len(args) == 0 {
		return template
	}
	pairs := make([]string, 0, len(args)*2)
	for _, a := range args {
		pairs = append(pairs, PlaceholderMarker(a.Name), FormatValue(a.Value))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// FormatValue renders a parameter value as text. Floats use the shortest
// decimal form without an exponent.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
