package internal

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"unicode"
)

// predeclared identifiers that would be shadowed by a parameter name in a
// generated constructor signature.
var predeclared = map[string]struct{}{
	"any": {}, "bool": {}, "byte": {}, "comparable": {}, "complex64": {}, "complex128": {},
	"error": {}, "float32": {}, "float64": {}, "int": {}, "int8": {}, "int16": {},
	"int32": {}, "int64": {}, "rune": {}, "string": {}, "uint": {}, "uint8": {},
	"uint16": {}, "uint32": {}, "uint64": {}, "uintptr": {}, "true": {}, "false": {},
	"iota": {}, "nil": {}, "append": {}, "cap": {}, "clear": {}, "close": {},
	"complex": {}, "copy": {}, "delete": {}, "imag": {}, "len": {}, "make": {},
	"max": {}, "min": {}, "new": {}, "panic": {}, "print": {}, "println": {},
	"real": {}, "recover": {},
}

// ExportedIdent converts name into an exported Go identifier.
func ExportedIdent(name string) string {
	id := camelize(name)
	r := []rune(id)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// IsLocalTypeExpr reports whether expr is a Go type expression that needs no
// import: a named type of the current package or a predeclared type, or a
// pointer, slice, array or map built from them.
func IsLocalTypeExpr(expr string) bool {
	e, err := parser.ParseExpr(expr)
	if err != nil {
		return false
	}
	return isLocalType(e)
}

func isLocalType(e ast.Expr) bool {
	switch t := e.(type) {
	case *ast.Ident:
		return !token.IsKeyword(t.Name)
	case *ast.ParenExpr:
		return isLocalType(t.X)
	case *ast.StarExpr:
		return isLocalType(t.X)
	case *ast.ArrayType:
		if t.Len != nil {
			if lit, ok := t.Len.(*ast.BasicLit); !ok || lit.Kind != token.INT {
				return false
			}
		}
		return isLocalType(t.Elt)
	case *ast.MapType:
		return isLocalType(t.Key) && isLocalType(t.Value)
	default:
		return false
	}
}

// LocalIdent converts name into an unexported Go identifier that is safe to
// use as a struct field or function parameter.
func LocalIdent(name string) string {
	id := camelize(name)
	r := []rune(id)
	r[0] = unicode.ToLower(r[0])
	id = string(r)
	if _, ok := predeclared[id]; ok || token.IsKeyword(id) {
		id += IdentKeywordSuffix
	}
	return id
}

// PackageIdent converts name into a lower-case Go package name.
func PackageIdent(name string) string {
	id := strings.ToLower(camelize(name))
	if token.IsKeyword(id) {
		id += IdentKeywordSuffix
	}
	return id
}

// camelize drops every character that cannot appear in an identifier and
// upper-cases the letter following a dropped run.
func camelize(name string) string {
	var b strings.Builder
	upperNext := false
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			upperNext = b.Len() > 0
			continue
		}
		if upperNext {
			r = unicode.ToUpper(r)
			upperNext = false
		}
		b.WriteRune(r)
	}

	id := b.String()
	if strings.Trim(id, "_") == "" {
		return IdentFallback
	}
	if unicode.IsDigit([]rune(id)[0]) {
		id = IdentDigitPrefix + id
	}
	return id
}

// IdentSet hands out identifiers that are unique within one scope.
type IdentSet struct {
	used map[string]struct{}
}

// NewIdentSet returns a set with the given identifiers already reserved.
func NewIdentSet(reserved ...string) *IdentSet {
	s := &IdentSet{used: make(map[string]struct{}, len(reserved))}
	for _, r := range reserved {
		s.used[r] = struct{}{}
	}
	return s
}

// Claim reserves id, numbering it when it is already taken.
func (s *IdentSet) Claim(id string) string {
	candidate := id
	for n := IdentDuplicateStart; ; n++ {
		if _, taken := s.used[candidate]; !taken {
			s.used[candidate] = struct{}{}
			return candidate
		}
		candidate = id + strconv.Itoa(n)
	}
}

// SnakeCase converts an identifier like CapitolCustom to capitol_custom.
func SnakeCase(name string) string {
	var b strings.Builder
	runes := []rune(camelize(name))
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
