package internal

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// GoValue is a const or var declared in Go source that carries a template
// directive. Value is only meaningful when IsText is true.
type GoValue struct {
	Name      string
	Value     string
	IsConst   bool
	IsText    bool
	Directive string
	Package   string
	File      string
	Line      int
}

// ScanGoSource parses a single Go file and returns every value spec that
// carries a promptgen directive, in source order.
func ScanGoSource(filename string, src []byte, logger *zap.Logger) ([]GoValue, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf(ErrFmtWithCause, ErrMsgGoParseFailed, err)
	}

	pkg := ""
	if file.Name != nil {
		pkg = file.Name.Name
	}

	var values []GoValue
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || (genDecl.Tok != token.CONST && genDecl.Tok != token.VAR) {
			continue
		}

		for _, spec := range genDecl.Specs {
			valueSpec, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}

			doc := valueSpec.Doc
			if doc == nil && !genDecl.Lparen.IsValid() {
				doc = genDecl.Doc
			}
			directive, found := findDirective(doc)
			if !found {
				continue
			}

			for i, ident := range valueSpec.Names {
				v := GoValue{
					Name:      ident.Name,
					IsConst:   genDecl.Tok == token.CONST,
					Directive: directive,
					Package:   pkg,
					File:      filename,
					Line:      fset.Position(ident.Pos()).Line,
				}
				if len(valueSpec.Values) == len(valueSpec.Names) {
					v.Value, v.IsText = stringValue(valueSpec.Values[i])
				}
				values = append(values, v)
			}
		}
	}

	logger.Debug(LogMsgGoFileScanned,
		zap.String(LogFieldFile, filename),
		zap.String(LogFieldPackage, pkg),
		zap.Int(LogFieldCandidates, len(values)))

	return values, nil
}

// findDirective returns the raw text of the first promptgen directive line.
// Directive lines are read from the raw comment list because
// CommentGroup.Text drops them.
func findDirective(doc *ast.CommentGroup) (string, bool) {
	if doc == nil {
		return "", false
	}
	for _, c := range doc.List {
		if strings.HasPrefix(c.Text, DirectivePrefix+DirectiveMarkerName) {
			return strings.TrimPrefix(c.Text, DirectivePrefix), true
		}
	}
	return "", false
}

// stringValue folds string literals and '+' concatenations of them.
func stringValue(expr ast.Expr) (string, bool) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		if e.Kind != token.STRING {
			return "", false
		}
		s, err := strconv.Unquote(e.Value)
		if err != nil {
			return "", false
		}
		return s, true
	case *ast.ParenExpr:
		return stringValue(e.X)
	case *ast.BinaryExpr:
		if e.Op != token.ADD {
			return "", false
		}
		left, ok := stringValue(e.X)
		if !ok {
			return "", false
		}
		right, ok := stringValue(e.Y)
		if !ok {
			return "", false
		}
		return left + right, true
	default:
		return "", false
	}
}

// ParseDirective splits a directive of the form
//
//	promptgen:template[Behavior](arg, arg, arg)
//
// into its marker name, optional behavior identifier and positional
// arguments. ok is false when the brackets or parentheses are unbalanced.
func ParseDirective(directive string) (name, behavior string, args []string, ok bool) {
	rest := strings.TrimSpace(directive)
	if !strings.HasPrefix(rest, DirectiveMarkerName) {
		return "", "", nil, false
	}
	name = DirectiveMarkerName
	rest = strings.TrimSpace(rest[len(DirectiveMarkerName):])

	if rest != "" && rest[0] == CharBehaviorOpen {
		end := strings.IndexByte(rest, CharBehaviorClose)
		if end < 0 {
			return "", "", nil, false
		}
		behavior = strings.TrimSpace(rest[1:end])
		rest = strings.TrimSpace(rest[end+1:])
	}

	if rest == "" {
		return name, behavior, nil, true
	}

	if rest[0] != CharArgsOpen || rest[len(rest)-1] != CharArgsClose {
		return "", "", nil, false
	}
	inner := strings.TrimSpace(rest[1 : len(rest)-1])
	if inner == "" {
		return name, behavior, nil, true
	}
	for _, a := range strings.Split(inner, StrArgSeparator) {
		args = append(args, strings.TrimSpace(a))
	}
	return name, behavior, args, true
}
