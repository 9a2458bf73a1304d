package internal

// Placeholder delimiter constants - {{$name}} or {{$name:type}}
const (
	StrPlaceholderOpen  = "{{$"
	StrPlaceholderClose = "}}"
)

// PlaceholderPattern matches a single placeholder. Group 1 is the name
// (no '}' or ':'), group 2 the optional type annotation (no '}').
const PlaceholderPattern = `\{\{\$([^}:]*)(?::([^}]*))?\}\}`

// Canonical parameter type tags
const (
	TypeTagText  = "text"
	TypeTagInt   = "int"
	TypeTagInt64 = "int64"
	TypeTagFloat = "float"
	TypeTagBool  = "bool"
)

// Directive constants for Go source scanning
const (
	DirectivePrefix     = "//"
	DirectiveMarkerName = "promptgen:template"
	CharBehaviorOpen    = '['
	CharBehaviorClose   = ']'
	CharArgsOpen        = '('
	CharArgsClose       = ')'
	StrArgSeparator     = ","
)

// File name constants for Go source scanning
const (
	GoFileSuffix        = ".go"
	GoTestFileSuffix    = "_test.go"
	GoGeneratedSuffix   = ".gen.go"
	IdentFallback       = "param"
	IdentKeywordSuffix  = "_"
	IdentDigitPrefix    = "p"
	IdentDuplicateStart = 2
)

// Log message constants
const (
	LogMsgGoFileScanned      = "go file scanned"
	LogMsgDirectiveMalformed = "malformed template directive"
)

// Log field names
const (
	LogFieldFile       = "file"
	LogFieldPackage    = "package"
	LogFieldCandidates = "candidate_count"
	LogFieldDirective  = "directive"
)

// Error message constants
const (
	ErrMsgGoParseFailed = "failed to parse go source"
)

// Error format string constants
const (
	ErrFmtWithCause = "%s: %v"
)
