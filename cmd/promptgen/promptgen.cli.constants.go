package main

// Command names
const (
	CmdNameGenerate = "generate"
	CmdNameParse    = "parse"
	CmdNameRender   = "render"
	CmdNameRun      = "run"
	CmdNameVersion  = "version"
	CmdNameHelp     = "help"
)

// Flag names - long form
const (
	FlagConfig      = "config"
	FlagManifest    = "manifest"
	FlagOutput      = "output"
	FlagDriver      = "driver"
	FlagConcurrency = "concurrency"
	FlagNamespace   = "namespace"
	FlagFormat      = "format"
	FlagVerbose     = "verbose"
	FlagQuiet       = "quiet"
	FlagTemplate    = "template"
	FlagData        = "data"
	FlagDataFile    = "data-file"
	FlagPrompt      = "prompt"
	FlagBackend     = "backend"
	FlagModel       = "model"
	FlagResponse    = "response"
	FlagJSON        = "json"
)

// Flag names - short form
const (
	FlagConfigShort      = "c"
	FlagManifestShort    = "m"
	FlagOutputShort      = "o"
	FlagConcurrencyShort = "j"
	FlagNamespaceShort   = "n"
	FlagFormatShort      = "F"
	FlagVerboseShort     = "v"
	FlagQuietShort       = "q"
	FlagTemplateShort    = "t"
	FlagDataShort        = "d"
	FlagDataFileShort    = "f"
	FlagPromptShort      = "p"
	FlagBackendShort     = "b"
)

// Flag default values
const (
	FlagDefaultOutput  = "-" // stdout
	FlagDefaultFormat  = "text"
	FlagDefaultBackend = BackendNameFake
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Chat back end names accepted by run
const (
	BackendNameFake   = "fake"
	BackendNameAzure  = "azure"
	BackendNameOllama = "ollama"
	BackendNameGemini = "gemini"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages - ALL must be constants
const (
	ErrMsgNoCommand           = "no command specified"
	ErrMsgUnknownCommand      = "unknown command"
	ErrMsgInvalidFlags        = "invalid flags"
	ErrMsgMissingTemplate     = "template source required"
	ErrMsgMissingPrompt       = "prompt name required"
	ErrMsgPromptNotFound      = "prompt not found"
	ErrMsgInvalidJSON         = "invalid JSON data"
	ErrMsgReadFileFailed      = "failed to read file"
	ErrMsgWriteOutputFailed   = "failed to write output"
	ErrMsgInvalidFormat       = "invalid output format"
	ErrMsgUnknownBackend      = "unknown backend"
	ErrMsgBackendFailed       = "failed to create backend"
	ErrMsgLoadConfigFailed    = "failed to load config"
	ErrMsgInvalidConfig       = "invalid configuration"
	ErrMsgOpenStoreFailed     = "failed to open artifact store"
	ErrMsgCompileFailed       = "failed to compile declarations"
	ErrMsgGenerateFailed      = "generation failed"
	ErrMsgBindFailed          = "failed to bind arguments"
	ErrMsgExecuteFailed       = "prompt execution failed"
	ErrMsgLoggerFailed        = "failed to create logger"
	ErrMsgJSONMarshalFailed   = "failed to marshal JSON"
	ErrMsgNegativeConcurrency = "concurrency must not be negative"
)

// Help text templates
const (
	HelpMainUsage = `promptgen - typed LLM prompt generator

Usage:
    promptgen <command> [options]

Commands:
    generate    Generate prompt types from annotated sources
    parse       Show the artifact definitions found in sources
    render      Render a template with data
    run         Execute a prompt against a chat back end
    version     Show version information
    help        Show help for a command

Use "promptgen help <command>" for more information about a command.`

	HelpGenerateUsage = `Generate prompt types from annotated sources

Usage:
    promptgen generate [options] [paths...]

Paths are Go files or package directories. Without paths or --config,
promptgen.yaml in the current directory is used if present, otherwise ".".

Options:
    -c, --config <file>       Config file (default: promptgen.yaml)
    -m, --manifest <file>     YAML manifest of templates (repeatable)
    -o, --output <dsn>        Store location (default: first source directory)
    --driver <name>           Store driver: filesystem, memory, postgres
    -j, --concurrency <n>     Parallel artifacts (default: 8)
    -n, --namespace <name>    Namespace for candidates without one
    -F, --format <format>     Report format: text, json (default: text)
    -v, --verbose             Log pipeline progress to stderr
    -q, --quiet               Suppress the report

Examples:
    //go:generate promptgen generate .
    promptgen generate ./internal/prompts
    promptgen generate -m prompts.yaml -o ./internal/prompts
    promptgen generate --driver postgres -o "postgres://localhost/prompts"`

	HelpParseUsage = `Show the artifact definitions found in sources

Usage:
    promptgen parse [options] [paths...]

Options:
    -c, --config <file>       Config file
    -m, --manifest <file>     YAML manifest of templates (repeatable)
    -n, --namespace <name>    Namespace for candidates without one
    -F, --format <format>     Output format: text, json (default: text)
    -o, --output <file>       Output file (default: stdout)

Examples:
    promptgen parse ./internal/prompts
    promptgen parse -F json -m prompts.yaml`

	HelpRenderUsage = `Render a template with data

Usage:
    promptgen render [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -d, --data <json>       JSON data string
    -f, --data-file <file>  JSON data file
    -o, --output <file>     Output file (default: stdout)

Examples:
    promptgen render -t capitol.txt -d '{"state": "Ohio", "words": 20}'
    cat capitol.txt | promptgen render -t - -f data.json`

	HelpRunUsage = `Execute a prompt against a chat back end

Usage:
    promptgen run [options] [paths...]

Options:
    -p, --prompt <name>       Template or type name to execute
    -c, --config <file>       Config file
    -m, --manifest <file>     YAML manifest of templates (repeatable)
    -d, --data <json>         JSON data string
    -f, --data-file <file>    JSON data file
    -b, --backend <name>      fake, azure, ollama, gemini (default: fake)
    --model <name>            Model or deployment for the back end
    --response <text>         Scripted reply for the fake back end (repeatable)
    --json                    Decode the reply as JSON and print it indented
    -v, --verbose             Log execution to stderr

Environment:
    AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_KEY, AZURE_OPENAI_DEPLOYMENT
    OLLAMA_HOST
    GEMINI_API_KEY

Examples:
    promptgen run -p Capitol -d '{"state": "Ohio", "words": 20}' -b ollama --model llama3
    promptgen run -p Capitol -d '{"state": "Ohio", "words": 20}' --response Columbus`

	HelpVersionUsage = `Show version information

Usage:
    promptgen version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    promptgen help [command]

Commands:
    generate    Show help for generate command
    parse       Show help for parse command
    render      Show help for render command
    run         Show help for run command
    version     Show help for version command`
)

// Version output format templates
const (
	VersionTextTemplate = "promptgen version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
	VersionsFileName    = "versions.yaml"
)

// Report output format templates
const (
	ReportTextHeader    = "run %s (%s backend) in %s"
	ReportTextWritten   = "  wrote     %s.%s -> %s"
	ReportTextUnchanged = "  unchanged %s.%s -> %s"
	ReportTextSkipped   = "  skipped   %s at %s: %s"
	ReportTextSummary   = "%d written, %d unchanged, %d skipped"
)

// Parse output format templates
const (
	ParseTextArtifact  = "%s.%s (%s) from %s"
	ParseTextSettings  = "  settings: max_tokens=%d temperature=%s top_p=%s"
	ParseTextParameter = "  param %s %s"
	ParseTextNoParams  = "  no parameters"
	ParseTextSkipped   = "skipped %s at %s: %s"
)

// CLI metadata
const (
	CLIName        = "promptgen"
	CLIDescription = "typed LLM prompt generator"
)

// Inline template naming for render
const (
	InlineTemplateName = "Inline"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
	JSONIndent         = "  "
)
