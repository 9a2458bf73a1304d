package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/itsatony/go-promptgen"
	"github.com/itsatony/go-promptgen/backend/azure"
	"github.com/itsatony/go-promptgen/backend/fake"
	"github.com/itsatony/go-promptgen/backend/gemini"
	"github.com/itsatony/go-promptgen/backend/ollama"
	"go.uber.org/zap"
)

// runConfig holds parsed run command configuration
type runConfig struct {
	sources      sourceFlags
	prompt       string
	dataJSON     string
	dataFilePath string
	backend      string
	model        string
	responses    stringList
	json         bool
	verbose      bool
}

func runRun(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseRunFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	genCfg, err := cfg.sources.config()
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoadConfigFailed, err)
		return ExitCodeInputError
	}
	data, err := loadData(cfg.dataJSON, cfg.dataFilePath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidJSON, err)
		return ExitCodeInputError
	}

	logger := newLogger(cfg.verbose, stderr)
	defer func() { _ = logger.Sync() }()
	ctx := context.Background()

	defs, _, err := promptgen.NewGenerator(genCfg.Options(logger)...).Compile(ctx, genCfg.Source(logger))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCompileFailed, err)
		return ExitCodeError
	}
	def, err := findDefinition(defs, cfg.prompt)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithDetail, ErrMsgPromptNotFound, cfg.prompt)
		return ExitCodeInputError
	}
	prompt, err := def.Bind(stringValues(data))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgBindFailed, err)
		return ExitCodeValidationError
	}

	svc, err := newChatService(ctx, cfg, prompt, logger)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgBackendFailed, err)
		return ExitCodeError
	}
	services := promptgen.NewServiceRegistry(logger)
	if err := services.Register(cfg.backend, svc); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgBackendFailed, err)
		return ExitCodeError
	}

	if !cfg.json {
		reply, err := promptgen.Execute(ctx, prompt, services)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgExecuteFailed, err)
			return ExitCodeError
		}
		fmt.Fprintln(stdout, reply)
		return ExitCodeSuccess
	}

	value, cleaned, err := promptgen.ExecuteJSON[any](ctx, prompt, services)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgExecuteFailed, err)
		return ExitCodeError
	}
	if value == nil {
		fmt.Fprintf(stderr, FmtErrorWithDetail, ErrMsgInvalidJSON, cleaned)
		return ExitCodeValidationError
	}
	out, err := json.MarshalIndent(*value, "", JSONIndent)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgJSONMarshalFailed, err)
		return ExitCodeError
	}
	fmt.Fprintln(stdout, string(out))
	return ExitCodeSuccess
}

func parseRunFlags(args []string) (*runConfig, error) {
	fs := flag.NewFlagSet(CmdNameRun, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &runConfig{}
	cfg.sources.register(fs)
	fs.StringVar(&cfg.prompt, FlagPrompt, "", "")
	fs.StringVar(&cfg.prompt, FlagPromptShort, "", "")
	fs.StringVar(&cfg.dataJSON, FlagData, "", "")
	fs.StringVar(&cfg.dataJSON, FlagDataShort, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFile, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFileShort, "", "")
	fs.StringVar(&cfg.backend, FlagBackend, FlagDefaultBackend, "")
	fs.StringVar(&cfg.backend, FlagBackendShort, FlagDefaultBackend, "")
	fs.StringVar(&cfg.model, FlagModel, "", "")
	fs.Var(&cfg.responses, FlagResponse, "")
	fs.BoolVar(&cfg.json, FlagJSON, false, "")
	fs.BoolVar(&cfg.verbose, FlagVerbose, false, "")
	fs.BoolVar(&cfg.verbose, FlagVerboseShort, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.sources.paths = fs.Args()

	if cfg.prompt == "" {
		return nil, errors.New(ErrMsgMissingPrompt)
	}
	switch cfg.backend {
	case BackendNameFake, BackendNameAzure, BackendNameOllama, BackendNameGemini:
	default:
		return nil, errors.New(ErrMsgUnknownBackend)
	}
	return cfg, nil
}

// newChatService creates the selected back end. The fake back end echoes
// the rendered prompt unless responses are scripted.
func newChatService(ctx context.Context, cfg *runConfig, prompt promptgen.Prompt, logger *zap.Logger) (promptgen.ChatCompletion, error) {
	switch cfg.backend {
	case BackendNameAzure:
		if cfg.model != "" {
			return azure.New(os.Getenv(azure.EnvEndpoint), os.Getenv(azure.EnvAPIKey), cfg.model, azure.WithLogger(logger))
		}
		return azure.NewFromEnv(azure.WithLogger(logger))
	case BackendNameOllama:
		return ollama.New(cfg.model, ollama.WithLogger(logger))
	case BackendNameGemini:
		return gemini.New(ctx, "", cfg.model, gemini.WithLogger(logger))
	default:
		if len(cfg.responses) == 0 {
			return fake.New(prompt.Text()), nil
		}
		return fake.New(cfg.responses...), nil
	}
}
