package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-promptgen"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	templatePath string
	dataJSON     string
	dataFilePath string
	outputPath   string
}

func runRender(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseRenderFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingTemplate, err)
		return ExitCodeUsageError
	}

	templateSource, err := readInput(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	data, err := loadData(cfg.dataJSON, cfg.dataFilePath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidJSON, err)
		return ExitCodeInputError
	}

	def := inlineDefinition(string(templateSource))
	prompt, err := def.Bind(stringValues(data))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgBindFailed, err)
		return ExitCodeValidationError
	}

	if err := writeOutput(cfg.outputPath, []byte(prompt.Text()), stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}
	return ExitCodeSuccess
}

func parseRenderFlags(args []string) (*renderConfig, error) {
	fs := flag.NewFlagSet(CmdNameRender, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &renderConfig{}
	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.dataJSON, FlagData, "", "")
	fs.StringVar(&cfg.dataJSON, FlagDataShort, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFile, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFileShort, "", "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}
	return cfg, nil
}

// inlineDefinition compiles a template that has no declaring constant.
func inlineDefinition(text string) promptgen.ArtifactDefinition {
	decl := promptgen.Declaration{
		Namespace:    promptgen.DefaultNamespace,
		Name:         InlineTemplateName,
		RawText:      text,
		BaseBehavior: promptgen.BehaviorStandard,
		MaxTokens:    promptgen.DefaultMaxTokens,
		Temperature:  promptgen.DefaultTemperature,
		TopP:         promptgen.DefaultTopP,
	}
	return promptgen.Emit(promptgen.Resolve(decl))
}
