package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/itsatony/go-promptgen"
)

// parseConfig holds parsed parse command configuration
type parseConfig struct {
	sources    sourceFlags
	format     string
	outputPath string
}

// parseOutput is the JSON form of the parse command
type parseOutput struct {
	Artifacts []promptgen.ArtifactDefinition `json:"artifacts"`
	Skipped   []promptgen.SkippedDeclaration `json:"skipped"`
}

func runParse(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseParseFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	genCfg, err := cfg.sources.config()
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoadConfigFailed, err)
		return ExitCodeInputError
	}

	logger := newLogger(false, stderr)
	gen := promptgen.NewGenerator(genCfg.Options(logger)...)
	defs, skipped, err := gen.Compile(context.Background(), genCfg.Source(logger))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCompileFailed, err)
		return ExitCodeError
	}

	var buf bytes.Buffer
	if cfg.format == OutputFormatJSON {
		out, err := json.MarshalIndent(parseOutput{Artifacts: defs, Skipped: reportedSkips(skipped)}, "", JSONIndent)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgJSONMarshalFailed, err)
			return ExitCodeError
		}
		buf.Write(out)
		buf.WriteString(FmtNewline)
	} else {
		writeDefinitionsText(defs, reportedSkips(skipped), &buf)
	}

	if err := writeOutput(cfg.outputPath, buf.Bytes(), stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}
	return ExitCodeSuccess
}

func parseParseFlags(args []string) (*parseConfig, error) {
	fs := flag.NewFlagSet(CmdNameParse, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &parseConfig{}
	cfg.sources.register(fs)
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.sources.paths = fs.Args()

	if !validFormat(cfg.format) {
		return nil, errors.New(ErrMsgInvalidFormat)
	}
	return cfg, nil
}

// reportedSkips drops candidates that never carried the marker.
func reportedSkips(skipped []promptgen.SkippedDeclaration) []promptgen.SkippedDeclaration {
	out := []promptgen.SkippedDeclaration{}
	for _, s := range skipped {
		if s.Reason != promptgen.SkipReasonNoMarker {
			out = append(out, s)
		}
	}
	return out
}

func writeDefinitionsText(defs []promptgen.ArtifactDefinition, skipped []promptgen.SkippedDeclaration, w io.Writer) {
	for _, d := range defs {
		fmt.Fprintf(w, ParseTextArtifact+FmtNewline, d.Namespace, d.TypeName, d.Behavior, d.Source)
		fmt.Fprintf(w, ParseTextSettings+FmtNewline,
			d.Settings.MaxTokens,
			strconv.FormatFloat(d.Settings.Temperature, 'g', -1, 64),
			strconv.FormatFloat(d.Settings.TopP, 'g', -1, 64))
		if len(d.Parameters) == 0 {
			fmt.Fprintln(w, ParseTextNoParams)
		}
		for _, p := range d.Parameters {
			fmt.Fprintf(w, ParseTextParameter+FmtNewline, p.Name, p.Type)
		}
	}
	for _, s := range skipped {
		fmt.Fprintf(w, ParseTextSkipped+FmtNewline, s.Name, s.Source, s.Reason)
	}
}
