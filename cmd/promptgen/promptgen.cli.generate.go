package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/itsatony/go-promptgen"
)

// generateConfig holds parsed generate command configuration
type generateConfig struct {
	sources     sourceFlags
	output      string
	driver      string
	concurrency int
	format      string
	verbose     bool
	quiet       bool
}

func runGenerate(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseGenerateFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	genCfg, err := cfg.sources.config()
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoadConfigFailed, err)
		return ExitCodeInputError
	}
	if cfg.driver != "" {
		genCfg.Output.Driver = cfg.driver
	}
	if cfg.output != "" {
		genCfg.Output.DSN = cfg.output
	}
	if genCfg.Output.Driver == promptgen.StoreDriverNameFilesystem && genCfg.Output.DSN == "" {
		genCfg.Output.DSN = defaultOutputDir(genCfg)
	}
	if cfg.concurrency > 0 {
		genCfg.Concurrency = cfg.concurrency
	}

	logger := newLogger(cfg.verbose, stderr)
	defer func() { _ = logger.Sync() }()

	store, err := genCfg.OpenStore()
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgOpenStoreFailed, err)
		return ExitCodeError
	}
	defer store.Close()

	gen := promptgen.NewGenerator(genCfg.Options(logger)...)
	report, err := gen.Generate(context.Background(), genCfg.Source(logger), store)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgGenerateFailed, err)
		return ExitCodeError
	}

	if cfg.quiet {
		return ExitCodeSuccess
	}
	if cfg.format == OutputFormatJSON {
		out, err := json.MarshalIndent(report, "", JSONIndent)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgJSONMarshalFailed, err)
			return ExitCodeError
		}
		fmt.Fprintln(stdout, string(out))
		return ExitCodeSuccess
	}
	writeReportText(report, stdout)
	return ExitCodeSuccess
}

func parseGenerateFlags(args []string) (*generateConfig, error) {
	fs := flag.NewFlagSet(CmdNameGenerate, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &generateConfig{}
	cfg.sources.register(fs)
	fs.StringVar(&cfg.output, FlagOutput, "", "")
	fs.StringVar(&cfg.output, FlagOutputShort, "", "")
	fs.StringVar(&cfg.driver, FlagDriver, "", "")
	fs.IntVar(&cfg.concurrency, FlagConcurrency, 0, "")
	fs.IntVar(&cfg.concurrency, FlagConcurrencyShort, 0, "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	fs.BoolVar(&cfg.verbose, FlagVerbose, false, "")
	fs.BoolVar(&cfg.verbose, FlagVerboseShort, false, "")
	fs.BoolVar(&cfg.quiet, FlagQuiet, false, "")
	fs.BoolVar(&cfg.quiet, FlagQuietShort, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.sources.paths = fs.Args()

	if !validFormat(cfg.format) {
		return nil, errors.New(ErrMsgInvalidFormat)
	}
	if cfg.concurrency < 0 {
		return nil, errors.New(ErrMsgNegativeConcurrency)
	}
	return cfg, nil
}

// defaultOutputDir places generated files next to the first source: the
// directory itself, or the directory holding the first file or manifest.
func defaultOutputDir(cfg *promptgen.Config) string {
	var first string
	switch {
	case len(cfg.Sources) > 0:
		first = cfg.Sources[0]
	case len(cfg.Manifests) > 0:
		first = cfg.Manifests[0]
	default:
		return "."
	}
	if info, err := os.Stat(first); err == nil && info.IsDir() {
		return first
	}
	return filepath.Dir(first)
}

// writeReportText prints the report. Unmarked constants are counted but
// not listed.
func writeReportText(report *promptgen.Report, w io.Writer) {
	fmt.Fprintf(w, ReportTextHeader+FmtNewline, report.RunID, report.Backend, report.Duration)
	for _, r := range report.Written {
		fmt.Fprintf(w, ReportTextWritten+FmtNewline, r.Namespace, r.TypeName, r.FileName)
	}
	for _, r := range report.Unchanged {
		fmt.Fprintf(w, ReportTextUnchanged+FmtNewline, r.Namespace, r.TypeName, r.FileName)
	}
	for _, s := range report.Skipped {
		if s.Reason == promptgen.SkipReasonNoMarker {
			continue
		}
		fmt.Fprintf(w, ReportTextSkipped+FmtNewline, s.Name, s.Source, s.Reason)
	}
	fmt.Fprintf(w, ReportTextSummary+FmtNewline, len(report.Written), len(report.Unchanged), len(report.Skipped))
}
