package promptgen

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/itsatony/go-promptgen/internal"
	"go.uber.org/zap"
)

// GoSource discovers candidates in Go source files. Each path is either a
// single .go file or a package directory; directories are not walked
// recursively. Test files and generated *.gen.go files are ignored.
//
// A candidate is marked by a directive comment directly above it:
//
//	//promptgen:template[HistoryCustomizable](1000, 0.7, 0.9)
//	const Capitol = `What is the capital of {{$state}}?`
type GoSource struct {
	paths  []string
	logger *zap.Logger
}

// NewGoSource creates a source over the given files and directories.
func NewGoSource(paths []string, opts ...Option) *GoSource {
	cfg := applyOptions(opts)
	return &GoSource{
		paths:  append([]string(nil), paths...),
		logger: cfg.logger,
	}
}

// Discover scans every Go file and returns its directive-carrying values.
func (s *GoSource) Discover(ctx context.Context) ([]Candidate, error) {
	files, err := s.files()
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, NewSourceError(ErrMsgSourceReadFailed, file, err)
		}
		values, err := internal.ScanGoSource(file, src, s.logger)
		if err != nil {
			return nil, NewSourceError(ErrMsgSourceParseFailed, file, err)
		}
		for _, v := range values {
			candidates = append(candidates, s.candidate(v))
		}
	}
	return candidates, nil
}

func (s *GoSource) candidate(v internal.GoValue) Candidate {
	c := Candidate{
		Name:      v.Name,
		Text:      v.Value,
		IsConst:   v.IsConst,
		IsText:    v.IsText,
		Namespace: v.Package,
		Position:  Position{File: v.File, Line: v.Line},
	}
	name, behavior, args, ok := internal.ParseDirective(v.Directive)
	if !ok {
		s.logger.Warn(internal.LogMsgDirectiveMalformed,
			zap.String(LogFieldName, v.Name),
			zap.String(internal.LogFieldDirective, v.Directive),
			zap.String(LogFieldSource, c.Position.String()))
		return c
	}
	c.Marker = &Marker{Name: name, Behavior: behavior, Args: args}
	return c
}

// files expands the configured paths into a sorted, de-duplicated file list.
func (s *GoSource) files() ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, path := range s.paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, NewSourceError(ErrMsgSourcePathNotFound, path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, NewSourceError(ErrMsgSourceReadFailed, path, err)
		}
		var dirFiles []string
		for _, e := range entries {
			if e.IsDir() || !isScannableGoFile(e.Name()) {
				continue
			}
			dirFiles = append(dirFiles, filepath.Join(path, e.Name()))
		}
		sort.Strings(dirFiles)
		for _, f := range dirFiles {
			add(f)
		}
	}
	return files, nil
}

func isScannableGoFile(name string) bool {
	return strings.HasSuffix(name, internal.GoFileSuffix) &&
		!strings.HasSuffix(name, internal.GoTestFileSuffix) &&
		!strings.HasSuffix(name, internal.GoGeneratedSuffix)
}
