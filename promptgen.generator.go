package promptgen

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Generator runs the pipeline: discover candidates, extract declarations,
// then resolve, emit, serialize and store each one. Declarations are
// processed concurrently; results are reported in a stable order.
type Generator struct {
	config *generatorConfig
}

// NewGenerator creates a Generator.
func NewGenerator(opts ...Option) *Generator {
	return &Generator{config: applyOptions(opts)}
}

// ArtifactRecord describes one artifact handled by a run.
type ArtifactRecord struct {
	Namespace   string `json:"namespace"`
	TypeName    string `json:"type_name"`
	FileName    string `json:"file_name"`
	Fingerprint string `json:"fingerprint"`
}

// SkippedDeclaration describes a candidate or declaration left out of a run.
type SkippedDeclaration struct {
	Namespace string   `json:"namespace,omitempty"`
	Name      string   `json:"name"`
	Reason    string   `json:"reason"`
	Source    Position `json:"source"`
}

// Report summarizes a generation run.
type Report struct {
	RunID     string               `json:"run_id"`
	Backend   string               `json:"backend"`
	Written   []ArtifactRecord     `json:"written"`
	Unchanged []ArtifactRecord     `json:"unchanged"`
	Skipped   []SkippedDeclaration `json:"skipped"`
	Duration  time.Duration        `json:"duration"`
}

// Total returns the number of artifacts produced, written or not.
func (r *Report) Total() int {
	return len(r.Written) + len(r.Unchanged)
}

// Compile discovers and compiles every qualifying declaration without
// serializing anything. Declarations that would share a type name or a
// file within a namespace keep the first one in source order.
func (g *Generator) Compile(ctx context.Context, source DeclarationSource) ([]ArtifactDefinition, []SkippedDeclaration, error) {
	if source == nil {
		return nil, nil, NewValidationError(ErrMsgGeneratorNoSource)
	}
	logger := g.config.logger

	logger.Debug(LogMsgDiscoverStart)
	candidates, err := source.Discover(ctx)
	if err != nil {
		return nil, nil, err
	}

	decls, skipped := extract(candidates, g.config)
	logger.Debug(LogMsgDiscoverComplete,
		zap.Int(LogFieldCandidates, len(candidates)),
		zap.Int(LogFieldDecls, len(decls)))

	defs := make([]ArtifactDefinition, 0, len(decls))
	types := make(map[string]struct{}, len(decls))
	files := make(map[string]struct{}, len(decls))
	for _, decl := range decls {
		def := Emit(Resolve(decl))
		typeKey := def.Namespace + "." + def.TypeName
		fileKey := def.Namespace + "/" + g.config.backend.FileName(def)
		_, dupType := types[typeKey]
		_, dupFile := files[fileKey]
		if dupType || dupFile {
			logger.Warn(LogMsgArtifactDuplicate,
				zap.String(LogFieldNamespace, def.Namespace),
				zap.String(LogFieldName, def.TypeName),
				zap.String(LogFieldSource, decl.Source.String()))
			skipped = append(skipped, SkippedDeclaration{
				Namespace: decl.Namespace,
				Name:      decl.Name,
				Reason:    SkipReasonDuplicateName,
				Source:    decl.Source,
			})
			continue
		}
		types[typeKey] = struct{}{}
		files[fileKey] = struct{}{}
		logger.Debug(LogMsgArtifactEmitted,
			zap.String(LogFieldNamespace, def.Namespace),
			zap.String(LogFieldName, def.TypeName),
			zap.Int(LogFieldParameters, len(def.Parameters)))
		defs = append(defs, def)
	}
	return defs, skipped, nil
}

// Generate compiles the source and writes every artifact to store. An
// artifact the back end cannot serialize is reported as skipped; the first
// store failure cancels the remaining work.
func (g *Generator) Generate(ctx context.Context, source DeclarationSource, store ArtifactStore) (*Report, error) {
	if store == nil {
		return nil, NewValidationError(ErrMsgGeneratorNoStore)
	}
	start := time.Now()
	runID := uuid.NewString()
	logger := g.config.logger.With(zap.String(LogFieldRunID, runID))

	defs, skipped, err := g.Compile(ctx, source)
	if err != nil {
		return nil, err
	}

	type outcome struct {
		record  ArtifactRecord
		written bool
		skipped *SkippedDeclaration
	}
	outcomes := make([]outcome, len(defs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.config.concurrency)
	for i := range defs {
		def := defs[i]
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			file, err := g.config.backend.Serialize(def)
			if err != nil {
				logger.Warn(LogMsgArtifactSkipped,
					zap.String(LogFieldNamespace, def.Namespace),
					zap.String(LogFieldName, def.TypeName),
					zap.String(LogFieldSource, def.Source.String()),
					zap.Error(err))
				outcomes[i] = outcome{skipped: &SkippedDeclaration{
					Namespace: def.Namespace,
					Name:      def.SourceName,
					Reason:    SkipReasonEmitFailed,
					Source:    def.Source,
				}}
				return nil
			}
			written, err := store.Put(egCtx, file)
			if err != nil {
				return NewWriteError(file, err)
			}

			msg := LogMsgArtifactUnchanged
			if written {
				msg = LogMsgArtifactWritten
			}
			logger.Debug(msg,
				zap.String(LogFieldNamespace, file.Namespace),
				zap.String(LogFieldName, file.TypeName),
				zap.String(LogFieldFile, file.FileName))

			outcomes[i] = outcome{
				record: ArtifactRecord{
					Namespace:   file.Namespace,
					TypeName:    file.TypeName,
					FileName:    file.FileName,
					Fingerprint: file.Fingerprint,
				},
				written: written,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:     runID,
		Backend:   g.config.backend.Name(),
		Written:   []ArtifactRecord{},
		Unchanged: []ArtifactRecord{},
		Skipped:   skipped,
	}
	for _, o := range outcomes {
		if o.skipped != nil {
			report.Skipped = append(report.Skipped, *o.skipped)
			continue
		}
		if o.written {
			report.Written = append(report.Written, o.record)
		} else {
			report.Unchanged = append(report.Unchanged, o.record)
		}
	}
	sortRecords(report.Written)
	sortRecords(report.Unchanged)
	report.Duration = time.Since(start)

	logger.Info(LogMsgGenerateComplete,
		zap.Int(LogFieldWritten, len(report.Written)),
		zap.Int(LogFieldUnchanged, len(report.Unchanged)),
		zap.Int(LogFieldSkipped, len(report.Skipped)),
		zap.Duration(LogFieldDuration, report.Duration))
	return report, nil
}

func sortRecords(records []ArtifactRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Namespace != records[j].Namespace {
			return records[i].Namespace < records[j].Namespace
		}
		return records[i].TypeName < records[j].TypeName
	})
}
