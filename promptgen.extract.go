package promptgen

import (
	"go/token"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ExtractDeclarations turns candidates into declarations. A candidate
// qualifies when it is a textual constant carrying the template marker with
// a name and non-blank text. Candidates that do not qualify are skipped;
// extraction never fails. Source order is preserved.
func ExtractDeclarations(candidates []Candidate, opts ...Option) []Declaration {
	decls, _ := extract(candidates, applyOptions(opts))
	return decls
}

// extract is ExtractDeclarations that also reports what it skipped.
func extract(candidates []Candidate, cfg *generatorConfig) ([]Declaration, []SkippedDeclaration) {
	decls := make([]Declaration, 0, len(candidates))
	skipped := []SkippedDeclaration{}
	for _, c := range candidates {
		decl, reason, ok := extractOne(c, cfg.fallbackNamespace)
		if !ok {
			logSkip(cfg.logger, c, reason)
			skipped = append(skipped, SkippedDeclaration{
				Namespace: c.Namespace,
				Name:      c.Name,
				Reason:    reason,
				Source:    c.Position,
			})
			continue
		}
		cfg.logger.Debug(LogMsgDeclarationExtracted,
			zap.String(LogFieldNamespace, decl.Namespace),
			zap.String(LogFieldName, decl.Name),
			zap.String(LogFieldBehavior, decl.BaseBehavior))
		decls = append(decls, decl)
	}
	return decls, skipped
}

// logSkip reports a skipped candidate. Broken marker arguments are logged as
// warnings, everything else at debug level.
func logSkip(logger *zap.Logger, c Candidate, reason string) {
	fields := []zap.Field{
		zap.String(LogFieldName, c.Name),
		zap.String(LogFieldReason, reason),
		zap.String(LogFieldSource, c.Position.String()),
	}
	switch reason {
	case SkipReasonBadArgument, SkipReasonTooManyArgs:
		logger.Warn(LogMsgDeclarationSkipped, fields...)
	default:
		logger.Debug(LogMsgDeclarationSkipped, fields...)
	}
}

func extractOne(c Candidate, fallbackNamespace string) (Declaration, string, bool) {
	if c.Marker == nil || c.Marker.Name != MarkerName {
		return Declaration{}, SkipReasonNoMarker, false
	}
	if !c.IsConst {
		return Declaration{}, SkipReasonNotConst, false
	}
	if !c.IsText {
		return Declaration{}, SkipReasonNotText, false
	}
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return Declaration{}, SkipReasonMissingName, false
	}
	if strings.TrimSpace(c.Text) == "" {
		return Declaration{}, SkipReasonMissingText, false
	}

	settings, reason, ok := parseMarkerArgs(c.Marker.Args)
	if !ok {
		return Declaration{}, reason, false
	}

	namespace := strings.TrimSpace(c.Namespace)
	if namespace == "" {
		namespace = fallbackNamespace
	}
	behavior := strings.TrimSpace(c.Marker.Behavior)
	if behavior == "" {
		behavior = BehaviorStandard
	}
	// Custom behaviors name a type in the host package.
	if !token.IsIdentifier(behavior) {
		return Declaration{}, SkipReasonBadBehavior, false
	}

	return Declaration{
		Namespace:    namespace,
		Name:         name,
		RawText:      c.Text,
		BaseBehavior: behavior,
		MaxTokens:    settings.MaxTokens,
		Temperature:  settings.Temperature,
		TopP:         settings.TopP,
		Source:       c.Position,
	}, "", true
}

// parseMarkerArgs reads the positional (maxTokens, temperature, topP)
// arguments. Omitted or blank arguments keep their defaults. maxTokens must
// not be negative and the floats must be finite.
func parseMarkerArgs(args []string) (Settings, string, bool) {
	settings := DefaultSettings()
	if len(args) > MaxMarkerArgs {
		return settings, SkipReasonTooManyArgs, false
	}
	for i, raw := range args {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		var err error
		switch i {
		case ArgIndexMaxTokens:
			settings.MaxTokens, err = strconv.Atoi(raw)
			if err == nil && settings.MaxTokens < 0 {
				err = strconv.ErrRange
			}
		case ArgIndexTemperature:
			settings.Temperature, err = parseFiniteFloat(raw)
		case ArgIndexTopP:
			settings.TopP, err = parseFiniteFloat(raw)
		}
		if err != nil {
			return settings, SkipReasonBadArgument, false
		}
	}
	return settings, "", true
}

// parseFiniteFloat is strconv.ParseFloat without NaN and infinities, which
// have no Go literal.
func parseFiniteFloat(raw string) (float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrSyntax
	}
	return f, nil
}
