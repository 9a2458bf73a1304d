package promptgen

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

// CleanJSONResponse trims raw and removes every "```json" and then every
// "```" fence so the remainder can be decoded.
func CleanJSONResponse(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, JSONFenceTagged, "")
	cleaned = strings.ReplaceAll(cleaned, JSONFenceBare, "")
	return cleaned
}

// ExecuteJSON executes p and decodes the cleaned response into T. Field
// names match case-insensitively. When the response does not decode the
// value is nil and the cleaned text is still returned without an error;
// only execution failures are errors.
func ExecuteJSON[T any](ctx context.Context, p Prompt, services *ServiceRegistry, opts ...ExecuteOption) (*T, string, error) {
	raw, err := Execute(ctx, p, services, opts...)
	if err != nil {
		return nil, "", err
	}

	cleaned := CleanJSONResponse(raw)
	var v T
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		services.logger.Debug(LogMsgStructuredDecodeFail,
			zap.Int(LogFieldResponseLen, len(cleaned)),
			zap.Error(err))
		return nil, cleaned, nil
	}
	return &v, cleaned, nil
}
