// Package gemini implements promptgen.ChatCompletion on Google Gemini.
package gemini

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-promptgen"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// EnvAPIKey is read by New when no key is given.
const EnvAPIKey = "GEMINI_API_KEY"

// Error constants
const (
	ErrCodeGemini      = "PROMPTGEN_GEMINI"
	ErrMsgMissingKey   = "gemini api key is required"
	ErrMsgMissingModel = "gemini model is required"
	ErrMsgClientFailed = "failed to create gemini client"
	ErrMsgNoContent    = "gemini returned no content"
	MetaKeyModel       = "model"
)

// Log constants
const (
	LogMsgRequest        = "gemini generate content request"
	LogFieldModel        = "model"
	LogFieldMessageCount = "message_count"
)

// contentGenerator is the subset of *genai.Models used by Service.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Service sends conversations to a Gemini model.
type Service struct {
	models contentGenerator
	model  string
	logger *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a service for model. An empty apiKey falls back to
// GEMINI_API_KEY.
func New(ctx context.Context, apiKey, model string, opts ...Option) (*Service, error) {
	if apiKey == "" {
		apiKey = os.Getenv(EnvAPIKey)
	}
	if apiKey == "" {
		return nil, cuserr.NewValidationError(ErrCodeGemini, ErrMsgMissingKey)
	}
	if model == "" {
		return nil, cuserr.NewValidationError(ErrCodeGemini, ErrMsgMissingModel)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeGemini, ErrMsgClientFailed)
	}
	return newService(client.Models, model, opts...), nil
}

func newService(models contentGenerator, model string, opts ...Option) *Service {
	s := &Service{models: models, model: model, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Complete sends the conversation and returns the generated text. System
// messages become the system instruction; assistant turns use the model role.
func (s *Service) Complete(ctx context.Context, conv *promptgen.Conversation, settings promptgen.Settings) (string, error) {
	contents, system := toContents(conv)
	config := &genai.GenerateContentConfig{
		MaxOutputTokens:   int32(settings.MaxTokens),
		Temperature:       genai.Ptr(float32(settings.Temperature)),
		TopP:              genai.Ptr(float32(settings.TopP)),
		SystemInstruction: system,
	}

	s.logger.Debug(LogMsgRequest,
		zap.String(LogFieldModel, s.model),
		zap.Int(LogFieldMessageCount, conv.Len()))

	resp, err := s.models.GenerateContent(ctx, s.model, contents, config)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", cuserr.NewInternalError(ErrCodeGemini, errors.New(ErrMsgNoContent)).
			WithMetadata(MetaKeyModel, s.model)
	}
	return text, nil
}

func toContents(conv *promptgen.Conversation) ([]*genai.Content, *genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, conv.Len())
	for _, m := range conv.Messages {
		switch m.Role {
		case promptgen.RoleSystem:
			system = append(system, m.Content)
		case promptgen.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	if len(system) == 0 {
		return contents, nil
	}
	return contents, genai.NewContentFromText(strings.Join(system, "\n"), genai.RoleUser)
}

var _ promptgen.ChatCompletion = (*Service)(nil)
