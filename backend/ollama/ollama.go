// Package ollama implements promptgen.ChatCompletion on a local Ollama server.
package ollama

import (
	"context"
	"strings"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-promptgen"
	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

// Ollama option keys
const (
	OptionNumPredict  = "num_predict"
	OptionTemperature = "temperature"
	OptionTopP        = "top_p"
)

// Error constants
const (
	ErrCodeOllama      = "PROMPTGEN_OLLAMA"
	ErrMsgMissingModel = "ollama model is required"
	ErrMsgClientFailed = "failed to create ollama client"
)

// Log constants
const (
	LogMsgRequest        = "ollama chat request"
	LogFieldModel        = "model"
	LogFieldMessageCount = "message_count"
)

// chatClient is the subset of *api.Client used by Service.
type chatClient interface {
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

// Service sends conversations to an Ollama model.
type Service struct {
	client chatClient
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

// New creates a service for model. The server address comes from
// OLLAMA_HOST, defaulting to the local server.
func New(model string, opts ...Option) (*Service, error) {
	if model == "" {
		return nil, cuserr.NewValidationError(ErrCodeOllama, ErrMsgMissingModel)
	}
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeOllama, ErrMsgClientFailed)
	}
	return newService(client, model, opts...), nil
}

func newService(client chatClient, model string, opts ...Option) *Service {
	s := &Service{client: client, model: model, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Complete sends a non-streaming chat request and returns the reply.
func (s *Service) Complete(ctx context.Context, conv *promptgen.Conversation, settings promptgen.Settings) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model:    s.model,
		Messages: toMessages(conv),
		Stream:   &stream,
		Options: map[string]any{
			OptionNumPredict:  settings.MaxTokens,
			OptionTemperature: settings.Temperature,
			OptionTopP:        settings.TopP,
		},
	}

	s.logger.Debug(LogMsgRequest,
		zap.String(LogFieldModel, s.model),
		zap.Int(LogFieldMessageCount, conv.Len()))

	var out strings.Builder
	err := s.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		out.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

func toMessages(conv *promptgen.Conversation) []api.Message {
	msgs := make([]api.Message, 0, conv.Len())
	for _, m := range conv.Messages {
		msgs = append(msgs, api.Message{Role: string(m.Role), Content: m.Content})
	}
	return msgs
}

var _ promptgen.ChatCompletion = (*Service)(nil)
