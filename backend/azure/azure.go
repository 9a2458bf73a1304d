// Package azure implements promptgen.ChatCompletion on Azure OpenAI.
package azure

import (
	"context"
	"errors"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-promptgen"
	"go.uber.org/zap"
)

// Environment variables read by NewFromEnv
const (
	EnvEndpoint   = "AZURE_OPENAI_ENDPOINT"
	EnvAPIKey     = "AZURE_OPENAI_KEY"
	EnvDeployment = "AZURE_OPENAI_DEPLOYMENT"
)

// Error constants
const (
	ErrCodeAzure            = "PROMPTGEN_AZURE"
	ErrMsgMissingEndpoint   = "azure openai endpoint is required"
	ErrMsgMissingAPIKey     = "azure openai api key is required"
	ErrMsgMissingDeployment = "azure openai deployment is required"
	ErrMsgClientFailed      = "failed to create azure openai client"
	ErrMsgNoChoices         = "azure openai returned no completion"
	MetaKeyDeployment       = "deployment"
)

// Log constants
const (
	LogMsgRequest        = "azure openai chat request"
	LogFieldDeployment   = "deployment"
	LogFieldMessageCount = "message_count"
)

// chatClient is the subset of *azopenai.Client used by Service.
type chatClient interface {
	GetChatCompletions(ctx context.Context, body azopenai.ChatCompletionsOptions, options *azopenai.GetChatCompletionsOptions) (azopenai.GetChatCompletionsResponse, error)
}

// Service sends conversations to an Azure OpenAI deployment.
type Service struct {
	client     chatClient
	deployment string
	logger     *zap.Logger
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

// New creates a service using key authentication.
func New(endpoint, apiKey, deployment string, opts ...Option) (*Service, error) {
	switch {
	case endpoint == "":
		return nil, cuserr.NewValidationError(ErrCodeAzure, ErrMsgMissingEndpoint)
	case apiKey == "":
		return nil, cuserr.NewValidationError(ErrCodeAzure, ErrMsgMissingAPIKey)
	case deployment == "":
		return nil, cuserr.NewValidationError(ErrCodeAzure, ErrMsgMissingDeployment)
	}

	client, err := azopenai.NewClientWithKeyCredential(endpoint, azcore.NewKeyCredential(apiKey), nil)
	if err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeAzure, ErrMsgClientFailed)
	}
	return newService(client, deployment, opts...), nil
}

// NewFromEnv creates a service from AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_KEY
// and AZURE_OPENAI_DEPLOYMENT.
func NewFromEnv(opts ...Option) (*Service, error) {
	return New(os.Getenv(EnvEndpoint), os.Getenv(EnvAPIKey), os.Getenv(EnvDeployment), opts...)
}

func newService(client chatClient, deployment string, opts ...Option) *Service {
	s := &Service{
		client:     client,
		deployment: deployment,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Complete sends the conversation and returns the first choice's content.
func (s *Service) Complete(ctx context.Context, conv *promptgen.Conversation, settings promptgen.Settings) (string, error) {
	body := azopenai.ChatCompletionsOptions{
		DeploymentName: to.Ptr(s.deployment),
		Messages:       toMessages(conv),
		MaxTokens:      to.Ptr(int32(settings.MaxTokens)),
		Temperature:    to.Ptr(float32(settings.Temperature)),
		TopP:           to.Ptr(float32(settings.TopP)),
	}

	s.logger.Debug(LogMsgRequest,
		zap.String(LogFieldDeployment, s.deployment),
		zap.Int(LogFieldMessageCount, conv.Len()))

	resp, err := s.client.GetChatCompletions(ctx, body, nil)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil || resp.Choices[0].Message.Content == nil {
		return "", cuserr.NewInternalError(ErrCodeAzure, errors.New(ErrMsgNoChoices)).
			WithMetadata(MetaKeyDeployment, s.deployment)
	}
	return *resp.Choices[0].Message.Content, nil
}

func toMessages(conv *promptgen.Conversation) []azopenai.ChatRequestMessageClassification {
	msgs := make([]azopenai.ChatRequestMessageClassification, 0, conv.Len())
	for _, m := range conv.Messages {
		switch m.Role {
		case promptgen.RoleSystem:
			msgs = append(msgs, &azopenai.ChatRequestSystemMessage{
				Content: azopenai.NewChatRequestSystemMessageContent(m.Content),
			})
		case promptgen.RoleAssistant:
			msgs = append(msgs, &azopenai.ChatRequestAssistantMessage{
				Content: azopenai.NewChatRequestAssistantMessageContent(m.Content),
			})
		default:
			msgs = append(msgs, &azopenai.ChatRequestUserMessage{
				Content: azopenai.NewChatRequestUserMessageContent(m.Content),
			})
		}
	}
	return msgs
}

var _ promptgen.ChatCompletion = (*Service)(nil)
