package promptgen

import (
	"context"
)

// HistoryFunc customizes the conversation before it is dispatched, usually
// by adding system instructions or earlier turns.
type HistoryFunc func(conv *Conversation)

// Behavior is the execution runtime a prompt inherits. Generated artifacts
// embed Standard, HistoryCustomizable or a user type that implements
// Behavior (typically by embedding one of the two).
type Behavior interface {
	// BuildConversation builds the conversation for rendered text.
	BuildConversation(text string, history HistoryFunc) *Conversation

	// Dispatch sends the conversation to the selected service.
	Dispatch(ctx context.Context, services *ServiceRegistry, serviceID string, conv *Conversation, settings Settings) (string, error)
}

// Prompt is an executable prompt: rendered text, settings and a behavior.
type Prompt interface {
	Behavior
	Text() string
	Settings() Settings
}

// Standard sends the rendered text as a single user message. A history
// callback passed to ExecuteWithHistory runs after the user message is added.
type Standard struct{}

// BuildConversation returns the user message, adjusted by history when set.
func (Standard) BuildConversation(text string, history HistoryFunc) *Conversation {
	conv := NewConversation().AddUser(text)
	if history != nil {
		history(conv)
	}
	return conv
}

// Dispatch sends the conversation through the registry.
func (Standard) Dispatch(ctx context.Context, services *ServiceRegistry, serviceID string, conv *Conversation, settings Settings) (string, error) {
	return services.Dispatch(ctx, serviceID, conv, settings)
}

// HistoryCustomizable adds the user message and then lets the caller's
// history callback adjust the conversation.
type HistoryCustomizable struct{}

// BuildConversation adds the user message and applies history when set.
func (HistoryCustomizable) BuildConversation(text string, history HistoryFunc) *Conversation {
	conv := NewConversation().AddUser(text)
	if history != nil {
		history(conv)
	}
	return conv
}

// Dispatch sends the conversation through the registry.
func (HistoryCustomizable) Dispatch(ctx context.Context, services *ServiceRegistry, serviceID string, conv *Conversation, settings Settings) (string, error) {
	return services.Dispatch(ctx, serviceID, conv, settings)
}

// ExecuteOption configures a single execution.
type ExecuteOption func(*executeConfig)

type executeConfig struct {
	serviceID string
	history   HistoryFunc
}

// WithServiceID selects a registered service instead of the default one.
func WithServiceID(id string) ExecuteOption {
	return func(c *executeConfig) {
		c.serviceID = id
	}
}

// WithHistory sets the history callback passed to BuildConversation.
func WithHistory(fn HistoryFunc) ExecuteOption {
	return func(c *executeConfig) {
		c.history = fn
	}
}

// Execute renders p, builds its conversation and dispatches it once.
// A canceled context yields an error, never a partial result.
func Execute(ctx context.Context, p Prompt, services *ServiceRegistry, opts ...ExecuteOption) (string, error) {
	if p == nil {
		return "", NewValidationError(ErrMsgNilPrompt)
	}
	if services == nil {
		return "", NewValidationError(ErrMsgNilServices)
	}
	cfg := &executeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if err := ctx.Err(); err != nil {
		return "", NewCanceledError(err)
	}

	conv := p.BuildConversation(p.Text(), cfg.history)
	return p.Dispatch(ctx, services, cfg.serviceID, conv, p.Settings())
}

// ExecuteWithHistory is Execute with a history callback. A nil callback
// makes it equivalent to Execute.
func ExecuteWithHistory(ctx context.Context, p Prompt, services *ServiceRegistry, fn HistoryFunc, opts ...ExecuteOption) (string, error) {
	return Execute(ctx, p, services, append(opts, WithHistory(fn))...)
}
