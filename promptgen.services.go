package promptgen

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ChatCompletion is a chat completion service: it answers a conversation
// with text. Implementations live in the backend packages.
type ChatCompletion interface {
	Complete(ctx context.Context, conv *Conversation, settings Settings) (string, error)
}

// ChatCompletionFunc adapts a function to ChatCompletion.
type ChatCompletionFunc func(ctx context.Context, conv *Conversation, settings Settings) (string, error)

// Complete calls f.
func (f ChatCompletionFunc) Complete(ctx context.Context, conv *Conversation, settings Settings) (string, error) {
	return f(ctx, conv, settings)
}

// ServiceRegistry holds chat completion services by ID with first-come-wins
// semantics. The first registered service is the default.
// It is safe for concurrent use.
type ServiceRegistry struct {
	services  map[string]ChatCompletion
	defaultID string
	mu        sync.RWMutex
	logger    *zap.Logger
}

// NewServiceRegistry creates an empty registry.
func NewServiceRegistry(logger *zap.Logger) *ServiceRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceRegistry{
		services: make(map[string]ChatCompletion),
		logger:   logger,
	}
}

// Register adds a service under id. A second registration for the same id
// is rejected and the first service is kept.
func (r *ServiceRegistry) Register(id string, svc ChatCompletion) error {
	if id == "" {
		return NewRegistryError(ErrMsgEmptyServiceID, id)
	}
	if svc == nil {
		return NewRegistryError(ErrMsgNilService, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.services[id]; exists {
		r.logger.Warn(LogMsgServiceCollision, zap.String(LogFieldServiceID, id))
		return NewRegistryError(ErrMsgServiceAlreadyExists, id)
	}

	r.services[id] = svc
	if r.defaultID == "" {
		r.defaultID = id
	}
	r.logger.Debug(LogMsgServiceRegistered, zap.String(LogFieldServiceID, id))
	return nil
}

// MustRegister adds a service and panics if registration fails.
func (r *ServiceRegistry) MustRegister(id string, svc ChatCompletion) {
	if err := r.Register(id, svc); err != nil {
		panic(err)
	}
}

// Get returns the service for id. An empty id selects the default service.
func (r *ServiceRegistry) Get(id string) (ChatCompletion, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id == "" {
		if r.defaultID == "" {
			return nil, "", NewNoDefaultServiceError()
		}
		id = r.defaultID
	}
	svc, ok := r.services[id]
	if !ok {
		return nil, "", NewServiceNotFoundError(id)
	}
	return svc, id, nil
}

// DefaultID returns the ID of the default service, or "" when empty.
func (r *ServiceRegistry) DefaultID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultID
}

// List returns all registered IDs in sorted order.
func (r *ServiceRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.services))
	for id := range r.services {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of registered services.
func (r *ServiceRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.services)
}

// Dispatch locates the service and sends it the conversation. Failures of
// the service are wrapped; a canceled context is reported as a
// cancellation.
func (r *ServiceRegistry) Dispatch(ctx context.Context, serviceID string, conv *Conversation, settings Settings) (string, error) {
	if conv.Len() == 0 {
		return "", NewValidationError(ErrMsgEmptyConversation)
	}
	svc, id, err := r.Get(serviceID)
	if err != nil {
		return "", err
	}

	r.logger.Debug(LogMsgDispatchStart,
		zap.String(LogFieldServiceID, id),
		zap.Int(LogFieldMessages, conv.Len()))
	start := time.Now()

	out, err := svc.Complete(ctx, conv, settings)
	if err != nil {
		r.logger.Debug(LogMsgDispatchFailed,
			zap.String(LogFieldServiceID, id),
			zap.Error(err))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", NewCanceledError(ctxErr)
		}
		return "", NewDispatchError(id, err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", NewCanceledError(ctxErr)
	}

	r.logger.Debug(LogMsgDispatchComplete,
		zap.String(LogFieldServiceID, id),
		zap.Duration(LogFieldDuration, time.Since(start)),
		zap.Int(LogFieldResponseLen, len(out)))
	return out, nil
}
