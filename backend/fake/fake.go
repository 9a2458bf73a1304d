// Package fake provides a scripted promptgen.ChatCompletion for tests and
// dry runs.
package fake

import (
	"context"
	"errors"
	"sync"

	"github.com/itsatony/go-promptgen"
)

// ErrNoResponses is returned when the service has nothing scripted.
var ErrNoResponses = errors.New("fake: no responses configured")

// Service cycles through scripted responses and records every call.
type Service struct {
	mu        sync.Mutex
	responses []string
	err       error
	index     int
	calls     []Call
}

// Call is one recorded Complete invocation.
type Call struct {
	Conversation *promptgen.Conversation
	Settings     promptgen.Settings
}

// New creates a service answering with responses in order, wrapping around.
func New(responses ...string) *Service {
	return &Service{responses: responses}
}

// NewFailing creates a service whose every call fails with err.
func NewFailing(err error) *Service {
	return &Service{err: err}
}

// Complete records the call and returns the next response. It honors
// context cancellation.
func (s *Service) Complete(ctx context.Context, conv *promptgen.Conversation, settings promptgen.Settings) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, Call{Conversation: conv.Clone(), Settings: settings})

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", ErrNoResponses
	}

	resp := s.responses[s.index]
	s.index = (s.index + 1) % len(s.responses)
	return resp, nil
}

// AddResponse appends a scripted response.
func (s *Service) AddResponse(response string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, response)
}

// Calls returns the recorded calls.
func (s *Service) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns the number of recorded calls.
func (s *Service) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// LastCall returns the most recent call.
func (s *Service) LastCall() (Call, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return Call{}, false
	}
	return s.calls[len(s.calls)-1], true
}

// Reset clears recorded calls and restarts the response cycle.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
	s.calls = nil
}

var _ promptgen.ChatCompletion = (*Service)(nil)
