package promptgen

import (
	"context"
	"sync"
)

// Shared test fixtures
const (
	testNamespace   = "capitol"
	testCapitolText = "What is the capital of {{$state}}? Answer in {{$words:int}} words."
	testCapitolNorm = "What is the capital of {{$state}}? Answer in {{$words}} words."
)

// marked returns a qualifying candidate carrying the template marker.
func marked(name, text string, args ...string) Candidate {
	return Candidate{
		Name:      name,
		Text:      text,
		IsConst:   true,
		IsText:    true,
		Namespace: testNamespace,
		Marker:    &Marker{Name: MarkerName, Args: args},
	}
}

// withBehavior sets the marker behavior of c.
func withBehavior(c Candidate, behavior string) Candidate {
	m := *c.Marker
	m.Behavior = behavior
	c.Marker = &m
	return c
}

// recordingService is a ChatCompletion that records conversations.
type recordingService struct {
	mu       sync.Mutex
	reply    string
	err      error
	convs    []*Conversation
	settings []Settings
}

func (s *recordingService) Complete(ctx context.Context, conv *Conversation, settings Settings) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convs = append(s.convs, conv.Clone())
	s.settings = append(s.settings, settings)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *recordingService) last() *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.convs) == 0 {
		return nil
	}
	return s.convs[len(s.convs)-1]
}
