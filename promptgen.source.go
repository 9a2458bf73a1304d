package promptgen

import (
	"context"
)

// DeclarationSource offers candidate declarations from a host. Sources are
// expected to return candidates in source order.
type DeclarationSource interface {
	Discover(ctx context.Context) ([]Candidate, error)
}

// StaticSource is a DeclarationSource over an in-memory candidate list.
type StaticSource []Candidate

// Discover returns a copy of the candidates.
func (s StaticSource) Discover(ctx context.Context) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Candidate, len(s))
	copy(out, s)
	return out, nil
}

// MultiSource concatenates the candidates of several sources in order.
type MultiSource []DeclarationSource

// Discover queries each source in turn and stops at the first error.
func (m MultiSource) Discover(ctx context.Context) ([]Candidate, error) {
	var all []Candidate
	for _, src := range m {
		if src == nil {
			continue
		}
		cands, err := src.Discover(ctx)
		if err != nil {
			return nil, err
		}
		all = append(all, cands...)
	}
	return all, nil
}
