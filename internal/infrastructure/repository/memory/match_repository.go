package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/pickleball-league/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	matches []match.Match
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	return &MatchRepository{matches: append([]match.Match(nil), matches...)}
}

func (r *MatchRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.matches), nil
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]match.Match(nil), r.matches...), nil
}

func (r *MatchRepository) ListByDivision(_ context.Context, divisionID string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, item := range r.matches {
		if item.DivisionID == divisionID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *MatchRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.matches[:0]
	for _, item := range r.matches {
		if item.ID == match.NilID {
			kept = append(kept, item)
		}
	}
	r.matches = kept
	return nil
}

func (r *MatchRepository) InsertMany(_ context.Context, matches []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.matches = append(r.matches, matches...)
	return nil
}

func (r *MatchRepository) ReplaceAll(_ context.Context, matches []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.matches = append([]match.Match(nil), matches...)
	return nil
}
