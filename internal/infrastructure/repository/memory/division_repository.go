package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/pickleball-league/internal/domain/division"
)

type DivisionRepository struct {
	mu        sync.RWMutex
	divisions []division.Division
}

func NewDivisionRepository(divisions []division.Division) *DivisionRepository {
	items := append([]division.Division(nil), divisions...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})
	return &DivisionRepository{divisions: items}
}

func (r *DivisionRepository) List(_ context.Context) ([]division.Division, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]division.Division(nil), r.divisions...), nil
}
