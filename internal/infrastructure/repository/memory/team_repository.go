package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/pickleball-league/internal/domain/division"
	"github.com/riskibarqy/pickleball-league/internal/domain/team"
	"github.com/riskibarqy/pickleball-league/internal/platform/id"
)

type TeamRepository struct {
	mu    sync.RWMutex
	teams []team.Team
	idGen id.Generator
}

func NewTeamRepository(teams []team.Team, idGen id.Generator) *TeamRepository {
	if idGen == nil {
		idGen = id.NewUUIDGenerator()
	}
	return &TeamRepository{
		teams: append([]team.Team(nil), teams...),
		idGen: idGen,
	}
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]team.Team(nil), r.teams...), nil
}

func (r *TeamRepository) ListByDivision(_ context.Context, divisionID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0)
	for _, item := range r.teams {
		if item.DivisionID == divisionID {
			out = append(out, item)
		}
	}
	return out, nil
}

// Create mirrors the unique (division_id, lower(name)) index of the SQL schema.
func (r *TeamRepository) Create(_ context.Context, input team.NewTeam) (team.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || strings.TrimSpace(input.DivisionID) == "" {
		return team.Team{}, fmt.Errorf("team name and division id are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := division.NormalizeName(name)
	for _, item := range r.teams {
		if item.DivisionID == input.DivisionID && division.NormalizeName(item.Name) == key {
			return item, nil
		}
	}

	teamID, err := r.idGen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}
	created := team.Team{ID: teamID, Name: name, DivisionID: input.DivisionID}
	r.teams = append(r.teams, created)

	return created, nil
}
