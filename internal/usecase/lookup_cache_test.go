package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/pickleball-league/internal/domain/division"
	"github.com/riskibarqy/pickleball-league/internal/domain/team"
	"github.com/riskibarqy/pickleball-league/internal/infrastructure/repository/memory"
	divisionmock "github.com/riskibarqy/pickleball-league/internal/mocks/domain/division"
	teammock "github.com/riskibarqy/pickleball-league/internal/mocks/domain/team"
	"github.com/stretchr/testify/mock"
)

func newSeededLookupCache(t *testing.T) *LookupCache {
	t.Helper()

	cache, err := LoadLookupCache(
		context.Background(),
		memory.NewDivisionRepository(memory.SeedDivisions()),
		memory.NewTeamRepository(memory.SeedTeams(), nil),
	)
	if err != nil {
		t.Fatalf("load lookup cache: %v", err)
	}
	return cache
}

func TestLookupCache_FindDivisionFallback(t *testing.T) {
	t.Parallel()

	cache := newSeededLookupCache(t)

	got, ok := cache.FindDivision("B3")
	if !ok || got.ID != memory.DivisionIDB3 {
		t.Fatalf("expected B3 to resolve to Division B3, got %+v ok=%v", got, ok)
	}
	got, ok = cache.FindDivision("Division A")
	if !ok || got.ID != memory.DivisionIDA {
		t.Fatalf("expected direct match for Division A, got %+v ok=%v", got, ok)
	}
	got, ok = cache.FindDivision("  division a ")
	if !ok || got.ID != memory.DivisionIDA {
		t.Fatalf("expected case-insensitive match, got %+v ok=%v", got, ok)
	}
	if _, ok := cache.FindDivision("C9"); ok {
		t.Fatalf("expected unknown division to miss")
	}
}

func TestLookupCache_FindDivisionPrefersLiteralName(t *testing.T) {
	t.Parallel()

	divisions := []division.Division{
		{ID: "d-long", Name: "Division B3"},
		{ID: "d-short", Name: "B3"},
	}
	cache, err := LoadLookupCache(context.Background(), memory.NewDivisionRepository(divisions), memory.NewTeamRepository(nil, nil))
	if err != nil {
		t.Fatalf("load lookup cache: %v", err)
	}
	got, _ := cache.FindDivision("b3")
	if got.ID != "d-short" {
		t.Fatalf("expected literal name to win, got %+v", got)
	}
}

func TestLookupCache_TeamsScopedByDivision(t *testing.T) {
	t.Parallel()

	cache := newSeededLookupCache(t)

	if _, ok := cache.FindTeam(memory.DivisionIDA, "net ninjas"); ok {
		t.Fatalf("team from another division must not resolve")
	}
	if got, ok := cache.FindTeam(memory.DivisionIDB3, " NET NINJAS "); !ok || got.Name != "Net Ninjas" {
		t.Fatalf("expected case-insensitive team match, got %+v ok=%v", got, ok)
	}

	cache.AddTeam(team.Team{ID: "t-new", Name: "Net Ninjas", DivisionID: memory.DivisionIDA})
	if got, ok := cache.FindTeam(memory.DivisionIDA, "Net Ninjas"); !ok || got.ID != "t-new" {
		t.Fatalf("expected same name allowed in another division, got %+v", got)
	}
	if len(cache.Teams()) != len(memory.SeedTeams())+1 {
		t.Fatalf("unexpected team count: %d", len(cache.Teams()))
	}
}

func TestLoadLookupCache_Failures(t *testing.T) {
	t.Parallel()

	t.Run("division fetch error", func(t *testing.T) {
		divisionRepo := divisionmock.NewRepository(t)
		teamRepo := teammock.NewRepository(t)
		divisionRepo.On("List", mock.Anything).Return(nil, errors.New("boom")).Once()

		if _, err := LoadLookupCache(context.Background(), divisionRepo, teamRepo); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("malformed team row", func(t *testing.T) {
		divisionRepo := divisionmock.NewRepository(t)
		teamRepo := teammock.NewRepository(t)
		divisionRepo.On("List", mock.Anything).Return([]division.Division{{ID: "d1", Name: "Division A"}}, nil).Once()
		teamRepo.On("List", mock.Anything).Return([]team.Team{{ID: "t1", Name: "No Division"}}, nil).Once()

		if _, err := LoadLookupCache(context.Background(), divisionRepo, teamRepo); err == nil {
			t.Fatalf("expected malformed team to fail the load")
		}
	})
}
