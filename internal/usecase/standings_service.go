package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/pickleball-league/internal/domain/division"
	"github.com/riskibarqy/pickleball-league/internal/domain/match"
	"github.com/riskibarqy/pickleball-league/internal/domain/standing"
	"github.com/riskibarqy/pickleball-league/internal/domain/team"
	"github.com/riskibarqy/pickleball-league/internal/platform/cache"
	"github.com/sourcegraph/conc/pool"
)

const overviewMaxGoroutines = 4

type DivisionSummary struct {
	Division division.Division
	Teams    []team.Team
}

type DivisionStandings struct {
	Division division.Division
	Entries  []standing.Entry
}

// StandingsService serves every read surface from the single aggregation in
// package standing.
type StandingsService struct {
	divisionRepo division.Repository
	teamRepo     team.Repository
	matchRepo    match.Repository
	cache        *cache.Store
	policy       standing.TieBreak
}

// NewStandingsService caches derived tables in store when it is non-nil.
func NewStandingsService(
	divisionRepo division.Repository,
	teamRepo team.Repository,
	matchRepo match.Repository,
	store *cache.Store,
	policy standing.TieBreak,
) *StandingsService {
	return &StandingsService{
		divisionRepo: divisionRepo,
		teamRepo:     teamRepo,
		matchRepo:    matchRepo,
		cache:        store,
		policy:       standing.ParseTieBreak(string(policy)),
	}
}

func (s *StandingsService) Policy() standing.TieBreak {
	return s.policy
}

func (s *StandingsService) ListDivisions(ctx context.Context) ([]DivisionSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ListDivisions")
	defer span.End()

	divisions, err := s.divisionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list divisions: %w", err)
	}
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	byDivision := make(map[string][]team.Team, len(divisions))
	for _, item := range teams {
		byDivision[item.DivisionID] = append(byDivision[item.DivisionID], item)
	}

	out := make([]DivisionSummary, 0, len(divisions))
	for _, item := range sortDivisions(divisions) {
		members := byDivision[item.ID]
		sort.SliceStable(members, func(i, j int) bool {
			return strings.ToLower(members[i].Name) < strings.ToLower(members[j].Name)
		})
		out = append(out, DivisionSummary{Division: item, Teams: members})
	}
	return out, nil
}

// ResolveDivision accepts a division id, its name, or an abbreviated name such as "B3".
func (s *StandingsService) ResolveDivision(ctx context.Context, ref string) (division.Division, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ResolveDivision")
	defer span.End()

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return division.Division{}, fmt.Errorf("%w: division is required", ErrInvalidInput)
	}

	divisions, err := s.divisionRepo.List(ctx)
	if err != nil {
		return division.Division{}, fmt.Errorf("list divisions: %w", err)
	}

	normalized := division.NormalizeName(ref)
	fallback := division.FallbackName(ref)
	var byFallback *division.Division
	for idx := range divisions {
		item := divisions[idx]
		if item.ID == ref || division.NormalizeName(item.Name) == normalized {
			return item, nil
		}
		if byFallback == nil && division.NormalizeName(item.Name) == fallback {
			byFallback = &divisions[idx]
		}
	}
	if byFallback != nil {
		return *byFallback, nil
	}
	return division.Division{}, fmt.Errorf("%w: division %q", ErrNotFound, ref)
}

func (s *StandingsService) Standings(ctx context.Context, divisionRef string) (DivisionStandings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Standings")
	defer span.End()

	div, err := s.ResolveDivision(ctx, divisionRef)
	if err != nil {
		return DivisionStandings{}, err
	}
	entries, err := s.standingsFor(ctx, div)
	if err != nil {
		return DivisionStandings{}, err
	}
	return DivisionStandings{Division: div, Entries: entries}, nil
}

func (s *StandingsService) Results(ctx context.Context, divisionRef string) (division.Division, []standing.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Results")
	defer span.End()

	div, err := s.ResolveDivision(ctx, divisionRef)
	if err != nil {
		return division.Division{}, nil, err
	}
	teams, matches, err := s.divisionData(ctx, div.ID)
	if err != nil {
		return division.Division{}, nil, err
	}
	return div, standing.BuildResults(teams, matches), nil
}

// TeamStats looks the team up by id or case-insensitive name inside the division.
func (s *StandingsService) TeamStats(ctx context.Context, divisionRef, teamRef string) (standing.TeamStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.TeamStats")
	defer span.End()

	teamRef = strings.TrimSpace(teamRef)
	if teamRef == "" {
		return standing.TeamStats{}, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}

	div, err := s.ResolveDivision(ctx, divisionRef)
	if err != nil {
		return standing.TeamStats{}, err
	}
	teams, matches, err := s.divisionData(ctx, div.ID)
	if err != nil {
		return standing.TeamStats{}, err
	}

	normalized := division.NormalizeName(teamRef)
	for _, stats := range standing.BuildTeamStats(teams, matches) {
		if stats.TeamID == teamRef || division.NormalizeName(stats.Team) == normalized {
			return stats, nil
		}
	}
	return standing.TeamStats{}, fmt.Errorf("%w: team %q in %s", ErrNotFound, teamRef, div.Name)
}

// LeagueOverview computes every division's table concurrently, ordered by division name.
func (s *StandingsService) LeagueOverview(ctx context.Context) ([]DivisionStandings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.LeagueOverview")
	defer span.End()

	divisions, err := s.divisionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list divisions: %w", err)
	}

	p := pool.NewWithResults[DivisionStandings]().
		WithContext(ctx).
		WithMaxGoroutines(overviewMaxGoroutines).
		WithCancelOnError()
	for _, item := range divisions {
		p.Go(func(ctx context.Context) (DivisionStandings, error) {
			entries, err := s.standingsFor(ctx, item)
			if err != nil {
				return DivisionStandings{}, err
			}
			return DivisionStandings{Division: item, Entries: entries}, nil
		})
	}

	out, err := p.Wait()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return divisionLess(out[i].Division, out[j].Division)
	})
	return out, nil
}

func (s *StandingsService) standingsFor(ctx context.Context, div division.Division) ([]standing.Entry, error) {
	key := "standings:" + string(s.policy) + ":" + div.ID
	return cache.Load(ctx, s.cache, key, func(ctx context.Context) ([]standing.Entry, error) {
		teams, matches, err := s.divisionData(ctx, div.ID)
		if err != nil {
			return nil, err
		}
		return standing.Build(teams, matches, s.policy), nil
	})
}

func (s *StandingsService) divisionData(ctx context.Context, divisionID string) ([]team.Team, []match.Match, error) {
	teams, err := s.teamRepo.ListByDivision(ctx, divisionID)
	if err != nil {
		return nil, nil, fmt.Errorf("list teams by division: %w", err)
	}
	matches, err := s.matchRepo.ListByDivision(ctx, divisionID)
	if err != nil {
		return nil, nil, fmt.Errorf("list matches by division: %w", err)
	}
	return teams, matches, nil
}

func sortDivisions(divisions []division.Division) []division.Division {
	out := make([]division.Division, len(divisions))
	copy(out, divisions)
	sort.SliceStable(out, func(i, j int) bool {
		return divisionLess(out[i], out[j])
	})
	return out
}

func divisionLess(a, b division.Division) bool {
	nameA, nameB := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if nameA != nameB {
		return nameA < nameB
	}
	return a.ID < b.ID
}
