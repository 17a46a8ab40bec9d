package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/pickleball-league/internal/domain/match"
	"github.com/riskibarqy/pickleball-league/internal/domain/team"
	"github.com/riskibarqy/pickleball-league/internal/platform/logging"
)

// IdentityResolver maps candidate names to stored ids, creating unknown teams
// inside a known division.
type IdentityResolver struct {
	cache    *LookupCache
	teamRepo team.Repository
	logger   *logging.Logger
	timeout  time.Duration
	created  []team.Team
}

// NewIdentityResolver bounds every create call by timeout; zero means no bound.
func NewIdentityResolver(cache *LookupCache, teamRepo team.Repository, timeout time.Duration, logger *logging.Logger) *IdentityResolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &IdentityResolver{
		cache:    cache,
		teamRepo: teamRepo,
		logger:   logger,
		timeout:  timeout,
	}
}

// Resolve turns candidates into matches without ids. Rows that cannot be
// resolved come back as RowErrors in source order.
func (r *IdentityResolver) Resolve(ctx context.Context, candidates []MatchCandidate) ([]match.Match, []RowError) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IdentityResolver.Resolve")
	defer span.End()

	out := make([]match.Match, 0, len(candidates))
	var rowErrors []RowError
	for _, candidate := range candidates {
		div, ok := r.cache.FindDivision(candidate.Division)
		if !ok {
			rowErrors = append(rowErrors, RowError{Line: candidate.Line, Message: fmt.Sprintf("Division not found: %s", candidate.Division)})
			continue
		}

		team1, err := r.resolveTeam(ctx, div.ID, candidate.Team1)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: candidate.Line, Message: err.Error()})
			continue
		}
		team2, err := r.resolveTeam(ctx, div.ID, candidate.Team2)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: candidate.Line, Message: err.Error()})
			continue
		}
		if team1.ID == team2.ID {
			rowErrors = append(rowErrors, RowError{Line: candidate.Line, Message: fmt.Sprintf("team %q cannot play itself", team1.Name)})
			continue
		}

		out = append(out, match.Match{
			DivisionID:     div.ID,
			Team1ID:        team1.ID,
			Team2ID:        team2.ID,
			Date:           candidate.Date,
			Team1Wins:      candidate.Team1Wins,
			Team2Wins:      candidate.Team2Wins,
			Team1PointsFor: candidate.Team1PointsFor,
			Team2PointsFor: candidate.Team2PointsFor,
		})
	}

	return out, rowErrors
}

// Created lists the teams minted so far, in creation order.
func (r *IdentityResolver) Created() []team.Team {
	out := make([]team.Team, len(r.created))
	copy(out, r.created)
	return out
}

func (r *IdentityResolver) resolveTeam(ctx context.Context, divisionID, name string) (team.Team, error) {
	if item, ok := r.cache.FindTeam(divisionID, name); ok {
		return item, nil
	}

	callCtx, cancel := withStoreTimeout(ctx, r.timeout)
	defer cancel()

	created, err := r.teamRepo.Create(callCtx, team.NewTeam{Name: name, DivisionID: divisionID})
	if err != nil {
		r.logger.WarnContext(ctx, "auto create team failed", "team", name, "division_id", divisionID, "error", err)
		return team.Team{}, fmt.Errorf("create team %s failed: %v", name, err)
	}
	if err := created.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("create team %s failed: %v", name, err)
	}

	r.cache.AddTeam(created)
	r.created = append(r.created, created)
	r.logger.InfoContext(ctx, "auto created team", "team", created.Name, "team_id", created.ID, "division_id", divisionID)
	return created, nil
}
