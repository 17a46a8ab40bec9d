package cache

import (
	"context"

	"github.com/riskibarqy/pickleball-league/internal/domain/division"
	"github.com/riskibarqy/pickleball-league/internal/domain/match"
	"github.com/riskibarqy/pickleball-league/internal/domain/team"
	basecache "github.com/riskibarqy/pickleball-league/internal/platform/cache"
)

const (
	keyDivisionList    = "division:list"
	keyTeamList        = "team:list"
	keyTeamPrefix      = "team:"
	keyTeamByDivision  = "team:division:"
	keyMatchCount      = "match:count"
	keyMatchList       = "match:list"
	keyMatchPrefix     = "match:"
	keyMatchByDivision = "match:division:"
)

type DivisionRepository struct {
	next  division.Repository
	cache *basecache.Store
}

func NewDivisionRepository(next division.Repository, cache *basecache.Store) *DivisionRepository {
	return &DivisionRepository{next: next, cache: cache}
}

func (r *DivisionRepository) List(ctx context.Context) ([]division.Division, error) {
	items, err := basecache.Load(ctx, r.cache, keyDivisionList, r.next.List)
	if err != nil {
		return nil, err
	}
	return append([]division.Division(nil), items...), nil
}

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	items, err := basecache.Load(ctx, r.cache, keyTeamList, r.next.List)
	if err != nil {
		return nil, err
	}
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) ListByDivision(ctx context.Context, divisionID string) ([]team.Team, error) {
	items, err := basecache.Load(ctx, r.cache, keyTeamByDivision+divisionID, func(ctx context.Context) ([]team.Team, error) {
		return r.next.ListByDivision(ctx, divisionID)
	})
	if err != nil {
		return nil, err
	}
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) Create(ctx context.Context, input team.NewTeam) (team.Team, error) {
	created, err := r.next.Create(ctx, input)
	if err != nil {
		return team.Team{}, err
	}
	r.cache.DeletePrefix(ctx, keyTeamPrefix)
	return created, nil
}

type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	return basecache.Load(ctx, r.cache, keyMatchCount, r.next.Count)
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	items, err := basecache.Load(ctx, r.cache, keyMatchList, r.next.List)
	if err != nil {
		return nil, err
	}
	return append([]match.Match(nil), items...), nil
}

func (r *MatchRepository) ListByDivision(ctx context.Context, divisionID string) ([]match.Match, error) {
	items, err := basecache.Load(ctx, r.cache, keyMatchByDivision+divisionID, func(ctx context.Context) ([]match.Match, error) {
		return r.next.ListByDivision(ctx, divisionID)
	})
	if err != nil {
		return nil, err
	}
	return append([]match.Match(nil), items...), nil
}

func (r *MatchRepository) DeleteAll(ctx context.Context) error {
	defer r.cache.DeletePrefix(ctx, keyMatchPrefix)
	return r.next.DeleteAll(ctx)
}

func (r *MatchRepository) InsertMany(ctx context.Context, matches []match.Match) error {
	defer r.cache.DeletePrefix(ctx, keyMatchPrefix)
	return r.next.InsertMany(ctx, matches)
}
