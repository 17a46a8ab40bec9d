package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/pickleball-league/internal/domain/division"
	"github.com/riskibarqy/pickleball-league/internal/domain/team"
)

// LookupCache is the division and team snapshot of one ingestion run.
// It is not safe for concurrent use.
type LookupCache struct {
	divisions      []division.Division
	divisionByName map[string]division.Division
	teams          []team.Team
	teamByKey      map[string]team.Team
}

// LoadLookupCache fetches every division and team once. Any fetch failure or
// malformed row fails the whole load.
func LoadLookupCache(ctx context.Context, divisions division.Repository, teams team.Repository) (*LookupCache, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LoadLookupCache")
	defer span.End()

	divisionRows, err := divisions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list divisions: %w", err)
	}
	teamRows, err := teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	cache := &LookupCache{
		divisions:      make([]division.Division, 0, len(divisionRows)),
		divisionByName: make(map[string]division.Division, len(divisionRows)),
		teams:          make([]team.Team, 0, len(teamRows)),
		teamByKey:      make(map[string]team.Team, len(teamRows)),
	}
	for _, item := range divisionRows {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("malformed division row %q: %w", item.ID, err)
		}
		cache.divisions = append(cache.divisions, item)
		key := division.NormalizeName(item.Name)
		if _, exists := cache.divisionByName[key]; !exists {
			cache.divisionByName[key] = item
		}
	}
	for _, item := range teamRows {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("malformed team row %q: %w", item.ID, err)
		}
		cache.AddTeam(item)
	}

	return cache, nil
}

// FindDivision matches raw case-insensitively, then retries as "division <raw>".
func (c *LookupCache) FindDivision(raw string) (division.Division, bool) {
	if item, ok := c.divisionByName[division.NormalizeName(raw)]; ok {
		return item, true
	}
	item, ok := c.divisionByName[division.FallbackName(raw)]
	return item, ok
}

func (c *LookupCache) FindTeam(divisionID, raw string) (team.Team, bool) {
	item, ok := c.teamByKey[teamKey(divisionID, raw)]
	return item, ok
}

// AddTeam makes item visible to later FindTeam calls. The first team
// registered under a name wins.
func (c *LookupCache) AddTeam(item team.Team) {
	key := teamKey(item.DivisionID, item.Name)
	if _, exists := c.teamByKey[key]; exists {
		return
	}
	c.teamByKey[key] = item
	c.teams = append(c.teams, item)
}

func (c *LookupCache) Divisions() []division.Division {
	out := make([]division.Division, len(c.divisions))
	copy(out, c.divisions)
	return out
}

func (c *LookupCache) Teams() []team.Team {
	out := make([]team.Team, len(c.teams))
	copy(out, c.teams)
	return out
}

func teamKey(divisionID, name string) string {
	return divisionID + "\x00" + division.NormalizeName(name)
}
