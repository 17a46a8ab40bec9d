package supabase

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/pickleball-league/internal/domain/division"
	"github.com/riskibarqy/pickleball-league/internal/domain/match"
	"github.com/riskibarqy/pickleball-league/internal/domain/team"
	"github.com/riskibarqy/pickleball-league/internal/platform/id"
)

type divisionRow struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	PlayTime *string `json:"play_time"`
}

type teamRow struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	DivisionID string `json:"division_id"`
}

type matchRow struct {
	ID             string `json:"id,omitempty"`
	DivisionID     string `json:"division_id"`
	Team1ID        string `json:"team1_id"`
	Team2ID        string `json:"team2_id"`
	Date           string `json:"date"`
	Team1Wins      int    `json:"team1_wins"`
	Team2Wins      int    `json:"team2_wins"`
	Team1PointsFor int    `json:"team1_points_for"`
	Team2PointsFor int    `json:"team2_points_for"`
}

const (
	divisionSelect = "id,name,play_time"
	teamSelect     = "id,name,division_id"
	matchSelect    = "id,division_id,team1_id,team2_id,date,team1_wins,team2_wins,team1_points_for,team2_points_for"
)

type DivisionRepository struct {
	client *Client
}

func NewDivisionRepository(client *Client) *DivisionRepository {
	return &DivisionRepository{client: client}
}

func (r *DivisionRepository) List(ctx context.Context) ([]division.Division, error) {
	query := url.Values{}
	query.Set("select", divisionSelect)
	query.Set("order", "name.asc,id.asc")

	rows, err := selectAll[divisionRow](ctx, r.client, "divisions", query)
	if err != nil {
		return nil, crerr.Wrap(err, "list divisions")
	}

	out := make([]division.Division, 0, len(rows))
	for _, row := range rows {
		item := division.Division{ID: row.ID, Name: row.Name}
		if row.PlayTime != nil {
			item.PlayTime = *row.PlayTime
		}
		out = append(out, item)
	}
	return out, nil
}

type TeamRepository struct {
	client *Client
	idGen  id.Generator
}

func NewTeamRepository(client *Client, idGen id.Generator) *TeamRepository {
	if idGen == nil {
		idGen = id.NewUUIDGenerator()
	}
	return &TeamRepository{client: client, idGen: idGen}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query := url.Values{}
	query.Set("select", teamSelect)
	query.Set("order", "division_id.asc,name.asc,id.asc")

	return r.list(ctx, query)
}

func (r *TeamRepository) ListByDivision(ctx context.Context, divisionID string) ([]team.Team, error) {
	query := url.Values{}
	query.Set("select", teamSelect)
	query.Set("division_id", "eq."+divisionID)
	query.Set("order", "name.asc,id.asc")

	return r.list(ctx, query)
}

// Create posts one team. A 409 from the unique index means another writer won
// the race, so the existing row is looked up and returned.
func (r *TeamRepository) Create(ctx context.Context, input team.NewTeam) (team.Team, error) {
	teamID, err := r.idGen.NewID()
	if err != nil {
		return team.Team{}, crerr.Wrap(err, "generate team id")
	}
	payload := teamRow{ID: teamID, Name: strings.TrimSpace(input.Name), DivisionID: input.DivisionID}

	query := url.Values{}
	query.Set("select", teamSelect)
	resp, err := r.client.write(ctx, http.MethodPost, "teams", query, payload, map[string]string{"Prefer": "return=representation"})
	if err != nil {
		if isConflict(err) {
			return r.findByName(ctx, input.DivisionID, payload.Name)
		}
		return team.Team{}, crerr.Wrapf(err, "create team %q", payload.Name)
	}
	if resp.status != http.StatusCreated {
		return team.Team{}, crerr.Newf("create team %q: unexpected status %d", payload.Name, resp.status)
	}

	var rows []teamRow
	if err := sonic.Unmarshal(resp.body, &rows); err != nil {
		return team.Team{}, crerr.Wrap(err, "decode created team")
	}
	if len(rows) == 0 {
		return team.Team{ID: payload.ID, Name: payload.Name, DivisionID: payload.DivisionID}, nil
	}
	return toTeam(rows[0]), nil
}

func (r *TeamRepository) findByName(ctx context.Context, divisionID, name string) (team.Team, error) {
	items, err := r.ListByDivision(ctx, divisionID)
	if err != nil {
		return team.Team{}, err
	}
	key := division.NormalizeName(name)
	for _, item := range items {
		if division.NormalizeName(item.Name) == key {
			return item, nil
		}
	}
	return team.Team{}, crerr.Newf("team %q conflicted but is missing from division %s", name, divisionID)
}

func (r *TeamRepository) list(ctx context.Context, query url.Values) ([]team.Team, error) {
	rows, err := selectAll[teamRow](ctx, r.client, "teams", query)
	if err != nil {
		return nil, crerr.Wrap(err, "list teams")
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, toTeam(row))
	}
	return out, nil
}

func toTeam(row teamRow) team.Team {
	return team.Team{ID: row.ID, Name: row.Name, DivisionID: row.DivisionID}
}

type MatchRepository struct {
	client *Client
}

func NewMatchRepository(client *Client) *MatchRepository {
	return &MatchRepository{client: client}
}

func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	total, err := r.client.count(ctx, "matches")
	if err != nil {
		return 0, crerr.Wrap(err, "count matches")
	}
	return total, nil
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	query := url.Values{}
	query.Set("select", matchSelect)
	query.Set("order", "date.asc,id.asc")

	return r.list(ctx, query)
}

func (r *MatchRepository) ListByDivision(ctx context.Context, divisionID string) ([]match.Match, error) {
	query := url.Values{}
	query.Set("select", matchSelect)
	query.Set("division_id", "eq."+divisionID)
	query.Set("order", "date.asc,id.asc")

	return r.list(ctx, query)
}

// DeleteAll removes every match. PostgREST refuses unfiltered deletes, so the
// filter excludes only the nil uuid, which no row carries.
func (r *MatchRepository) DeleteAll(ctx context.Context) error {
	query := url.Values{}
	query.Set("id", "neq."+match.NilID)

	if _, err := r.client.write(ctx, http.MethodDelete, "matches", query, nil, map[string]string{"Prefer": "return=minimal"}); err != nil {
		return crerr.Wrap(err, "delete matches")
	}
	return nil
}

// InsertMany bulk inserts in one request. Only 201 Created counts as success.
func (r *MatchRepository) InsertMany(ctx context.Context, matches []match.Match) error {
	rows := make([]matchRow, 0, len(matches))
	for _, item := range matches {
		rows = append(rows, matchRow{
			ID:             item.ID,
			DivisionID:     item.DivisionID,
			Team1ID:        item.Team1ID,
			Team2ID:        item.Team2ID,
			Date:           item.Date,
			Team1Wins:      item.Team1Wins,
			Team2Wins:      item.Team2Wins,
			Team1PointsFor: item.Team1PointsFor,
			Team2PointsFor: item.Team2PointsFor,
		})
	}

	resp, err := r.client.write(ctx, http.MethodPost, "matches", nil, rows, map[string]string{"Prefer": "return=minimal"})
	if err != nil {
		return crerr.Wrapf(err, "insert %d matches", len(rows))
	}
	if resp.status != http.StatusCreated {
		return crerr.Newf("insert %d matches: unexpected status %d", len(rows), resp.status)
	}
	return nil
}

func (r *MatchRepository) list(ctx context.Context, query url.Values) ([]match.Match, error) {
	rows, err := selectAll[matchRow](ctx, r.client, "matches", query)
	if err != nil {
		return nil, crerr.Wrap(err, "list matches")
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Match{
			ID:             row.ID,
			DivisionID:     row.DivisionID,
			Team1ID:        row.Team1ID,
			Team2ID:        row.Team2ID,
			Date:           row.Date,
			Team1Wins:      row.Team1Wins,
			Team2Wins:      row.Team2Wins,
			Team1PointsFor: row.Team1PointsFor,
			Team2PointsFor: row.Team2PointsFor,
		})
	}
	return out, nil
}
