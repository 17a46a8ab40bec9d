package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickleball-league/internal/domain/team"
	"github.com/riskibarqy/pickleball-league/internal/platform/id"
	qb "github.com/riskibarqy/pickleball-league/internal/platform/querybuilder"
)

type TeamRepository struct {
	db    *sqlx.DB
	idGen id.Generator
}

func NewTeamRepository(db *sqlx.DB, idGen id.Generator) *TeamRepository {
	if idGen == nil {
		idGen = id.NewUUIDGenerator()
	}
	return &TeamRepository{db: db, idGen: idGen}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select(teamColumns...).
		From("teams").
		OrderBy("division_id", "name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	return r.selectTeams(ctx, query, args)
}

func (r *TeamRepository) ListByDivision(ctx context.Context, divisionID string) ([]team.Team, error) {
	query, args, err := qb.Select(teamColumns...).
		From("teams").
		Where(qb.Eq("division_id", divisionID)).
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by division query: %w", err)
	}

	return r.selectTeams(ctx, query, args)
}

// Create inserts a team. When a concurrent writer already created the same
// name in the division, the existing row is returned instead.
func (r *TeamRepository) Create(ctx context.Context, input team.NewTeam) (team.Team, error) {
	teamID, err := r.idGen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	insertModel := teamInsertModel{
		ID:         teamID,
		Name:       strings.TrimSpace(input.Name),
		DivisionID: input.DivisionID,
	}
	query, args, err := qb.InsertModel("teams", insertModel, "RETURNING "+strings.Join(teamColumns, ", "))
	if err != nil {
		return team.Team{}, fmt.Errorf("build insert team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isUniqueViolation(err) {
			return r.getByName(ctx, input.DivisionID, insertModel.Name)
		}
		return team.Team{}, fmt.Errorf("insert team name=%s division=%s: %w", insertModel.Name, input.DivisionID, err)
	}

	return toTeam(row), nil
}

func (r *TeamRepository) getByName(ctx context.Context, divisionID, name string) (team.Team, error) {
	query, args, err := qb.Select(teamColumns...).
		From("teams").
		Where(
			qb.Eq("division_id", divisionID),
			qb.Expr("LOWER(name) = LOWER(?)", name),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, fmt.Errorf("build select team by name query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, fmt.Errorf("team %q vanished after unique violation in division=%s", name, divisionID)
		}
		return team.Team{}, fmt.Errorf("select team by name: %w", err)
	}

	return toTeam(row), nil
}

func (r *TeamRepository) selectTeams(ctx context.Context, query string, args []any) ([]team.Team, error) {
	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, toTeam(row))
	}
	return out, nil
}

func toTeam(row teamTableModel) team.Team {
	return team.Team{
		ID:         row.ID,
		Name:       row.Name,
		DivisionID: row.DivisionID,
	}
}
