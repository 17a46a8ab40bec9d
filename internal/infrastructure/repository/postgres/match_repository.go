package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickleball-league/internal/domain/match"
	qb "github.com/riskibarqy/pickleball-league/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("matches").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count matches query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return total, nil
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns...).
		From("matches").
		OrderBy("date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListByDivision(ctx context.Context, divisionID string) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns...).
		From("matches").
		Where(qb.Eq("division_id", divisionID)).
		OrderBy("date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by division query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) DeleteAll(ctx context.Context) error {
	return deleteAllMatches(ctx, r.db)
}

func (r *MatchRepository) InsertMany(ctx context.Context, matches []match.Match) error {
	return insertMatches(ctx, r.db, matches)
}

// ReplaceAll swaps the whole match set inside one transaction.
func (r *MatchRepository) ReplaceAll(ctx context.Context, matches []match.Match) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace matches: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := deleteAllMatches(ctx, tx); err != nil {
		return err
	}
	if err := insertMatches(ctx, tx, matches); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace matches tx: %w", err)
	}
	return nil
}

func (r *MatchRepository) selectMatches(ctx context.Context, query string, args []any) ([]match.Match, error) {
	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Match{
			ID:             row.ID,
			DivisionID:     row.DivisionID,
			Team1ID:        row.Team1ID,
			Team2ID:        row.Team2ID,
			Date:           row.Date.Format(match.DateLayout),
			Team1Wins:      row.Team1Wins,
			Team2Wins:      row.Team2Wins,
			Team1PointsFor: row.Team1PointsFor,
			Team2PointsFor: row.Team2PointsFor,
		})
	}
	return out, nil
}

func deleteAllMatches(ctx context.Context, exec sqlx.ExecerContext) error {
	query, args, err := qb.DeleteFrom("matches").
		Where(qb.Neq("id", match.NilID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete matches query: %w", err)
	}
	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete matches: %w", err)
	}
	return nil
}

func insertMatches(ctx context.Context, exec sqlx.ExecerContext, matches []match.Match) error {
	for start := 0; start < len(matches); start += insertChunkSize {
		end := min(start+insertChunkSize, len(matches))

		rows := make([]matchInsertModel, 0, end-start)
		for _, item := range matches[start:end] {
			rows = append(rows, toMatchInsertModel(item))
		}

		query, args, err := qb.InsertModels("matches", rows, "")
		if err != nil {
			return fmt.Errorf("build insert matches query: %w", err)
		}
		if _, err := exec.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert matches rows=%d..%d: %w", start, end, err)
		}
	}
	return nil
}

func toMatchInsertModel(item match.Match) matchInsertModel {
	return matchInsertModel{
		ID:             item.ID,
		DivisionID:     item.DivisionID,
		Team1ID:        item.Team1ID,
		Team2ID:        item.Team2ID,
		Date:           item.Date,
		Team1Wins:      item.Team1Wins,
		Team2Wins:      item.Team2Wins,
		Team1PointsFor: item.Team1PointsFor,
		Team2PointsFor: item.Team2PointsFor,
	}
}
