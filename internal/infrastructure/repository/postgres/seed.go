package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickleball-league/internal/infrastructure/repository/memory"
)

// BootstrapSeed inserts the default divisions and teams into an empty database.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM divisions`); err != nil {
		return fmt.Errorf("count divisions for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, d := range memory.SeedDivisions() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO divisions (id, name, play_time)
VALUES (:id, :name, :play_time)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":        d.ID,
			"name":      d.Name,
			"play_time": d.PlayTime,
		})
		if err != nil {
			return fmt.Errorf("bind seed division %s query: %w", d.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed division %s: %w", d.ID, err)
		}
	}

	for _, t := range memory.SeedTeams() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO teams (id, name, division_id)
VALUES (:id, :name, :division_id)
ON CONFLICT DO NOTHING`, map[string]any{
			"id":          t.ID,
			"name":        t.Name,
			"division_id": t.DivisionID,
		})
		if err != nil {
			return fmt.Errorf("bind seed team %s query: %w", t.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed team %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
