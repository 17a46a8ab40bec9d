package postgres

import "time"

type teamTableModel struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	DivisionID string    `db:"division_id"`
	CreatedAt  time.Time `db:"created_at"`
}

type teamInsertModel struct {
	ID         string `db:"id"`
	Name       string `db:"name"`
	DivisionID string `db:"division_id"`
}

var teamColumns = []string{"id", "name", "division_id", "created_at"}
