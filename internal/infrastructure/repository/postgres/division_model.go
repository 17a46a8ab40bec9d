package postgres

import (
	"database/sql"
	"time"
)

type divisionTableModel struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	PlayTime  sql.NullString `db:"play_time"`
	CreatedAt time.Time      `db:"created_at"`
}
