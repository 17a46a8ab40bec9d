package postgres

import "time"

type matchTableModel struct {
	ID             string    `db:"id"`
	DivisionID     string    `db:"division_id"`
	Team1ID        string    `db:"team1_id"`
	Team2ID        string    `db:"team2_id"`
	Date           time.Time `db:"date"`
	Team1Wins      int       `db:"team1_wins"`
	Team2Wins      int       `db:"team2_wins"`
	Team1PointsFor int       `db:"team1_points_for"`
	Team2PointsFor int       `db:"team2_points_for"`
}

type matchInsertModel struct {
	ID             string `db:"id"`
	DivisionID     string `db:"division_id"`
	Team1ID        string `db:"team1_id"`
	Team2ID        string `db:"team2_id"`
	Date           string `db:"date"`
	Team1Wins      int    `db:"team1_wins"`
	Team2Wins      int    `db:"team2_wins"`
	Team1PointsFor int    `db:"team1_points_for"`
	Team2PointsFor int    `db:"team2_points_for"`
}

var matchColumns = []string{
	"id",
	"division_id",
	"team1_id",
	"team2_id",
	"date",
	"team1_wins",
	"team2_wins",
	"team1_points_for",
	"team2_points_for",
}
