package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/riskibarqy/pickleball-league/internal/domain/match"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches 23505", func(t *testing.T) {
		err := fmt.Errorf("insert team: %w", &pq.Error{Code: "23505"})
		if !isUniqueViolation(err) {
			t.Fatalf("expected true for unique violation")
		}
	})

	t.Run("ignores other pq codes", func(t *testing.T) {
		if isUniqueViolation(&pq.Error{Code: "23503"}) {
			t.Fatalf("expected false for foreign key violation")
		}
	})

	t.Run("ignores plain errors", func(t *testing.T) {
		if isUniqueViolation(fakeErr("duplicate key value")) {
			t.Fatalf("expected false for non pq error")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get team: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("boom")) {
		t.Fatalf("expected unrelated error to be found")
	}
}

func TestToMatchInsertModel(t *testing.T) {
	got := toMatchInsertModel(match.Match{
		ID: "m1", DivisionID: "d1", Team1ID: "t1", Team2ID: "t2", Date: "2026-01-13",
		Team1Wins: 2, Team2Wins: 1, Team1PointsFor: 11, Team2PointsFor: 9,
	})
	if got.Date != "2026-01-13" || got.Team1Wins != 2 || got.Team2PointsFor != 9 {
		t.Fatalf("unexpected insert model: %+v", got)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
