package standing

import (
	"testing"

	"github.com/riskibarqy/pickleball-league/internal/domain/match"
	"github.com/riskibarqy/pickleball-league/internal/domain/team"
)

func TestBuild_SingleMatchAggregation(t *testing.T) {
	t.Parallel()

	teams := []team.Team{
		{ID: "t2", Name: "Team Two", DivisionID: "d1"},
		{ID: "t1", Name: "Team One", DivisionID: "d1"},
	}
	matches := []match.Match{{
		ID: "m1", DivisionID: "d1", Team1ID: "t1", Team2ID: "t2", Date: "2026-01-13",
		Team1Wins: 2, Team2Wins: 1, Team1PointsFor: 11, Team2PointsFor: 9,
	}}

	entries := Build(teams, matches, TieBreakWinPct)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first, second := entries[0], entries[1]
	if first.TeamID != "t1" || first.Position != 1 {
		t.Fatalf("expected team one first, got %+v", first)
	}
	if first.Wins != 2 || first.Losses != 1 || first.WinPct != 0.667 || first.PointsFor != 11 || first.PointsAgainst != 9 {
		t.Fatalf("unexpected team one entry: %+v", first)
	}
	if second.Wins != 1 || second.Losses != 2 || second.WinPct != 0.333 || second.PointsFor != 9 || second.PointsAgainst != 11 {
		t.Fatalf("unexpected team two entry: %+v", second)
	}
	if second.Position != 2 {
		t.Fatalf("unexpected team two position: %d", second.Position)
	}
}

func TestBuild_RoundingIsDeterministic(t *testing.T) {
	t.Parallel()

	teams := []team.Team{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}}
	matches := []match.Match{
		{ID: "1", Team1ID: "a", Team2ID: "b", Date: "2026-01-01", Team1Wins: 2, Team2Wins: 1, Team1PointsFor: 25, Team2PointsFor: 21},
		{ID: "2", Team1ID: "b", Team2ID: "c", Date: "2026-01-08", Team1Wins: 1, Team2Wins: 2, Team1PointsFor: 19, Team2PointsFor: 22},
		{ID: "3", Team1ID: "c", Team2ID: "a", Date: "2026-01-15", Team1Wins: 0, Team2Wins: 3, Team1PointsFor: 12, Team2PointsFor: 33},
	}

	first := Build(teams, matches, TieBreakWinPct)
	second := Build(teams, matches, TieBreakWinPct)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("entry %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
	if first[0].WinPct != 0.833 {
		t.Fatalf("expected 5/6 rounded to 0.833, got %v", first[0].WinPct)
	}
}

func TestBuild_NoGamesHasZeroWinPct(t *testing.T) {
	t.Parallel()

	entries := Build([]team.Team{{ID: "t1", Name: "Solo"}}, nil, TieBreakWinPct)
	if len(entries) != 1 || entries[0].WinPct != 0 || entries[0].GamesPlayed() != 0 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestBuild_UnknownTeamOnlyCreditsKnownSide(t *testing.T) {
	t.Parallel()

	teams := []team.Team{{ID: "t1", Name: "Known"}}
	matches := []match.Match{{ID: "m1", Team1ID: "t1", Team2ID: "ghost", Date: "2026-01-13", Team1Wins: 1, Team2Wins: 2, Team1PointsFor: 8, Team2PointsFor: 11}}

	entries := Build(teams, matches, TieBreakWinPct)
	if len(entries) != 1 {
		t.Fatalf("expected only known team, got %+v", entries)
	}
	if entries[0].Wins != 1 || entries[0].Losses != 2 || entries[0].PointsAgainst != 11 {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestBuild_TieBreakPolicies(t *testing.T) {
	t.Parallel()

	teams := []team.Team{{ID: "a", Name: "Alpha"}, {ID: "b", Name: "Bravo"}, {ID: "c", Name: "Charlie"}}
	// Alpha: 4-2 (0.667), PF 60 PA 58. Bravo: 2-1 (0.667), PF 70 PA 40. Charlie: 3-6.
	matches := []match.Match{
		{ID: "1", Team1ID: "a", Team2ID: "c", Date: "2026-01-01", Team1Wins: 4, Team2Wins: 2, Team1PointsFor: 60, Team2PointsFor: 58},
		{ID: "2", Team1ID: "b", Team2ID: "c", Date: "2026-01-02", Team1Wins: 2, Team2Wins: 1, Team1PointsFor: 70, Team2PointsFor: 40},
	}

	byPct := Build(teams, matches, TieBreakWinPct)
	if byPct[0].TeamID != "b" || byPct[1].TeamID != "a" {
		t.Fatalf("win pct policy should break the tie on points for: %+v", byPct)
	}

	byWins := Build(teams, matches, TieBreakWinsDiff)
	if byWins[0].TeamID != "a" || byWins[1].TeamID != "c" || byWins[2].TeamID != "b" {
		t.Fatalf("wins policy should rank by games won: %+v", byWins)
	}
}

func TestBuild_FullTieFallsBackToName(t *testing.T) {
	t.Parallel()

	teams := []team.Team{{ID: "z", Name: "zebra"}, {ID: "a", Name: "Aardvark"}}
	entries := Build(teams, nil, TieBreakWinPct)
	if entries[0].Team != "Aardvark" {
		t.Fatalf("expected name ordering on full tie, got %+v", entries)
	}
}

func TestParseTieBreak(t *testing.T) {
	t.Parallel()

	if ParseTieBreak("WINS_DIFF") != TieBreakWinsDiff {
		t.Fatalf("expected wins diff policy")
	}
	if ParseTieBreak("") != TieBreakWinPct {
		t.Fatalf("expected default policy")
	}
}

func TestBuildTeamStats(t *testing.T) {
	t.Parallel()

	teams := []team.Team{{ID: "a", Name: "Alpha"}, {ID: "b", Name: "Bravo"}}
	matches := []match.Match{
		{ID: "3", Team1ID: "b", Team2ID: "a", Date: "2026-01-15", Team1Wins: 2, Team2Wins: 0, Team1PointsFor: 22, Team2PointsFor: 10},
		{ID: "1", Team1ID: "a", Team2ID: "b", Date: "2026-01-01", Team1Wins: 2, Team2Wins: 1, Team1PointsFor: 30, Team2PointsFor: 25},
		{ID: "2", Team1ID: "a", Team2ID: "b", Date: "2026-01-08", Team1Wins: 3, Team2Wins: 0, Team1PointsFor: 33, Team2PointsFor: 15},
	}

	stats := BuildTeamStats(teams, matches)
	if len(stats) != 2 || stats[0].Team != "Alpha" {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	alpha := stats[0]
	// Alpha games 5-3, points 73-62.
	if alpha.GamesPlayed != 8 || alpha.MatchesPlayed != 3 {
		t.Fatalf("unexpected alpha played counts: %+v", alpha)
	}
	if alpha.AvgPointsPerGame != 9.1 {
		t.Fatalf("unexpected alpha avg points: %v", alpha.AvgPointsPerGame)
	}
	if alpha.AvgPointDiff != 1.4 {
		t.Fatalf("unexpected alpha avg diff: %v", alpha.AvgPointDiff)
	}
	if alpha.LongestWinStreak != 2 {
		t.Fatalf("unexpected alpha streak: %d", alpha.LongestWinStreak)
	}
	if stats[1].LongestWinStreak != 1 {
		t.Fatalf("unexpected bravo streak: %d", stats[1].LongestWinStreak)
	}
}

func TestBuildResults(t *testing.T) {
	t.Parallel()

	teams := []team.Team{{ID: "a", Name: "Alpha"}, {ID: "b", Name: "Bravo"}}
	matches := []match.Match{
		{ID: "1", Team1ID: "a", Team2ID: "b", Date: "2026-01-01", Team1Wins: 1, Team2Wins: 2, Team1PointsFor: 20, Team2PointsFor: 25},
		{ID: "2", Team1ID: "a", Team2ID: "b", Date: "2026-01-08", Team1Wins: 1, Team2Wins: 1, Team1PointsFor: 21, Team2PointsFor: 19},
	}

	results := BuildResults(teams, matches)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].MatchID != "2" || !results[0].Draw {
		t.Fatalf("expected newest draw first, got %+v", results[0])
	}
	older := results[1]
	if older.Winner != "Bravo" || older.Loser != "Alpha" || older.WinnerScore != 2 || older.LoserScore != 1 || older.WinnerPoints != 25 {
		t.Fatalf("unexpected winner view: %+v", older)
	}
}
