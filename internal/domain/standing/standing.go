package standing

import (
	"math"
	"sort"
	"strings"

	"github.com/riskibarqy/pickleball-league/internal/domain/match"
	"github.com/riskibarqy/pickleball-league/internal/domain/team"
)

// TieBreak selects how entries with equal leading keys are ordered.
type TieBreak string

const (
	// TieBreakWinPct orders by win percentage, then points scored.
	TieBreakWinPct TieBreak = "win_pct"
	// TieBreakWinsDiff orders by games won, then point differential.
	TieBreakWinsDiff TieBreak = "wins_diff"
)

// ParseTieBreak maps a config value to a policy, defaulting to TieBreakWinPct.
func ParseTieBreak(value string) TieBreak {
	switch TieBreak(strings.ToLower(strings.TrimSpace(value))) {
	case TieBreakWinsDiff:
		return TieBreakWinsDiff
	default:
		return TieBreakWinPct
	}
}

// Entry is one ranked row of a division table. Wins and Losses count games, not matches.
type Entry struct {
	Position      int
	TeamID        string
	Team          string
	Wins          int
	Losses        int
	WinPct        float64
	PointsFor     int
	PointsAgainst int
}

func (e Entry) PointDiff() int {
	return e.PointsFor - e.PointsAgainst
}

func (e Entry) GamesPlayed() int {
	return e.Wins + e.Losses
}

// Build folds matches into ranked entries for the given teams. Every read surface calls this.
func Build(teams []team.Team, matches []match.Match, policy TieBreak) []Entry {
	entries := make([]Entry, 0, len(teams))
	index := make(map[string]int, len(teams))
	for _, item := range teams {
		if _, exists := index[item.ID]; exists {
			continue
		}
		index[item.ID] = len(entries)
		entries = append(entries, Entry{TeamID: item.ID, Team: item.Name})
	}

	for _, m := range matches {
		if i, ok := index[m.Team1ID]; ok {
			entries[i].Wins += m.Team1Wins
			entries[i].Losses += m.Team2Wins
			entries[i].PointsFor += m.Team1PointsFor
			entries[i].PointsAgainst += m.Team2PointsFor
		}
		if i, ok := index[m.Team2ID]; ok {
			entries[i].Wins += m.Team2Wins
			entries[i].Losses += m.Team1Wins
			entries[i].PointsFor += m.Team2PointsFor
			entries[i].PointsAgainst += m.Team1PointsFor
		}
	}

	for i := range entries {
		entries[i].WinPct = WinPct(entries[i].Wins, entries[i].Losses)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return less(entries[i], entries[j], policy)
	})
	for i := range entries {
		entries[i].Position = i + 1
	}

	return entries
}

// WinPct returns wins/(wins+losses) rounded to three decimals, or 0 with no games played.
func WinPct(wins, losses int) float64 {
	played := wins + losses
	if played <= 0 {
		return 0
	}
	return Round(float64(wins)/float64(played), 3)
}

// Round rounds half away from zero at the given number of decimals.
func Round(value float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(value*scale) / scale
}

func less(a, b Entry, policy TieBreak) bool {
	switch policy {
	case TieBreakWinsDiff:
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.PointDiff() != b.PointDiff() {
			return a.PointDiff() > b.PointDiff()
		}
	default:
		if a.WinPct != b.WinPct {
			return a.WinPct > b.WinPct
		}
		if a.PointsFor != b.PointsFor {
			return a.PointsFor > b.PointsFor
		}
		if a.PointDiff() != b.PointDiff() {
			return a.PointDiff() > b.PointDiff()
		}
	}

	nameA, nameB := strings.ToLower(a.Team), strings.ToLower(b.Team)
	if nameA != nameB {
		return nameA < nameB
	}
	return a.TeamID < b.TeamID
}
