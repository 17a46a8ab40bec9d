package standing

import (
	"sort"
	"strings"

	"github.com/riskibarqy/pickleball-league/internal/domain/match"
	"github.com/riskibarqy/pickleball-league/internal/domain/team"
)

// TeamStats summarizes one team's season. Averages are per game, rounded to one decimal.
type TeamStats struct {
	TeamID           string
	Team             string
	MatchesPlayed    int
	GamesPlayed      int
	AvgPointsPerGame float64
	AvgPointDiff     float64
	LongestWinStreak int
}

// Result is a match seen from the winner's side. Scores are games won.
type Result struct {
	MatchID      string
	Date         string
	WinnerID     string
	Winner       string
	LoserID      string
	Loser        string
	WinnerScore  int
	LoserScore   int
	WinnerPoints int
	LoserPoints  int
	Draw         bool
}

// BuildTeamStats derives per-team statistics, ordered by team name.
func BuildTeamStats(teams []team.Team, matches []match.Match) []TeamStats {
	ordered := chronological(matches)
	entries := Build(teams, matches, TieBreakWinPct)

	out := make([]TeamStats, 0, len(entries))
	for _, entry := range entries {
		stats := TeamStats{
			TeamID:      entry.TeamID,
			Team:        entry.Team,
			GamesPlayed: entry.GamesPlayed(),
		}
		if stats.GamesPlayed > 0 {
			stats.AvgPointsPerGame = Round(float64(entry.PointsFor)/float64(stats.GamesPlayed), 1)
			stats.AvgPointDiff = Round(float64(entry.PointDiff())/float64(stats.GamesPlayed), 1)
		}

		streak := 0
		for _, m := range ordered {
			var own, opp int
			switch entry.TeamID {
			case m.Team1ID:
				own, opp = m.Team1Wins, m.Team2Wins
			case m.Team2ID:
				own, opp = m.Team2Wins, m.Team1Wins
			default:
				continue
			}
			stats.MatchesPlayed++
			if own > opp {
				streak++
				if streak > stats.LongestWinStreak {
					stats.LongestWinStreak = streak
				}
				continue
			}
			streak = 0
		}
		out = append(out, stats)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Team) < strings.ToLower(out[j].Team)
	})
	return out
}

// BuildResults lists matches newest first. Matches naming unknown teams keep the raw id as the label.
func BuildResults(teams []team.Team, matches []match.Match) []Result {
	names := make(map[string]string, len(teams))
	for _, item := range teams {
		names[item.ID] = item.Name
	}
	label := func(id string) string {
		if name, ok := names[id]; ok {
			return name
		}
		return id
	}

	ordered := chronological(matches)
	out := make([]Result, 0, len(ordered))
	for i := len(ordered) - 1; i >= 0; i-- {
		m := ordered[i]
		result := Result{
			MatchID:      m.ID,
			Date:         m.Date,
			WinnerID:     m.Team1ID,
			LoserID:      m.Team2ID,
			WinnerScore:  m.Team1Wins,
			LoserScore:   m.Team2Wins,
			WinnerPoints: m.Team1PointsFor,
			LoserPoints:  m.Team2PointsFor,
			Draw:         m.Team1Wins == m.Team2Wins,
		}
		if m.Team2Wins > m.Team1Wins {
			result.WinnerID, result.LoserID = m.Team2ID, m.Team1ID
			result.WinnerScore, result.LoserScore = m.Team2Wins, m.Team1Wins
			result.WinnerPoints, result.LoserPoints = m.Team2PointsFor, m.Team1PointsFor
		}
		result.Winner = label(result.WinnerID)
		result.Loser = label(result.LoserID)
		out = append(out, result)
	}

	return out
}

func chronological(matches []match.Match) []match.Match {
	out := make([]match.Match, len(matches))
	copy(out, matches)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}
