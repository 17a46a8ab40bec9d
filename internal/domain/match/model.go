package match

import (
	"fmt"
	"strings"
	"time"
)

// NilID never identifies a stored match; filtering on id <> NilID selects every row.
const NilID = "00000000-0000-0000-0000-000000000000"

// DateLayout is the storage and wire format of Match.Date.
const DateLayout = "2006-01-02"

const shortYearLayout = "2-Jan-06"

var sourceDateLayouts = []string{
	shortYearLayout,
	"2-Jan-2006",
	DateLayout,
}

// Match is one recorded fixture between two teams. Wins count games won inside the match.
type Match struct {
	ID             string
	DivisionID     string
	Team1ID        string
	Team2ID        string
	Date           string
	Team1Wins      int
	Team2Wins      int
	Team1PointsFor int
	Team2PointsFor int
}

func (m Match) Validate() error {
	if strings.TrimSpace(m.DivisionID) == "" {
		return fmt.Errorf("match division id is required")
	}
	if strings.TrimSpace(m.Team1ID) == "" || strings.TrimSpace(m.Team2ID) == "" {
		return fmt.Errorf("match team ids are required")
	}
	if m.Team1ID == m.Team2ID {
		return fmt.Errorf("match team1 and team2 must differ")
	}
	if _, err := time.Parse(DateLayout, m.Date); err != nil {
		return fmt.Errorf("match date %q is not %s", m.Date, DateLayout)
	}
	if m.Team1Wins < 0 || m.Team2Wins < 0 || m.Team1PointsFor < 0 || m.Team2PointsFor < 0 {
		return fmt.Errorf("match wins and points must be non-negative")
	}

	return nil
}

// NormalizeDate converts a source date such as "13-Jan-26" or "13-Jan-2026" into YYYY-MM-DD.
func NormalizeDate(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("date is required")
	}
	for _, layout := range sourceDateLayouts {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		// Two-digit years always mean 20YY.
		if layout == shortYearLayout && parsed.Year() < 2000 {
			parsed = parsed.AddDate(100, 0, 0)
		}
		return parsed.Format(DateLayout), nil
	}

	return "", fmt.Errorf("unrecognized date %q, expected D-Mon-YY or D-Mon-YYYY", raw)
}
