package usecase

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/pickleball-league/internal/domain/match"
	"github.com/riskibarqy/pickleball-league/internal/infrastructure/sheet"
)

const (
	colDivision = iota
	colTeam1
	colSeparator
	colTeam2
	colDate
	colTeam1Wins
	colTeam2Wins
	colTeam1Points
	colTeam2Points

	minMatchColumns = 9
)

// MatchCandidate is a played row with typed columns, before identity resolution.
type MatchCandidate struct {
	Line           int
	Division       string `validate:"required"`
	Team1          string `validate:"required"`
	Team2          string `validate:"required"`
	Date           string `validate:"required,datetime=2006-01-02"`
	Team1Wins      int    `validate:"gte=0"`
	Team2Wins      int    `validate:"gte=0"`
	Team1PointsFor int    `validate:"gte=0"`
	Team2PointsFor int    `validate:"gte=0"`
}

// RowError is a rejected source row. The run carries on without it.
type RowError struct {
	Line    int
	Message string
}

func (e RowError) String() string {
	return fmt.Sprintf("Row %d: %s", e.Line, e.Message)
}

type MatchRowParser struct {
	validate *validator.Validate
}

func NewMatchRowParser() *MatchRowParser {
	return &MatchRowParser{validate: validator.New()}
}

// Parse maps tokenized rows to candidates. Short rows, unplayed fixtures and a
// leading header row are dropped silently; every other bad row yields a RowError.
func (p *MatchRowParser) Parse(rows []sheet.Row) ([]MatchCandidate, []RowError) {
	candidates := make([]MatchCandidate, 0, len(rows))
	var rowErrors []RowError

	seenData := false
	for _, row := range rows {
		if row.Err != nil {
			rowErrors = append(rowErrors, RowError{Line: row.Line, Message: fmt.Sprintf("unreadable line: %v", row.Err)})
			continue
		}
		if len(row.Cells) < minMatchColumns {
			continue
		}

		cells := make([]string, len(row.Cells))
		for idx, cell := range row.Cells {
			cells[idx] = strings.TrimSpace(cell)
		}

		if !seenData {
			seenData = true
			if isHeaderRow(cells) {
				continue
			}
		}
		if cells[colTeam1Wins] == "" || cells[colTeam2Wins] == "" {
			continue
		}

		candidate, err := p.parseRow(row.Line, cells)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: row.Line, Message: err.Error()})
			continue
		}
		candidates = append(candidates, candidate)
	}

	return candidates, rowErrors
}

func (p *MatchRowParser) parseRow(line int, cells []string) (MatchCandidate, error) {
	candidate := MatchCandidate{
		Line:     line,
		Division: cells[colDivision],
		Team1:    cells[colTeam1],
		Team2:    cells[colTeam2],
	}

	date, err := match.NormalizeDate(cells[colDate])
	if err != nil {
		return MatchCandidate{}, err
	}
	candidate.Date = date

	scores := []struct {
		label string
		raw   string
		dst   *int
	}{
		{label: "team1 wins", raw: cells[colTeam1Wins], dst: &candidate.Team1Wins},
		{label: "team2 wins", raw: cells[colTeam2Wins], dst: &candidate.Team2Wins},
		{label: "team1 points", raw: cells[colTeam1Points], dst: &candidate.Team1PointsFor},
		{label: "team2 points", raw: cells[colTeam2Points], dst: &candidate.Team2PointsFor},
	}
	for _, score := range scores {
		value, err := parseScore(score.raw)
		if err != nil {
			return MatchCandidate{}, fmt.Errorf("%s %w", score.label, err)
		}
		*score.dst = value
	}

	if err := p.validate.Struct(candidate); err != nil {
		return MatchCandidate{}, describeValidation(err)
	}
	if strings.EqualFold(candidate.Team1, candidate.Team2) {
		return MatchCandidate{}, fmt.Errorf("team %q cannot play itself", candidate.Team1)
	}

	return candidate, nil
}

func parseScore(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("is missing")
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", raw)
	}
	return value, nil
}

// isHeaderRow reports whether the row carries labels: text in the wins
// columns, no number in any score column, and no parseable date.
func isHeaderRow(cells []string) bool {
	for _, cell := range cells[colTeam1Wins : colTeam2Points+1] {
		if _, err := strconv.Atoi(cell); err == nil {
			return false
		}
	}
	if cells[colTeam1Wins] == "" && cells[colTeam2Wins] == "" {
		return false
	}
	_, err := match.NormalizeDate(cells[colDate])
	return err != nil
}

func describeValidation(err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	parts := make([]string, 0, len(fieldErrors))
	for _, fieldErr := range fieldErrors {
		switch fieldErr.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", strings.ToLower(fieldErr.Field())))
		case "gte":
			parts = append(parts, fmt.Sprintf("%s must be non-negative", strings.ToLower(fieldErr.Field())))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", strings.ToLower(fieldErr.Field())))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(parts, ", "))
}
