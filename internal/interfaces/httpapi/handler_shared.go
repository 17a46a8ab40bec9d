package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/pickleball-league/internal/domain/division"
	"github.com/riskibarqy/pickleball-league/internal/domain/standing"
	"github.com/riskibarqy/pickleball-league/internal/domain/team"
	"github.com/riskibarqy/pickleball-league/internal/platform/logging"
	"github.com/riskibarqy/pickleball-league/internal/usecase"
)

const defaultMaxUploadBytes int64 = 10 << 20

// StandingsImageRenderer draws the share image of a division table.
type StandingsImageRenderer interface {
	RenderStandings(title string, entries []standing.Entry) ([]byte, error)
}

type Handler struct {
	standingsService *usecase.StandingsService
	ingestionService *usecase.IngestionService
	imageRenderer    StandingsImageRenderer
	logger           *logging.Logger
	validator        *validator.Validate
	maxUploadBytes   int64
}

func NewHandler(
	standingsService *usecase.StandingsService,
	ingestionService *usecase.IngestionService,
	imageRenderer StandingsImageRenderer,
	logger *logging.Logger,
	maxUploadBytes int64,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}

	return &Handler{
		standingsService: standingsService,
		ingestionService: ingestionService,
		imageRenderer:    imageRenderer,
		logger:           logger,
		validator:        validator.New(),
		maxUploadBytes:   maxUploadBytes,
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type ingestMatchesRequest struct {
	Subject    string `validate:"omitempty,max=255"`
	ReceivedAt string `validate:"omitempty,max=64"`
	Attachment string `validate:"omitempty,max=255"`
}

type divisionDTO struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	PlayTime string    `json:"playTime,omitempty"`
	Teams    []teamDTO `json:"teams,omitempty"`
}

type teamDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DivisionID string `json:"divisionId"`
}

type standingEntryDTO struct {
	Position      int     `json:"position"`
	TeamID        string  `json:"teamId"`
	Team          string  `json:"team"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinPct        float64 `json:"winPct"`
	PointsFor     int     `json:"pointsFor"`
	PointsAgainst int     `json:"pointsAgainst"`
	PointDiff     int     `json:"pointDiff"`
	GamesPlayed   int     `json:"gamesPlayed"`
}

type divisionStandingsDTO struct {
	Division divisionDTO        `json:"division"`
	TieBreak string             `json:"tieBreak"`
	Entries  []standingEntryDTO `json:"entries"`
}

type matchResultDTO struct {
	MatchID      string `json:"matchId"`
	Date         string `json:"date"`
	WinnerID     string `json:"winnerId"`
	Winner       string `json:"winner"`
	LoserID      string `json:"loserId"`
	Loser        string `json:"loser"`
	WinnerScore  int    `json:"winnerScore"`
	LoserScore   int    `json:"loserScore"`
	WinnerPoints int    `json:"winnerPoints"`
	LoserPoints  int    `json:"loserPoints"`
	Draw         bool   `json:"draw"`
}

type divisionResultsDTO struct {
	Division divisionDTO      `json:"division"`
	Matches  []matchResultDTO `json:"matches"`
}

type teamStatsDTO struct {
	TeamID           string  `json:"teamId"`
	Team             string  `json:"team"`
	MatchesPlayed    int     `json:"matchesPlayed"`
	GamesPlayed      int     `json:"gamesPlayed"`
	AvgPointsPerGame float64 `json:"avgPointsPerGame"`
	AvgPointDiff     float64 `json:"avgPointDiff"`
	LongestWinStreak int     `json:"longestWinStreak"`
}

type rowErrorDTO struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type ingestionReportDTO struct {
	Status               string        `json:"status"`
	Title                string        `json:"title"`
	Description          string        `json:"description"`
	Subject              string        `json:"subject,omitempty"`
	ReceivedAt           string        `json:"receivedAt,omitempty"`
	Attachment           string        `json:"attachment,omitempty"`
	CurrentRows          int           `json:"currentRows"`
	NewRows              int           `json:"newRows"`
	CreatedTeams         []string      `json:"createdTeams"`
	CreatedTeamsOverflow int           `json:"createdTeamsOverflow"`
	RowErrors            []rowErrorDTO `json:"rowErrors"`
	RowErrorsOverflow    int           `json:"rowErrorsOverflow"`
	DatasetMayBeEmpty    bool          `json:"datasetMayBeEmpty"`
	StartedAt            string        `json:"startedAt"`
	FinishedAt           string        `json:"finishedAt"`
}

func divisionToDTO(v division.Division, teams []team.Team) divisionDTO {
	out := divisionDTO{
		ID:       v.ID,
		Name:     v.Name,
		PlayTime: v.PlayTime,
	}
	if len(teams) > 0 {
		out.Teams = make([]teamDTO, 0, len(teams))
		for _, item := range teams {
			out.Teams = append(out.Teams, teamDTO{ID: item.ID, Name: item.Name, DivisionID: item.DivisionID})
		}
	}
	return out
}

func standingsToDTO(v usecase.DivisionStandings, policy standing.TieBreak) divisionStandingsDTO {
	entries := make([]standingEntryDTO, 0, len(v.Entries))
	for _, entry := range v.Entries {
		entries = append(entries, standingEntryDTO{
			Position:      entry.Position,
			TeamID:        entry.TeamID,
			Team:          entry.Team,
			Wins:          entry.Wins,
			Losses:        entry.Losses,
			WinPct:        entry.WinPct,
			PointsFor:     entry.PointsFor,
			PointsAgainst: entry.PointsAgainst,
			PointDiff:     entry.PointDiff(),
			GamesPlayed:   entry.GamesPlayed(),
		})
	}
	return divisionStandingsDTO{
		Division: divisionToDTO(v.Division, nil),
		TieBreak: string(policy),
		Entries:  entries,
	}
}

func resultToDTO(v standing.Result) matchResultDTO {
	return matchResultDTO{
		MatchID:      v.MatchID,
		Date:         v.Date,
		WinnerID:     v.WinnerID,
		Winner:       v.Winner,
		LoserID:      v.LoserID,
		Loser:        v.Loser,
		WinnerScore:  v.WinnerScore,
		LoserScore:   v.LoserScore,
		WinnerPoints: v.WinnerPoints,
		LoserPoints:  v.LoserPoints,
		Draw:         v.Draw,
	}
}

func teamStatsToDTO(v standing.TeamStats) teamStatsDTO {
	return teamStatsDTO{
		TeamID:           v.TeamID,
		Team:             v.Team,
		MatchesPlayed:    v.MatchesPlayed,
		GamesPlayed:      v.GamesPlayed,
		AvgPointsPerGame: v.AvgPointsPerGame,
		AvgPointDiff:     v.AvgPointDiff,
		LongestWinStreak: v.LongestWinStreak,
	}
}

func reportToDTO(v usecase.Report) ingestionReportDTO {
	rowErrors := make([]rowErrorDTO, 0, len(v.RowErrors))
	for _, item := range v.RowErrors {
		rowErrors = append(rowErrors, rowErrorDTO{Line: item.Line, Message: item.Message})
	}
	createdTeams := v.CreatedTeams
	if createdTeams == nil {
		createdTeams = []string{}
	}

	return ingestionReportDTO{
		Status:               string(v.Status),
		Title:                v.Title,
		Description:          v.Description,
		Subject:              v.Subject,
		ReceivedAt:           formatOptionalTime(v.ReceivedAt),
		Attachment:           v.Attachment,
		CurrentRows:          v.CurrentRows,
		NewRows:              v.NewRows,
		CreatedTeams:         createdTeams,
		CreatedTeamsOverflow: v.CreatedTeamsOverflow,
		RowErrors:            rowErrors,
		RowErrorsOverflow:    v.RowErrorsOverflow,
		DatasetMayBeEmpty:    v.DatasetMayBeEmpty,
		StartedAt:            formatOptionalTime(v.StartedAt),
		FinishedAt:           formatOptionalTime(v.FinishedAt),
	}
}

func formatOptionalTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
