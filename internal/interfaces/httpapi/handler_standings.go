package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ListDivisions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDivisions")
	defer span.End()

	summaries, err := h.standingsService.ListDivisions(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list divisions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]divisionDTO, 0, len(summaries))
	for _, item := range summaries {
		items = append(items, divisionToDTO(item.Division, item.Teams))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetDivisionStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDivisionStandings")
	defer span.End()

	divisionRef := strings.TrimSpace(r.PathValue("division"))
	table, err := h.standingsService.Standings(ctx, divisionRef)
	if err != nil {
		h.logger.WarnContext(ctx, "get division standings failed", "division", divisionRef, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(table, h.standingsService.Policy()))
}

// GetDivisionStandingsImage serves the share image; it is the only non-JSON success body.
func (h *Handler) GetDivisionStandingsImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDivisionStandingsImage")
	defer span.End()

	divisionRef := strings.TrimSpace(r.PathValue("division"))
	table, err := h.standingsService.Standings(ctx, divisionRef)
	if err != nil {
		h.logger.WarnContext(ctx, "get division standings image failed", "division", divisionRef, "error", err)
		writeError(ctx, w, err)
		return
	}

	image, err := h.imageRenderer.RenderStandings(table.Division.Name+" Standings", table.Entries)
	if err != nil {
		h.logger.ErrorContext(ctx, "render standings image failed", "division_id", table.Division.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(image)
}

func (h *Handler) ListDivisionMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDivisionMatches")
	defer span.End()

	divisionRef := strings.TrimSpace(r.PathValue("division"))
	div, results, err := h.standingsService.Results(ctx, divisionRef)
	if err != nil {
		h.logger.WarnContext(ctx, "list division matches failed", "division", divisionRef, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchResultDTO, 0, len(results))
	for _, item := range results {
		items = append(items, resultToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, divisionResultsDTO{
		Division: divisionToDTO(div, nil),
		Matches:  items,
	})
}

func (h *Handler) GetTeamStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamStats")
	defer span.End()

	divisionRef := strings.TrimSpace(r.PathValue("division"))
	teamRef := strings.TrimSpace(r.PathValue("team"))
	stats, err := h.standingsService.TeamStats(ctx, divisionRef, teamRef)
	if err != nil {
		h.logger.WarnContext(ctx, "get team stats failed", "division", divisionRef, "team", teamRef, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamStatsToDTO(stats))
}

func (h *Handler) GetLeagueOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueOverview")
	defer span.End()

	tables, err := h.standingsService.LeagueOverview(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get league overview failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	policy := h.standingsService.Policy()
	items := make([]divisionStandingsDTO, 0, len(tables))
	for _, item := range tables {
		items = append(items, standingsToDTO(item, policy))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
