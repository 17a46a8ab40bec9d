package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/divisions", handler.ListDivisions)
	mux.HandleFunc("GET /v1/divisions/{division}/standings", handler.GetDivisionStandings)
	mux.HandleFunc("GET /v1/divisions/{division}/standings.png", handler.GetDivisionStandingsImage)
	mux.HandleFunc("GET /v1/divisions/{division}/matches", handler.ListDivisionMatches)
	mux.HandleFunc("GET /v1/divisions/{division}/teams/{team}/stats", handler.GetTeamStats)
	mux.HandleFunc("GET /v1/league", handler.GetLeagueOverview)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/ingestion/matches", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.IngestMatches)))
}
