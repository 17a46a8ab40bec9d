package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/pickleball-league/internal/config"
	"github.com/riskibarqy/pickleball-league/internal/domain/standing"
	"github.com/riskibarqy/pickleball-league/internal/infrastructure/notify/slack"
	repocache "github.com/riskibarqy/pickleball-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/pickleball-league/internal/infrastructure/sharecard"
	"github.com/riskibarqy/pickleball-league/internal/interfaces/httpapi"
	"github.com/riskibarqy/pickleball-league/internal/platform/cache"
	"github.com/riskibarqy/pickleball-league/internal/platform/logging"
	"github.com/riskibarqy/pickleball-league/internal/usecase"
)

// Services is the wired use-case layer shared by the API and the CLI.
type Services struct {
	Standings *usecase.StandingsService
	Ingestion *usecase.IngestionService

	closeStores func() error
}

// NewServices opens the configured store. Reads go through the TTL cache when
// enabled; ingestion always talks to the store directly and purges the cache
// after a successful run.
func NewServices(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, err := openStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	readDivisions, readTeams, readMatches := repos.divisions, repos.teams, repos.matches
	var readCache *cache.Store
	if cfg.CacheEnabled {
		readCache = cache.NewStore(cfg.CacheTTL)
		readDivisions = repocache.NewDivisionRepository(repos.divisions, readCache)
		readTeams = repocache.NewTeamRepository(repos.teams, readCache)
		readMatches = repocache.NewMatchRepository(repos.matches, readCache)
	}

	notifier := slack.NewNotifier(slack.NotifierConfig{
		WebhookURL: cfg.SlackWebhookURL,
		Timeout:    cfg.SlackTimeout,
	}, logger.Named("slack"))
	if !notifier.Enabled() {
		logger.Info("slack notifications disabled", "reason", "SLACK_WEBHOOK_URL empty")
	}

	ingestionOpts := []usecase.IngestionOption{
		usecase.WithStoreTimeout(cfg.StoreTimeout),
		usecase.WithIngestionLogger(logger.Named("ingestion")),
	}
	if readCache != nil {
		ingestionOpts = append(ingestionOpts, usecase.WithReadCache(readCache))
	}

	return &Services{
		Standings: usecase.NewStandingsService(
			readDivisions,
			readTeams,
			readMatches,
			readCache,
			standing.ParseTieBreak(cfg.StandingsTieBreak),
		),
		Ingestion: usecase.NewIngestionService(
			repos.divisions,
			repos.teams,
			repos.matches,
			repos.idGen,
			notifier,
			ingestionOpts...,
		),
		closeStores: repos.close,
	}, nil
}

func (s *Services) Close() error {
	if s == nil || s.closeStores == nil {
		return nil
	}
	return s.closeStores()
}

func NewHTTPServer(cfg config.Config, services *Services, logger *logging.Logger) (*http.Server, error) {
	if services == nil {
		return nil, fmt.Errorf("services are required")
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(
		services.Standings,
		services.Ingestion,
		sharecard.NewRenderer(sharecard.DefaultPalette),
		logger,
		int64(cfg.IngestMaxUploadBytes),
	)
	router := httpapi.NewRouter(
		handler,
		logger,
		cfg.AppEnv != config.EnvProd,
		cfg.CORSAllowedOrigins,
		cfg.InternalJobToken,
	)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}
