package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/pickleball-league/external/supabase"
	"github.com/riskibarqy/pickleball-league/internal/config"
	"github.com/riskibarqy/pickleball-league/internal/domain/division"
	"github.com/riskibarqy/pickleball-league/internal/domain/match"
	"github.com/riskibarqy/pickleball-league/internal/domain/team"
	"github.com/riskibarqy/pickleball-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pickleball-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/pickleball-league/internal/platform/id"
	"github.com/riskibarqy/pickleball-league/internal/platform/logging"
	"github.com/riskibarqy/pickleball-league/internal/platform/resilience"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const (
	dbMaxOpenConns    = 10
	dbMaxIdleConns    = 5
	dbConnMaxLifetime = 30 * time.Minute
)

type stores struct {
	divisions division.Repository
	teams     team.Repository
	matches   match.Repository
	idGen     id.Generator
	close     func() error
}

func openStores(ctx context.Context, cfg config.Config, logger *logging.Logger) (stores, error) {
	idGen := id.NewUUIDGenerator()

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return stores{
			divisions: memory.NewDivisionRepository(memory.SeedDivisions()),
			teams:     memory.NewTeamRepository(memory.SeedTeams(), idGen),
			matches:   memory.NewMatchRepository(nil),
			idGen:     idGen,
			close:     func() error { return nil },
		}, nil
	case config.StoreDriverREST:
		client := supabase.NewClient(supabase.ClientConfig{
			BaseURL:    cfg.StoreURL,
			APIKey:     cfg.StoreKey,
			Timeout:    cfg.StoreTimeout,
			MaxRetries: cfg.StoreMaxRetries,
			Logger:     logger.Named("store"),
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.StoreCircuitEnabled,
				FailureThreshold: cfg.StoreCircuitFailureCount,
				OpenTimeout:      cfg.StoreCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.StoreCircuitHalfOpenMaxReq,
			},
		})
		logger.Info("using rest store", "url", cfg.StoreURL)
		return stores{
			divisions: supabase.NewDivisionRepository(client),
			teams:     supabase.NewTeamRepository(client, idGen),
			matches:   supabase.NewMatchRepository(client),
			idGen:     idGen,
			close:     func() error { return nil },
		}, nil
	case config.StoreDriverPostgres:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return stores{}, err
		}
		if cfg.DBBootstrapSeed {
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				_ = db.Close()
				return stores{}, err
			}
		}
		logger.Info("using postgres store", "db_name", dbNameFromURL(cfg.DBURL))
		return stores{
			divisions: postgres.NewDivisionRepository(db),
			teams:     postgres.NewTeamRepository(db, idGen),
			matches:   postgres.NewMatchRepository(db),
			idGen:     idGen,
			close:     db.Close,
		}, nil
	default:
		return stores{}, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", NormalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(traceQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}
