// Package app wires configuration, logging, storage and services into a
// running application.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/nutriplan-backend/internal/adapter/gemini"
	"github.com/heartmarshall/nutriplan-backend/internal/adapter/postgres"
	"github.com/heartmarshall/nutriplan-backend/internal/adapter/postgres/daystore"
	"github.com/heartmarshall/nutriplan-backend/internal/config"
	"github.com/heartmarshall/nutriplan-backend/internal/service/goals"
	"github.com/heartmarshall/nutriplan-backend/internal/service/ledger"
	"github.com/heartmarshall/nutriplan-backend/internal/service/planner"
	"github.com/heartmarshall/nutriplan-backend/internal/service/session"
)

// App holds the wired application graph.
type App struct {
	Cfg     *config.Config
	Log     *slog.Logger
	Goals   *goals.Service
	Ledger  *ledger.Service
	Session *session.Service

	pool *pgxpool.Pool
}

// Bootstrap loads configuration, connects to the database, applies
// migrations when enabled and wires all services.
func Bootstrap(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	if cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
			pool.Close()
			return nil, fmt.Errorf("app: %w", err)
		}
	}

	store := daystore.New(pool, logger)
	goalsSvc := goals.NewService(logger, store)
	ledgerSvc := ledger.NewService(logger)
	builder := planner.NewBuilder(logger, cfg.Planner)
	provider := gemini.New(cfg.Gemini, logger)

	sessionSvc := session.NewService(
		logger,
		provider,
		provider,
		goalsSvc,
		ledgerSvc,
		builder,
		store,
		clockwork.NewRealClock(),
		cfg.Session,
	)

	return &App{
		Cfg:     cfg,
		Log:     logger,
		Goals:   goalsSvc,
		Ledger:  ledgerSvc,
		Session: sessionSvc,
		pool:    pool,
	}, nil
}

// Close releases held resources.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
