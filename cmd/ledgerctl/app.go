package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	portssvc "github.com/SscSPs/pocket_ledger/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger/internal/core/services"
	"github.com/SscSPs/pocket_ledger/internal/platform/config"
	"github.com/SscSPs/pocket_ledger/internal/platform/metrics"
	"github.com/SscSPs/pocket_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/pocket_ledger/pkg/database"
	"github.com/google/subcommands"
	"github.com/jackc/pgx/v5/pgxpool"
)

// app holds what every database-backed command needs.
type app struct {
	cfg      *config.Config
	pool     *pgxpool.Pool
	services *portssvc.ServiceContainer
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return nil, err
	}
	repos := pgsql.NewRepositoryProvider(pool)
	return &app{
		cfg:      cfg,
		pool:     pool,
		services: services.NewServiceContainer(cfg, repos, metrics.Nop{}),
	}, nil
}

func (a *app) Close() {
	database.ClosePgxPool(a.pool)
}

// withApp opens the ledger, runs fn and maps its error onto an exit status.
func withApp(ctx context.Context, fn func(*app) error) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not open ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := fn(a); err != nil {
		slog.Debug("command failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
