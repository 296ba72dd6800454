// Package server initializes and runs the backend: storage selection,
// schema migrations, the REST endpoint and graceful shutdown on OS
// signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/avasiljevs/healthsync/internal/logging"
	"github.com/avasiljevs/healthsync/internal/server/config"
	"github.com/avasiljevs/healthsync/internal/server/repositories/repomanager"
	"github.com/avasiljevs/healthsync/internal/server/rest"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *rest.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout)

	var (
		manager repomanager.RepositoryManager
		db      *sql.DB
	)
	if c.DatabaseDSN != "" {
		var err error
		db, err = sql.Open("pgx", c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		manager = repomanager.NewPostgresRepositoryManager()
		if err := manager.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("migration error: %w", err)
		}
	} else {
		logger.Warn(ctx, "no database DSN configured, using in-memory storage")
		manager = repomanager.NewInMemoryRepositoryManager()
	}

	server := rest.NewServer(logger, manager.Users(db), manager.Records(db), c.SecretKey, c.TokenValidityDuration)

	return &App{config: c, logger: logger, db: db, server: server}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting server", "addr", app.config.RunAddr)
	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx, app.config.RunAddr)

	if app.db != nil {
		if closeErr := app.db.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}
