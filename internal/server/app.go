// Package server initializes and runs the application server. It opens the
// database, applies migrations, wires the services and the HTTP API, seeds the
// demo account when configured, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/vblinov/linkhub/internal/logging"
	"github.com/vblinov/linkhub/internal/server/cache"
	"github.com/vblinov/linkhub/internal/server/config"
	"github.com/vblinov/linkhub/internal/server/httpapi"
	"github.com/vblinov/linkhub/internal/server/repositories/repomanager"
	"github.com/vblinov/linkhub/internal/server/seed"
	"github.com/vblinov/linkhub/internal/server/services"
)

type App struct {
	config *config.Config
	logger *logging.ZapLogger

	db     *sql.DB
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	logger, err := logging.NewZapLogger(cfg.LogLevel, cfg.PrettyLog)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	return &App{config: cfg, logger: logger}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// openDB opens the connection pool and waits for the database to accept
// pings, backing off between attempts. Container setups often start the
// server before PostgreSQL is ready.
func (app *App) openDB(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", app.config.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	backoff := retry.WithMaxRetries(5, retry.NewExponential(time.Second))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			app.logger.Warn(ctx, "database not ready, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

func (app *App) initCache(ctx context.Context) cache.Store {
	if app.config.RedisAddr == "" {
		return cache.Noop{}
	}
	client, err := cache.Connect(ctx, app.config.RedisAddr, app.config.RedisPassword, app.config.RedisDB)
	if err != nil {
		app.logger.Warn(ctx, "redis unavailable, running without cache", "error", err)
		return cache.Noop{}
	}
	return cache.NewRedisStore(client, app.logger)
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting server")
	app.initSignalHandler(cancelFunc)

	db, err := app.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	app.db = db

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	cacheStore := app.initCache(ctx)

	userService := services.NewUserService(db, repos, app.config)
	categoryService := services.NewCategoryService(db, repos, cacheStore)
	bookmarkService := services.NewBookmarkService(db, repos, cacheStore)
	iconService := services.NewIconService(app.config)

	if app.config.SeedFile != "" {
		err := seed.Run(ctx, app.config.SeedFile, app.config.DemoUsername, app.config.DemoPassword,
			userService, categoryService, bookmarkService, app.logger)
		if err != nil {
			app.logger.Warn(ctx, "demo seeding failed", "error", err)
		}
	}

	api := httpapi.NewAPI(app.config, app.logger,
		userService, categoryService, bookmarkService, iconService)
	app.server = httpapi.New(app.config, app.logger, api)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.server.Stop(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "shutdown error", "error", err)
		}
		<-errCh
	}

	app.logger.Info(context.Background(), "server stopped")
	app.logger.Sync()
	return nil
}
