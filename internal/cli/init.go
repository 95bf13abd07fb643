// Package cli provides the initialization steps shared by cmd/moneynote,
// cmd/moneynote-worker and cmd/notectl.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"moneynote/internal/backend"
	"moneynote/internal/cache"
	"moneynote/internal/config"
	"moneynote/internal/core"
	applog "moneynote/internal/log"
	"moneynote/internal/repository"
)

// SetupLogger builds the application logger from LOG_LEVEL and LOG_FORMAT
// and installs it as the slog default. An unknown level falls back to info.
func SetupLogger(cfg *config.Config, out io.Writer) *applog.Logger {
	lc := applog.DefaultConfig()
	if out != nil {
		lc.Output = out
	}
	if cfg != nil {
		if level, err := applog.ParseLevel(cfg.LogLevel); err == nil {
			lc.Level = level
		}
		lc.Format = cfg.LogFormat
	}
	logger := applog.New(lc)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile(files ...string) {
	_ = godotenv.Load(files...)
}

// LoadAndValidateConfig loads configuration and validates it with check,
// which defaults to (*config.Config).Validate.
func LoadAndValidateConfig(check func(*config.Config) error) (*config.Config, error) {
	cfg := config.Load()
	if check == nil {
		check = (*config.Config).Validate
	}
	if err := check(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoadConfig is LoadAndValidateConfig for process entry points. It
// exits the process on validation failure.
func MustLoadConfig(logger *applog.Logger, check func(*config.Config) error) *config.Config {
	cfg, err := LoadAndValidateConfig(check)
	if err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// App bundles what a process needs to serve records.
type App struct {
	Repo    *repository.Repository
	Caches  *cache.Manager
	Reports *cache.LRUCache[core.Report]
	Cleanup backend.CleanupFunc
}

// BuildApp creates the configured backend, the report cache and the
// repository, then loads the initial record list. A failed initial load is
// logged and left for a later refresh.
func BuildApp(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*App, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	reports := cache.NewLRUCache[core.Report](cfg.ReportCacheSize, cfg.ReportCacheTTL)
	caches := cache.NewManager(logger)
	caches.Register("reports", reports)

	repo := repository.New(res.Store, repository.Options{
		Notifier: res.Notifier,
		Reports:  reports,
		Logger:   logger,
	})
	if err := repo.Refresh(ctx); err != nil {
		logger.Warn("Initial record load failed", applog.FieldError, err)
	}

	return &App{Repo: repo, Caches: caches, Reports: reports, Cleanup: res.Cleanup}, nil
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM. cleanup
// runs after cancellation and is bounded by timeout; done closes when it
// has finished.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		<-ctx.Done()
		stop()
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		finished := make(chan struct{})
		go func() {
			defer close(finished)
			if cleanup != nil {
				cleanup(shutdownCtx)
			}
		}()

		select {
		case <-finished:
			logger.Info("Shutdown complete")
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		}
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup is done.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
