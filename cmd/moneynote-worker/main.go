package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"moneynote/internal/amqp"
	"moneynote/internal/backend"
	"moneynote/internal/cli"
	"moneynote/internal/config"
	applog "moneynote/internal/log"
	"moneynote/internal/records"
	"moneynote/internal/storage"
	"moneynote/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.MustLoadConfig(cli.SetupLogger(nil, nil), func(c *config.Config) error {
		return errors.Join(c.Validate(), c.ValidateWorker())
	})
	logger := cli.SetupLogger(cfg, nil).WithComponent(applog.ComponentWorker)
	logger.Info("Starting moneynote-worker", "mirror", cfg.MirrorDBPath, "queue", cfg.AMQPQueue)

	mirror, err := storage.NewSQLiteRepository(cfg.MirrorDBPath)
	if err != nil {
		logger.Error("Failed to open mirror database", applog.FieldError, err, "path", cfg.MirrorDBPath)
		os.Exit(1)
	}
	defer mirror.Close()

	mw := worker.NewMirrorWorker(mirror, logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	source, cleanup := openSource(ctx, cfg, logger)
	if cleanup != nil {
		defer cleanup()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqp.RunConsumer(gctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, mw.HandleEvent)
	})
	if source != nil {
		g.Go(func() error {
			reconcileLoop(gctx, mw, source, cfg.ReconcileInterval, logger)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}

// openSource opens the configured store without event publishing so the
// mirror can be reconciled against it. A store that cannot be opened only
// disables reconciliation.
func openSource(ctx context.Context, cfg *config.Config, logger *applog.Logger) (records.Lister, backend.CleanupFunc) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Warn("Reconciliation disabled", applog.FieldError, err)
		return nil, nil
	}
	bcfg.AMQPURL = ""
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		logger.Warn("Reconciliation disabled", applog.FieldError, err)
		return nil, nil
	}
	return res.Store, res.Cleanup
}

// reconcileLoop reconciles once at startup and then every interval.
func reconcileLoop(ctx context.Context, mw *worker.MirrorWorker, source records.Lister, interval time.Duration, logger *applog.Logger) {
	if err := mw.Reconcile(ctx, source); err != nil {
		logger.Error("Startup reconciliation failed", applog.FieldError, err)
	}
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := mw.Reconcile(ctx, source); err != nil {
				logger.Error("Periodic reconciliation failed", applog.FieldError, err)
			}
		}
	}
}
