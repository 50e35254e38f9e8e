package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/smg-ev/vendor-portal/internal/app"
	"github.com/smg-ev/vendor-portal/internal/exports"
	jobmetrics "github.com/smg-ev/vendor-portal/internal/jobs"
	"github.com/smg-ev/vendor-portal/jobs"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Default().Warn("load .env", slog.Any("error", err))
	}
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)
	metrics := jobmetrics.NewMetrics(nil)

	docs, err := app.NewDocuments(app.DocumentParams{Config: cfg, Logger: logger})
	if err != nil {
		logger.Error("init documents", slog.Any("error", err))
		os.Exit(1)
	}

	storage := exports.NewStorage(cfg.ExportStorageDir)
	exportJob := exports.NewJob(exports.JobConfig{
		PurchaseOrders: docs.PurchaseOrders,
		SOR:            docs.SOR,
		Storage:        storage,
		Logger:         logger,
		Metrics:        metrics,
	})
	pruneJob := exports.NewPruneJob(storage, cfg.ExportRetention, logger, metrics)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskDocumentExport, Handler: exportJob.Handle},
			{Type: jobs.TaskExportPrune, Handler: pruneJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "30 2 * * *", Task: jobs.NewExportPruneTask(), Options: []asynq.Option{asynq.MaxRetry(1)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker", slog.String("storage", storage.Dir()))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
