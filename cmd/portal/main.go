package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/smg-ev/vendor-portal/internal/app"
	"github.com/smg-ev/vendor-portal/internal/auth"
	"github.com/smg-ev/vendor-portal/internal/catalog"
	"github.com/smg-ev/vendor-portal/internal/drafts"
	"github.com/smg-ev/vendor-portal/internal/exports"
	"github.com/smg-ev/vendor-portal/internal/observability"
	"github.com/smg-ev/vendor-portal/internal/purchaseorder"
	"github.com/smg-ev/vendor-portal/internal/sor"
	"github.com/smg-ev/vendor-portal/jobs"
	"github.com/smg-ev/vendor-portal/report"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Default().Warn("load .env", slog.Any("error", err))
	}
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping server startup")
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
	metrics := observability.NewMetrics()

	store, closeStore, err := app.OpenDraftStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("open draft store", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()
	draftService := drafts.NewService(store, logger)

	adminService, err := auth.NewService(cfg.AdminTokenHash)
	if err != nil {
		logger.Error("admin token", slog.Any("error", err))
		os.Exit(1)
	}
	if !adminService.Enabled() {
		logger.Warn("ADMIN_TOKEN_HASH not set, admin routes are disabled")
	}
	admin := auth.RequireAdmin(adminService, logger)

	pdfClient := report.NewClient(cfg.GotenbergURL)
	docs, err := app.NewDocuments(app.DocumentParams{
		Config:   cfg,
		Logger:   logger,
		Observer: metrics,
		Drafts:   draftService,
		Printer:  pdfClient,
	})
	if err != nil {
		logger.Error("init documents", slog.Any("error", err))
		os.Exit(1)
	}

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer inspector.Close()

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		Metrics:              metrics,
		PurchaseOrderHandler: purchaseorder.NewHandler(logger, docs.PurchaseOrders, app.PDFRateLimit(cfg.PDFRateLimit)),
		SORHandler:           sor.NewHandler(logger, docs.SOR),
		DraftHandler:         drafts.NewHandler(logger, draftService, admin),
		CatalogHandler:       catalog.NewHandler(logger, docs.Catalog, metrics),
		ReportHandler:        report.NewHandler(pdfClient, logger),
		ExportHandler:        exports.NewHandler(jobClient, exports.NewStorage(cfg.ExportStorageDir), admin, logger),
		JobHandler:           jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
