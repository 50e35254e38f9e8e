package exports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/smg-ev/vendor-portal/internal/jobs"
	"github.com/smg-ev/vendor-portal/internal/platform/httpx"
	"github.com/smg-ev/vendor-portal/internal/purchaseorder"
	"github.com/smg-ev/vendor-portal/internal/sor"
	"github.com/smg-ev/vendor-portal/jobs"
)

// PurchaseOrderRenderer draws a purchase order PDF.
type PurchaseOrderRenderer interface {
	RenderPDF(ctx context.Context, req purchaseorder.Request) (purchaseorder.Rendered, error)
}

// SORExporter builds a SOR spreadsheet.
type SORExporter interface {
	Export(ctx context.Context, doc sor.Document, v sor.Variant) (sor.Rendered, error)
}

// JobConfig wires the export job.
type JobConfig struct {
	PurchaseOrders PurchaseOrderRenderer
	SOR            SORExporter
	Storage        *Storage
	Logger         *slog.Logger
	Metrics        *jobmetrics.Metrics
}

// Job renders queued exports with the same services as the synchronous
// endpoints and stores the result.
type Job struct {
	cfg JobConfig
}

// NewJob constructs the job.
func NewJob(cfg JobConfig) *Job {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Job{cfg: cfg}
}

// Result describes a stored export.
type Result struct {
	Path     string
	Filename string
	Bytes    int
}

// Handle processes documents:export tasks. Payloads that can never succeed
// are not retried.
func (j *Job) Handle(ctx context.Context, t *asynq.Task) error {
	payload, err := jobs.DecodeExportPayload(t)
	if err != nil {
		j.cfg.Logger.Error("export payload rejected", slog.Any("error", err))
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	tracker := j.cfg.Metrics.Track(jobs.TaskDocumentExport)
	_, err = j.Run(ctx, payload)
	err = tracker.End(err)
	if err != nil && isPermanent(err) {
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}
	return err
}

// Run renders and stores one export.
func (j *Job) Run(ctx context.Context, payload jobs.ExportPayload) (Result, error) {
	logger := j.cfg.Logger.With(
		slog.String("export_id", payload.ExportID.String()),
		slog.String("kind", payload.Kind))
	if j.cfg.Storage == nil {
		return Result{}, errors.New("exports: storage not configured")
	}
	start := time.Now()
	filename, body, err := j.render(ctx, payload)
	if err != nil {
		logger.Error("export render failed", slog.Any("error", err))
		return Result{}, err
	}
	path, err := j.cfg.Storage.Write(payload.ExportID, filename, body)
	if err != nil {
		logger.Error("export store failed", slog.Any("error", err))
		return Result{}, err
	}
	j.cfg.Metrics.AddExportBytes(payload.Kind, len(body))
	logger.Info("export stored",
		slog.String("path", path),
		slog.Int("bytes", len(body)),
		slog.Duration("elapsed", time.Since(start)))
	return Result{Path: path, Filename: filename, Bytes: len(body)}, nil
}

func (j *Job) render(ctx context.Context, payload jobs.ExportPayload) (string, []byte, error) {
	switch payload.Kind {
	case jobs.KindPurchaseOrder:
		if j.cfg.PurchaseOrders == nil {
			return "", nil, errors.New("exports: purchase order renderer not configured")
		}
		var req purchaseorder.Request
		if err := json.Unmarshal(payload.Body, &req); err != nil {
			return "", nil, fmt.Errorf("%w: %v", jobs.ErrInvalidPayload, err)
		}
		out, err := j.cfg.PurchaseOrders.RenderPDF(ctx, req)
		return out.Filename, out.Body, err
	case jobs.KindSOR:
		if j.cfg.SOR == nil {
			return "", nil, errors.New("exports: sor exporter not configured")
		}
		v, err := sor.ParseVariant(payload.Variant)
		if err != nil {
			return "", nil, err
		}
		var doc sor.Document
		if err := json.Unmarshal(payload.Body, &doc); err != nil {
			return "", nil, fmt.Errorf("%w: %v", jobs.ErrInvalidPayload, err)
		}
		out, err := j.cfg.SOR.Export(ctx, doc, v)
		return out.Filename, out.Body, err
	default:
		return "", nil, fmt.Errorf("%w: unknown kind %q", jobs.ErrInvalidPayload, payload.Kind)
	}
}

func isPermanent(err error) bool {
	return errors.Is(err, jobs.ErrInvalidPayload) ||
		errors.Is(err, httpx.ErrValidation) ||
		errors.Is(err, httpx.ErrNotFound)
}

// PruneJob deletes stored exports older than the retention.
type PruneJob struct {
	storage   *Storage
	retention time.Duration
	logger    *slog.Logger
	metrics   *jobmetrics.Metrics
	clock     func() time.Time
}

// NewPruneJob constructs the retention job.
func NewPruneJob(storage *Storage, retention time.Duration, logger *slog.Logger, metrics *jobmetrics.Metrics) *PruneJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &PruneJob{storage: storage, retention: retention, logger: logger, metrics: metrics, clock: time.Now}
}

// Handle processes exports:prune tasks.
func (p *PruneJob) Handle(ctx context.Context, _ *asynq.Task) error {
	if p.retention <= 0 {
		return nil
	}
	tracker := p.metrics.Track(jobs.TaskExportPrune)
	removed, err := p.storage.Prune(p.clock().Add(-p.retention))
	p.metrics.AddPruned(removed)
	if err != nil {
		p.logger.Error("prune exports", slog.Any("error", err))
	} else if removed > 0 {
		p.logger.Info("pruned exports", slog.Int("removed", removed))
	}
	return tracker.End(err)
}
