package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/smg-ev/vendor-portal/internal/catalog"
	"github.com/smg-ev/vendor-portal/internal/drafts"
	"github.com/smg-ev/vendor-portal/internal/exports"
	"github.com/smg-ev/vendor-portal/internal/observability"
	"github.com/smg-ev/vendor-portal/internal/purchaseorder"
	"github.com/smg-ev/vendor-portal/internal/sor"
	"github.com/smg-ev/vendor-portal/jobs"
	"github.com/smg-ev/vendor-portal/report"
)

// RouterParams groups dependencies for building the HTTP router. Nil
// handlers leave their routes unmounted.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics

	PurchaseOrderHandler *purchaseorder.Handler
	SORHandler           *sor.Handler
	DraftHandler         *drafts.Handler
	CatalogHandler       *catalog.Handler
	ReportHandler        *report.Handler
	ExportHandler        *exports.Handler
	JobHandler           *jobs.Handler
}

// NewRouter constructs the chi.Router with portal defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.PurchaseOrderHandler != nil {
		r.Route("/purchase-orders", params.PurchaseOrderHandler.MountRoutes)
	}
	if params.SORHandler != nil {
		r.Route("/sor", params.SORHandler.MountRoutes)
	}
	if params.DraftHandler != nil {
		r.Route("/drafts", params.DraftHandler.MountRoutes)
	}
	if params.CatalogHandler != nil {
		r.Route("/catalog", params.CatalogHandler.MountRoutes)
	}
	if params.ReportHandler != nil {
		r.Route("/report", params.ReportHandler.MountRoutes)
	}
	if params.ExportHandler != nil {
		r.Route("/exports", params.ExportHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
