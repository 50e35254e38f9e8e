package catalog

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/smg-ev/vendor-portal/internal/platform/httpx"
	"github.com/smg-ev/vendor-portal/internal/platform/sheet"
	"github.com/smg-ev/vendor-portal/internal/shared"
)

// Handler exposes catalog reads over HTTP.
type Handler struct {
	logger   *slog.Logger
	repo     Repository
	observer shared.RenderObserver
}

// NewHandler constructs the catalog handler.
func NewHandler(logger *slog.Logger, repo Repository, observer shared.RenderObserver) *Handler {
	return &Handler{logger: logger, repo: repo, observer: shared.ObserverOrNop(observer)}
}

// MountRoutes registers catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/vendors", h.listVendors)
	r.Get("/vendors/{id}", h.getVendor)
	r.Get("/components", h.listComponents)
	r.Get("/components/stock.xlsx", h.exportStock)
}

func (h *Handler) listVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.repo.ListVendors(r.Context())
	if err != nil {
		h.fail(w, "list vendors", err)
		return
	}
	httpx.JSON(w, http.StatusOK, vendors)
}

func (h *Handler) getVendor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	vendor, err := h.repo.GetVendor(r.Context(), id)
	if err != nil {
		h.fail(w, "get vendor", err, slog.String("vendor_id", id))
		return
	}
	httpx.JSON(w, http.StatusOK, vendor)
}

func (h *Handler) listComponents(w http.ResponseWriter, r *http.Request) {
	components, err := h.repo.ListComponents(r.Context())
	if err != nil {
		h.fail(w, "list components", err)
		return
	}
	httpx.JSON(w, http.StatusOK, components)
}

func (h *Handler) exportStock(w http.ResponseWriter, r *http.Request) {
	components, err := h.repo.ListComponents(r.Context())
	if err != nil {
		h.fail(w, "list components", err)
		return
	}
	start := time.Now()
	body, err := ExportStockLevels(components)
	h.observer.ObserveRender("stock", "xlsx", time.Since(start), err)
	if err != nil {
		h.fail(w, "export stock levels", err)
		return
	}
	httpx.Attachment(w, sheet.ContentType, StockFilename, body)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error, attrs ...any) {
	if h.logger != nil {
		h.logger.Error("catalog: "+op, append(attrs, slog.Any("error", err))...)
	}
	httpx.RespondError(w, err)
}
