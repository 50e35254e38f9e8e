package drafts

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smg-ev/vendor-portal/internal/platform/httpx"
)

const maxDraftBytes = 8 << 20

// Handler exposes draft save/load/clear.
type Handler struct {
	logger  *slog.Logger
	service *Service
	admin   func(http.Handler) http.Handler
}

// NewHandler constructs the handler. admin guards clearing and may be nil.
func NewHandler(logger *slog.Logger, service *Service, admin func(http.Handler) http.Handler) *Handler {
	if admin == nil {
		admin = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{logger: logger, service: service, admin: admin}
}

// MountRoutes registers draft routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{key}", h.load)
	r.Put("/{key}", h.save)
	r.With(h.admin).Delete("/{key}", h.clear)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	snap, err := h.service.Load(r.Context(), key)
	if err != nil {
		h.fail(w, "load", key, err)
		return
	}
	httpx.JSON(w, http.StatusOK, snap)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDraftBytes))
	if err != nil {
		h.fail(w, "read", key, httpx.ErrValidation)
		return
	}
	snap, err := h.service.Save(r.Context(), key, json.RawMessage(body))
	if err != nil {
		h.fail(w, "save", key, err)
		return
	}
	httpx.JSON(w, http.StatusOK, snap)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := h.service.Clear(r.Context(), key); err != nil {
		h.fail(w, "clear", key, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, op, key string, err error) {
	if h.logger != nil {
		h.logger.Warn("draft "+op+" failed", slog.String("key", key), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
