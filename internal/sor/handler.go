package sor

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/smg-ev/vendor-portal/internal/platform/httpx"
)

const maxBodyBytes = 16 << 20

// Handler wires the SOR export, preview and submit endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers SOR routes under /{variant}.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/{variant}", func(r chi.Router) {
		r.Post("/export", h.export)
		r.Post("/preview", h.preview)
		r.Post("/submit", h.submit)
	})
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	v, doc, ok := h.decode(w, r)
	if !ok {
		return
	}
	out, err := h.service.Export(r.Context(), doc, v)
	if err != nil {
		h.fail(w, r, "export", err)
		return
	}
	httpx.Attachment(w, out.ContentType, out.Filename, out.Body)
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	v, doc, ok := h.decode(w, r)
	if !ok {
		return
	}
	out, err := h.service.Preview(r.Context(), doc, v)
	if err != nil {
		h.fail(w, r, "preview", err)
		return
	}
	w.Header().Set("Content-Type", out.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Body)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	v, doc, ok := h.decode(w, r)
	if !ok {
		return
	}
	if _, err := h.service.Submit(r.Context(), doc, v); err != nil {
		h.fail(w, r, "submit", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (Variant, Document, bool) {
	v, err := ParseVariant(chi.URLParam(r, "variant"))
	if err != nil {
		h.fail(w, r, "variant", err)
		return "", Document{}, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var doc Document
	if err := httpx.DecodeJSON(r, &doc); err != nil {
		h.fail(w, r, "decode", err)
		return "", Document{}, false
	}
	return v, doc, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if h.logger != nil {
		h.logger.Warn("sor "+op+" failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
