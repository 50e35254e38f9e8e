package purchaseorder

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/smg-ev/vendor-portal/internal/platform/httpx"
)

const maxBodyBytes = 4 << 20

// Handler wires purchase-order document endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rateLimit func(http.Handler) http.Handler
}

// NewHandler constructs the handler. rateLimit guards the PDF routes and may
// be nil.
func NewHandler(logger *slog.Logger, service *Service, rateLimit func(http.Handler) http.Handler) *Handler {
	if rateLimit == nil {
		rateLimit = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{logger: logger, service: service, rateLimit: rateLimit}
}

// MountRoutes registers purchase-order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/preview", h.preview)
	r.Group(func(r chi.Router) {
		r.Use(h.rateLimit)
		r.Post("/pdf", h.pdf)
		r.Post("/print.pdf", h.printPDF)
	})
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		h.fail(w, r, "decode", err)
		return
	}
	out, err := h.service.RenderHTML(r.Context(), req)
	if err != nil {
		h.fail(w, r, "render html", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Body)
}

func (h *Handler) pdf(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		h.fail(w, r, "decode", err)
		return
	}
	out, err := h.service.RenderPDF(r.Context(), req)
	if err != nil {
		h.fail(w, r, "render pdf", err)
		return
	}
	httpx.Attachment(w, "application/pdf", out.Filename, out.Body)
}

func (h *Handler) printPDF(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		h.fail(w, r, "decode", err)
		return
	}
	out, err := h.service.RenderPrintPDF(r.Context(), req)
	if err != nil {
		h.fail(w, r, "print pdf", err)
		return
	}
	httpx.Attachment(w, "application/pdf", out.Filename, out.Body)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if h.logger != nil {
		h.logger.Error("purchase order "+op+" failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

// decodeRequest accepts a JSON body, or a form whose payload field holds the
// JSON. The print view's download button posts the form variant.
func decodeRequest(w http.ResponseWriter, r *http.Request) (Request, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req Request
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return req, fmt.Errorf("%w: form: %v", ErrValidation, err)
		}
		payload := strings.TrimSpace(r.PostFormValue("payload"))
		if payload == "" {
			return req, fmt.Errorf("%w: payload field required", ErrValidation)
		}
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return req, fmt.Errorf("%w: malformed payload: %v", ErrValidation, err)
		}
		return req, nil
	default:
		if err := httpx.DecodeJSON(r, &req); err != nil {
			return req, fmt.Errorf("purchaseorder: %w", err)
		}
		return req, nil
	}
}
