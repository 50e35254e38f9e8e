package exports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/smg-ev/vendor-portal/internal/platform/httpx"
	"github.com/smg-ev/vendor-portal/jobs"
)

const maxBodyBytes = 16 << 20

// ErrQueueUnavailable is returned when no queue client is configured.
var ErrQueueUnavailable = fmt.Errorf("exports: queue not configured: %w", httpx.ErrUpstream)

// Enqueuer submits export tasks; *jobs.Client satisfies it.
type Enqueuer interface {
	EnqueueDocumentExport(ctx context.Context, payload jobs.ExportPayload) (*asynq.TaskInfo, error)
}

// Request is the body of POST /exports.
type Request struct {
	Kind    string          `json:"kind"`
	Variant string          `json:"variant,omitempty"`
	Body    json.RawMessage `json:"body"`
}

// Accepted is returned once an export is queued.
type Accepted struct {
	ExportID uuid.UUID `json:"exportId"`
	Queue    string    `json:"queue"`
	State    string    `json:"state"`
	Location string    `json:"location"`
}

// Handler queues exports and serves finished files. Both routes sit behind
// the admin guard.
type Handler struct {
	queue   Enqueuer
	storage *Storage
	admin   func(http.Handler) http.Handler
	logger  *slog.Logger
	newID   func() uuid.UUID
}

// NewHandler constructs the handler. admin may be nil.
func NewHandler(queue Enqueuer, storage *Storage, admin func(http.Handler) http.Handler, logger *slog.Logger) *Handler {
	if admin == nil {
		admin = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{queue: queue, storage: storage, admin: admin, logger: logger, newID: uuid.New}
}

// MountRoutes registers export routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.admin)
		r.Post("/", h.enqueue)
		r.Get("/{id}", h.download)
	})
}

func (h *Handler) enqueue(w http.ResponseWriter, r *http.Request) {
	if h.queue == nil {
		h.fail(w, "enqueue", ErrQueueUnavailable)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req Request
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, "decode", err)
		return
	}
	payload := jobs.ExportPayload{ExportID: h.newID(), Kind: req.Kind, Variant: req.Variant, Body: req.Body}
	if err := payload.Validate(); err != nil {
		h.fail(w, "validate", fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	info, err := h.queue.EnqueueDocumentExport(r.Context(), payload)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			err = fmt.Errorf("exports: %w: %v", httpx.ErrConflict, err)
		} else {
			err = fmt.Errorf("exports: enqueue: %w: %v", httpx.ErrUpstream, err)
		}
		h.fail(w, "enqueue", err)
		return
	}
	out := Accepted{ExportID: payload.ExportID, Queue: jobs.QueueDefault, State: "pending", Location: "/exports/" + payload.ExportID.String()}
	if info != nil {
		out.Queue = info.Queue
		out.State = info.State.String()
	}
	w.Header().Set("Location", out.Location)
	httpx.JSON(w, http.StatusAccepted, out)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "parse id", fmt.Errorf("%w: export id", httpx.ErrValidation))
		return
	}
	if h.storage == nil {
		h.fail(w, "download", ErrNotReady)
		return
	}
	path, name, err := h.storage.Find(id)
	if err != nil {
		h.fail(w, "find", err)
		return
	}
	body, err := os.ReadFile(path)
	if err != nil {
		h.fail(w, "read", err)
		return
	}
	httpx.Attachment(w, contentType(name), name, body)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if h.logger != nil {
		h.logger.Warn("export "+op+" failed", slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
