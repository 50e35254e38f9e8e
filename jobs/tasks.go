package jobs

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDocumentExport renders a document and stores the file.
	TaskDocumentExport = "documents:export"
	// TaskExportPrune removes stored exports past their retention.
	TaskExportPrune = "exports:prune"
)

// Export kinds.
const (
	KindPurchaseOrder = "purchase_order"
	KindSOR           = "sor"
)

// ErrInvalidPayload is returned for export payloads that cannot run.
var ErrInvalidPayload = errors.New("jobs: invalid export payload")

// ExportPayload describes one queued document export. Body is the same JSON
// the synchronous endpoint of that kind accepts.
type ExportPayload struct {
	ExportID uuid.UUID       `json:"exportId"`
	Kind     string          `json:"kind"`
	Variant  string          `json:"variant,omitempty"`
	Body     json.RawMessage `json:"body"`
}

// Validate checks the fields every export needs.
func (p ExportPayload) Validate() error {
	if p.ExportID == uuid.Nil {
		return fmt.Errorf("%w: export id required", ErrInvalidPayload)
	}
	switch p.Kind {
	case KindPurchaseOrder:
	case KindSOR:
		if p.Variant == "" {
			return fmt.Errorf("%w: sor export needs a variant", ErrInvalidPayload)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPayload, p.Kind)
	}
	if len(p.Body) == 0 || !json.Valid(p.Body) {
		return fmt.Errorf("%w: body must be json", ErrInvalidPayload)
	}
	return nil
}

// NewDocumentExportTask constructs an Asynq task.
func NewDocumentExportTask(payload ExportPayload) (*asynq.Task, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDocumentExport, data, asynq.TaskID(payload.ExportID.String())), nil
}

// DecodeExportPayload parses and validates a task payload.
func DecodeExportPayload(t *asynq.Task) (ExportPayload, error) {
	var payload ExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return payload, payload.Validate()
}

// NewExportPruneTask constructs the periodic cleanup task.
func NewExportPruneTask() *asynq.Task {
	return asynq.NewTask(TaskExportPrune, nil)
}
