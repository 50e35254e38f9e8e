package sor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/smg-ev/vendor-portal/internal/drafts"
	"github.com/smg-ev/vendor-portal/internal/platform/sheet"
	"github.com/smg-ev/vendor-portal/internal/shared"
)

const metricKind = "sor"

// DraftSaver persists a submitted form, normally drafts.Service.
type DraftSaver interface {
	Save(ctx context.Context, key string, payload json.RawMessage) (drafts.Snapshot, error)
}

// Rendered is a finished document body.
type Rendered struct {
	Body        []byte
	Filename    string
	ContentType string
}

// Service exports, previews and submits SOR forms.
type Service struct {
	validate *validator.Validate
	preview  *PreviewRenderer
	drafts   DraftSaver
	observer shared.RenderObserver
	logger   *slog.Logger
}

// NewService constructs the service. drafts may be nil, in which case Submit
// fails.
func NewService(preview *PreviewRenderer, saver DraftSaver, observer shared.RenderObserver, logger *slog.Logger) *Service {
	return &Service{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		preview:  preview,
		drafts:   saver,
		observer: shared.ObserverOrNop(observer),
		logger:   logger,
	}
}

func (s *Service) check(doc Document) error {
	if err := s.validate.Struct(doc); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, shared.ValidationMessage(err))
	}
	return nil
}

// Export returns the variant's spreadsheet.
func (s *Service) Export(ctx context.Context, doc Document, v Variant) (Rendered, error) {
	start := time.Now()
	out, err := s.export(doc, v)
	s.observer.ObserveRender(metricKind, "xlsx", time.Since(start), err)
	return out, err
}

func (s *Service) export(doc Document, v Variant) (Rendered, error) {
	if err := s.check(doc); err != nil {
		return Rendered{}, err
	}
	wb, err := Export(doc, v)
	if err != nil {
		return Rendered{}, fmt.Errorf("sor: export %s: %w", v, err)
	}
	defer wb.Close()
	body, err := wb.Bytes()
	if err != nil {
		return Rendered{}, fmt.Errorf("sor: export %s: %w", v, err)
	}
	return Rendered{Body: body, Filename: wb.Filename, ContentType: sheet.ContentType}, nil
}

// Preview renders the HTML preview page.
func (s *Service) Preview(ctx context.Context, doc Document, v Variant) (Rendered, error) {
	start := time.Now()
	out, err := s.renderPreview(doc, v)
	s.observer.ObserveRender(metricKind, "html", time.Since(start), err)
	return out, err
}

func (s *Service) renderPreview(doc Document, v Variant) (Rendered, error) {
	if s.preview == nil {
		return Rendered{}, fmt.Errorf("sor: preview renderer not configured")
	}
	if err := s.check(doc); err != nil {
		return Rendered{}, err
	}
	body, err := s.preview.Render(BuildPreview(doc, v, s.logger))
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Body: body, Filename: string(v) + "_preview.html", ContentType: "text/html; charset=utf-8"}, nil
}

// Submit stores the form under the variant's draft key. There is no remote
// submission endpoint; the saved snapshot is the submission.
func (s *Service) Submit(ctx context.Context, doc Document, v Variant) (drafts.Snapshot, error) {
	if s.drafts == nil {
		return drafts.Snapshot{}, fmt.Errorf("sor: draft store not configured")
	}
	if err := s.check(doc); err != nil {
		return drafts.Snapshot{}, err
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return drafts.Snapshot{}, fmt.Errorf("sor: encode submission: %w", err)
	}
	snap, err := s.drafts.Save(ctx, v.DraftKey(), payload)
	if err != nil {
		return drafts.Snapshot{}, fmt.Errorf("sor: submit %s: %w", v, err)
	}
	if s.logger != nil {
		s.logger.Info("sor submitted", slog.String("variant", string(v)), slog.Int("rows", len(doc.Rows(v))))
	}
	return snap, nil
}
