package sor

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/smg-ev/vendor-portal/internal/media"
	"github.com/smg-ev/vendor-portal/internal/view"
)

const (
	previewTemplate = "documents/sor_preview.html"
	thumbSize       = 96
	placeholderText = "No rows added yet"
)

// maxPreviewImageBytes caps the decoded attachment data thumbnailed for one
// preview. Attachments past the budget are listed by name only.
var maxPreviewImageBytes = 8 << 20

var errImageBudget = errors.New("sor: preview image budget exhausted")

// PreviewImage is an inline thumbnail. URI is empty when the attachment had
// no decodable data; the name is still shown.
type PreviewImage struct {
	Name string
	URI  template.URL
}

// PreviewRow is one numbered table row.
type PreviewRow struct {
	Number int
	Cells  []string
	Images []PreviewImage
}

// Preview is the view model of the HTML preview.
type Preview struct {
	Title       string
	Subtitle    string
	Headers     []string
	Rows        []PreviewRow
	Placeholder string
	Leading     []Section
	Trailing    []Section
}

// BuildPreview assembles the view model. An empty table yields exactly one
// placeholder row.
func BuildPreview(doc Document, v Variant, logger *slog.Logger) Preview {
	p := Preview{Title: v.Title(), Subtitle: doc.Subtitle(), Headers: Headers(v)}
	budget := maxPreviewImageBytes
	for i, cells := range doc.Rows(v) {
		row := PreviewRow{Number: i + 1, Cells: cells}
		if v == VariantElectrical {
			// The image column is replaced by thumbnails.
			row.Cells = cells[:len(cells)-1]
			row.Images = thumbnails(doc.TechnicalRows[i].Images, &budget, logger)
		}
		p.Rows = append(p.Rows, row)
	}
	if len(p.Rows) == 0 {
		p.Placeholder = placeholderText
	}
	if v == VariantAccessories {
		p.Leading = []Section{doc.companySection(), doc.applicationSection()}
		p.Trailing = []Section{doc.commercialsSection()}
	} else {
		p.Trailing = []Section{doc.termsSection()}
	}
	return p
}

// Colspan is the width of the placeholder row.
func (p Preview) Colspan() int { return len(p.Headers) }

// ImageColumn reports whether the last header is rendered from Images.
func (p Preview) ImageColumn() bool {
	return len(p.Headers) > 0 && p.Headers[len(p.Headers)-1] == "Images"
}

func thumbnails(images []Attachment, budget *int, logger *slog.Logger) []PreviewImage {
	out := make([]PreviewImage, 0, len(images))
	for _, img := range images {
		item := PreviewImage{Name: img.Name}
		if img.Data != "" {
			thumb, err := decodeThumbnail(img.Data, budget)
			if err != nil {
				if logger != nil {
					logger.Warn("sor preview: skip attachment", slog.String("name", img.Name), slog.Any("error", err))
				}
			} else {
				item.URI = thumb.DataURI()
			}
		}
		out = append(out, item)
	}
	return out
}

func decodeThumbnail(data string, budget *int) (*media.Image, error) {
	if base64.StdEncoding.DecodedLen(len(data)) > *budget {
		return nil, errImageBudget
	}
	raw, err := media.DecodeBase64(data)
	if err != nil {
		return nil, err
	}
	*budget -= len(raw)
	return media.Thumbnail(raw, thumbSize, thumbSize)
}

// PreviewRenderer renders the SOR preview page.
type PreviewRenderer struct {
	engine *view.Engine
}

// NewPreviewRenderer constructs the renderer over the shared engine.
func NewPreviewRenderer(engine *view.Engine) *PreviewRenderer {
	return &PreviewRenderer{engine: engine}
}

// Render executes the preview template.
func (r *PreviewRenderer) Render(p Preview) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.engine.Execute(&buf, previewTemplate, view.TemplateData{Title: p.Title, Data: p}); err != nil {
		return nil, fmt.Errorf("sor: render preview: %w", err)
	}
	return buf.Bytes(), nil
}
