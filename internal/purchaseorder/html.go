package purchaseorder

import (
	"bytes"
	"fmt"

	"github.com/smg-ev/vendor-portal/internal/view"
)

const htmlTemplate = "documents/purchase_order.html"

// HTMLRenderer produces the print view of a purchase order.
type HTMLRenderer struct {
	engine *view.Engine
}

// NewHTMLRenderer constructs the renderer over the shared template engine.
func NewHTMLRenderer(engine *view.Engine) *HTMLRenderer {
	return &HTMLRenderer{engine: engine}
}

// Render executes the print template for doc.
func (r *HTMLRenderer) Render(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	data := view.TemplateData{Title: "Purchase Order " + doc.Draft.PONumber, Data: doc}
	if err := r.engine.Execute(&buf, htmlTemplate, data); err != nil {
		return nil, fmt.Errorf("purchaseorder: render html: %w", err)
	}
	return buf.Bytes(), nil
}
