package purchaseorder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/smg-ev/vendor-portal/internal/catalog"
	"github.com/smg-ev/vendor-portal/internal/media"
	"github.com/smg-ev/vendor-portal/internal/platform/httpx"
	"github.com/smg-ev/vendor-portal/internal/shared"
)

// DownloadAction is where the print view posts its payload for the PDF.
const DownloadAction = "/purchase-orders/pdf"

const metricKind = "purchase_order"

// ErrPrintUnavailable is returned when no print backend is configured.
var ErrPrintUnavailable = fmt.Errorf("purchaseorder: print backend not configured: %w", httpx.ErrUpstream)

// VendorLookup resolves a vendor for prefilling the bill-to party.
type VendorLookup interface {
	GetVendor(ctx context.Context, id string) (catalog.Vendor, error)
}

// PrintClient converts HTML into PDF, e.g. the Gotenberg report client.
type PrintClient interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// ServiceParams groups Service dependencies.
type ServiceParams struct {
	HTML       *HTMLRenderer
	PDF        *PDFRenderer
	Vendors    VendorLookup
	Printer    PrintClient
	Letterhead Letterhead
	Logo       *media.Image
	Observer   shared.RenderObserver
	Now        func() time.Time
}

// Service assembles purchase orders and renders them.
type Service struct {
	validate   *validator.Validate
	html       *HTMLRenderer
	pdf        *PDFRenderer
	vendors    VendorLookup
	printer    PrintClient
	letterhead Letterhead
	logo       *media.Image
	observer   shared.RenderObserver
	now        func() time.Time
	group      singleflight.Group
}

// NewService constructs the service.
func NewService(p ServiceParams) *Service {
	if p.PDF == nil {
		p.PDF = NewPDFRenderer()
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &Service{
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		html:       p.HTML,
		pdf:        p.PDF,
		vendors:    p.Vendors,
		printer:    p.Printer,
		letterhead: p.Letterhead,
		logo:       p.Logo,
		observer:   shared.ObserverOrNop(p.Observer),
		now:        p.Now,
	}
}

// Rendered is a finished document body.
type Rendered struct {
	Body     []byte
	Filename string
}

// Prepare validates req and assembles the document. When a vendor ID is given
// and no vendor field was filled in, the bill-to party comes from the catalog.
func (s *Service) Prepare(ctx context.Context, req Request) (Document, error) {
	if err := s.validate.Struct(req); err != nil {
		return Document{}, fmt.Errorf("%w: %s", ErrValidation, shared.ValidationMessage(err))
	}
	draft := req.FormData
	if id := strings.TrimSpace(req.VendorID); id != "" && !draft.HasVendor() && s.vendors != nil {
		vendor, err := s.vendors.GetVendor(ctx, id)
		if err != nil {
			return Document{}, fmt.Errorf("purchaseorder: vendor %s: %w", id, err)
		}
		draft.VendorName = vendor.Name
		draft.VendorAddress = vendor.Address
		draft.VendorContact = vendor.Contact
		draft.VendorEmail = vendor.Email
		draft.VendorGSTIN = vendor.GSTIN
	}
	return NewDocument(DocumentInput{
		Draft:      draft,
		Items:      req.Items,
		ShowPrice:  req.ShowPrice,
		Letterhead: s.letterhead,
		Logo:       s.logo,
		Now:        s.now(),
	}), nil
}

// RenderHTML returns the print view with its download form filled in.
func (s *Service) RenderHTML(ctx context.Context, req Request) (Rendered, error) {
	start := time.Now()
	out, err := s.renderHTML(ctx, req)
	s.observer.ObserveRender(metricKind, "html", time.Since(start), err)
	return out, err
}

func (s *Service) renderHTML(ctx context.Context, req Request) (Rendered, error) {
	if s.html == nil {
		return Rendered{}, fmt.Errorf("purchaseorder: html renderer not configured")
	}
	doc, err := s.Prepare(ctx, req)
	if err != nil {
		return Rendered{}, err
	}
	payload, err := json.Marshal(doc.Request())
	if err != nil {
		return Rendered{}, fmt.Errorf("purchaseorder: encode payload: %w", err)
	}
	doc.DownloadAction = DownloadAction
	doc.Payload = string(payload)
	body, err := s.html.Render(doc)
	if err != nil {
		return Rendered{}, err
	}
	return Rendered{Body: body, Filename: strings.TrimSuffix(doc.Filename(), ".pdf") + ".html"}, nil
}

// RenderPDF draws the document with the fpdf renderer. Concurrent requests
// for the same payload share one render.
func (s *Service) RenderPDF(ctx context.Context, req Request) (Rendered, error) {
	start := time.Now()
	out, err := s.renderPDF(ctx, req)
	s.observer.ObserveRender(metricKind, "pdf", time.Since(start), err)
	return out, err
}

func (s *Service) renderPDF(ctx context.Context, req Request) (Rendered, error) {
	doc, err := s.Prepare(ctx, req)
	if err != nil {
		return Rendered{}, err
	}
	key, err := renderKey(req, doc.Date)
	if err != nil {
		return Rendered{}, err
	}
	resultChan := s.group.DoChan(key, func() (interface{}, error) {
		return s.pdf.Render(doc)
	})
	select {
	case <-ctx.Done():
		return Rendered{}, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return Rendered{}, res.Err
		}
		return Rendered{Body: res.Val.([]byte), Filename: doc.Filename()}, nil
	}
}

// RenderPrintPDF sends the print view through the HTML-to-PDF backend, which
// matches what the browser's print dialog would produce.
func (s *Service) RenderPrintPDF(ctx context.Context, req Request) (Rendered, error) {
	start := time.Now()
	out, err := s.renderPrintPDF(ctx, req)
	s.observer.ObserveRender(metricKind, "print", time.Since(start), err)
	return out, err
}

func (s *Service) renderPrintPDF(ctx context.Context, req Request) (Rendered, error) {
	if s.printer == nil {
		return Rendered{}, ErrPrintUnavailable
	}
	page, err := s.renderHTML(ctx, req)
	if err != nil {
		return Rendered{}, err
	}
	body, err := s.printer.RenderHTML(ctx, string(page.Body))
	if err != nil {
		return Rendered{}, fmt.Errorf("purchaseorder: print: %w: %v", httpx.ErrUpstream, err)
	}
	return Rendered{Body: body, Filename: strings.TrimSuffix(page.Filename, ".html") + ".pdf"}, nil
}

// renderKey hashes the request together with the resolved date, so a blank
// order date does not collapse renders across days.
func renderKey(req Request, date string) (string, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("purchaseorder: encode key: %w", err)
	}
	sum := sha256.New()
	sum.Write(raw)
	sum.Write([]byte(date))
	return hex.EncodeToString(sum.Sum(nil)), nil
}
