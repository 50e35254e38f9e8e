package purchaseorder

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smg-ev/vendor-portal/internal/catalog"
	"github.com/smg-ev/vendor-portal/internal/platform/httpx"
)

type stubPrinter struct {
	calls atomic.Int32
	html  string
	err   error
}

func (p *stubPrinter) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	p.calls.Add(1)
	p.html = html
	if p.err != nil {
		return nil, p.err
	}
	return []byte("%PDF-printed"), nil
}

type countingObserver struct {
	mu      sync.Mutex
	samples []string
}

func (o *countingObserver) ObserveRender(kind, format string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	label := kind + "/" + format
	if err != nil {
		label += "/error"
	}
	o.samples = append(o.samples, label)
}

func newTestService(t *testing.T, printer PrintClient, observer *countingObserver) *Service {
	t.Helper()
	params := ServiceParams{
		HTML:       newHTMLRenderer(t),
		PDF:        &PDFRenderer{},
		Vendors:    catalog.NewFixtureRepository(),
		Printer:    printer,
		Letterhead: testLetterhead(),
		Now:        func() time.Time { return time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC) },
	}
	if observer != nil {
		params.Observer = observer
	}
	return NewService(params)
}

func sampleRequest() Request {
	return Request{
		FormData:  Draft{PONumber: "PO-77"},
		Items:     sampleItems(),
		ShowPrice: true,
	}
}

func TestPrepareValidates(t *testing.T) {
	svc := newTestService(t, nil, nil)

	_, err := svc.Prepare(context.Background(), Request{})
	require.ErrorIs(t, err, ErrValidation)
	require.ErrorIs(t, err, httpx.ErrValidation)

	req := sampleRequest()
	req.FormData.Status = "Cancelled"
	_, err = svc.Prepare(context.Background(), req)
	require.ErrorIs(t, err, ErrValidation)
}

func TestPrepareFillsVendorFromCatalog(t *testing.T) {
	svc := newTestService(t, nil, nil)
	req := sampleRequest()
	req.VendorID = "V-1002"

	doc, err := svc.Prepare(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Drivetrain Motors LLP", doc.BillTo.Name)
	assert.Contains(t, doc.BillTo.Lines, "GSTIN: 33AAKFD5678L1Z2")

	// Typed vendor details win over the catalog.
	req.FormData.VendorName = "Walk-in Supplier"
	doc, err = svc.Prepare(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Walk-in Supplier", doc.BillTo.Name)

	req = sampleRequest()
	req.VendorID = "V-404"
	_, err = svc.Prepare(context.Background(), req)
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestRenderPDF(t *testing.T) {
	observer := &countingObserver{}
	svc := newTestService(t, nil, observer)

	out, err := svc.RenderPDF(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "PO-77.pdf", out.Filename)
	assert.Contains(t, string(out.Body), pdfText("286.00"))
	assert.Equal(t, []string{"purchase_order/pdf"}, observer.samples)
}

func TestRenderPDFConcurrentCallsAgree(t *testing.T) {
	svc := newTestService(t, nil, nil)
	const workers = 8
	results := make([][]byte, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := svc.RenderPDF(context.Background(), sampleRequest())
			assert.NoError(t, err)
			results[i] = out.Body
		}(i)
	}
	wg.Wait()
	for i := 1; i < workers; i++ {
		assert.Equal(t, results[0], results[i])
	}
}

func TestRenderPDFHonoursCancelledContext(t *testing.T) {
	svc := newTestService(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.RenderPDF(ctx, sampleRequest())
	if err != nil {
		require.ErrorIs(t, err, context.Canceled)
	}
}

func TestRenderHTMLEmbedsReplayablePayload(t *testing.T) {
	observer := &countingObserver{}
	svc := newTestService(t, nil, observer)

	out, err := svc.RenderHTML(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "PO-77.html", out.Filename)
	assert.Contains(t, string(out.Body), `action="/purchase-orders/pdf"`)
	assert.Contains(t, string(out.Body), "09-03-2024")
	assert.Equal(t, []string{"purchase_order/html"}, observer.samples)
}

func TestRenderPrintPDF(t *testing.T) {
	printer := &stubPrinter{}
	svc := newTestService(t, printer, nil)

	out, err := svc.RenderPrintPDF(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, "PO-77.pdf", out.Filename)
	assert.Equal(t, "%PDF-printed", string(out.Body))
	assert.Contains(t, printer.html, "PURCHASE ORDER")

	printer.err = errors.New("connection refused")
	_, err = svc.RenderPrintPDF(context.Background(), sampleRequest())
	require.ErrorIs(t, err, httpx.ErrUpstream)

	_, err = newTestService(t, nil, nil).RenderPrintPDF(context.Background(), sampleRequest())
	require.ErrorIs(t, err, ErrPrintUnavailable)
}
