package sor

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/smg-ev/vendor-portal/internal/drafts"
	"github.com/smg-ev/vendor-portal/internal/platform/sheet"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *recordingObserver) ObserveRender(kind, format string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	status := "ok"
	if err != nil {
		status = "error"
	}
	o.calls = append(o.calls, kind+"/"+format+"/"+status)
}

func newTestService(t *testing.T) (*Service, *drafts.Service, *recordingObserver) {
	t.Helper()
	store := drafts.NewService(drafts.NewMemoryStore(), nil)
	observer := &recordingObserver{}
	return NewService(newPreviewRenderer(t), store, observer, discardLogger()), store, observer
}

func TestServiceExport(t *testing.T) {
	svc, _, observer := newTestService(t)
	out, err := svc.Export(context.Background(), accessoriesDoc(), VariantAccessories)
	require.NoError(t, err)
	assert.Equal(t, "Accessories_SOR.xlsx", out.Filename)
	assert.Equal(t, sheet.ContentType, out.ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(out.Body))
	require.NoError(t, err)
	defer f.Close()
	title, err := f.GetCellValue("Accessories SOR", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Accessories Statement of Requirements", title)
	assert.Equal(t, []string{"sor/xlsx/ok"}, observer.calls)
}

func TestServiceRejectsOversizedFields(t *testing.T) {
	svc, _, observer := newTestService(t)
	doc := Document{Reference: strings.Repeat("x", 101)}
	_, err := svc.Export(context.Background(), doc, VariantElectrical)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, []string{"sor/xlsx/error"}, observer.calls)
}

func TestServicePreview(t *testing.T) {
	svc, _, observer := newTestService(t)
	out, err := svc.Preview(context.Background(), Document{}, VariantAccessories)
	require.NoError(t, err)
	assert.Contains(t, string(out.Body), "No rows added yet")
	assert.Equal(t, []string{"sor/html/ok"}, observer.calls)
}

func TestServiceSubmitSavesDraft(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	snap, err := svc.Submit(ctx, electricalDoc(), VariantElectrical)
	require.NoError(t, err)
	assert.Equal(t, drafts.KeySORElectrical, snap.Key)

	loaded, err := store.Load(ctx, drafts.KeySORElectrical)
	require.NoError(t, err)
	var doc Document
	require.NoError(t, json.Unmarshal(loaded.Payload, &doc))
	assert.Equal(t, electricalDoc(), doc)
}

func TestServiceSubmitWithoutStore(t *testing.T) {
	svc := NewService(nil, nil, nil, nil)
	_, err := svc.Submit(context.Background(), Document{}, VariantAccessories)
	require.Error(t, err)
}

func TestAttachmentAcceptsBareNames(t *testing.T) {
	var row TechnicalRow
	require.NoError(t, json.Unmarshal([]byte(`{"images":["a.png",{"name":"b.png","data":"eA=="}]}`), &row))
	assert.Equal(t, []Attachment{{Name: "a.png"}, {Name: "b.png", Data: "eA=="}}, row.Images)
	assert.Equal(t, "a.png, b.png", row.ImageNames())
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant(" Accessories ")
	require.NoError(t, err)
	assert.Equal(t, VariantAccessories, v)
	assert.Equal(t, "sor-accessories", v.DraftKey())

	_, err = ParseVariant("mechanical")
	require.ErrorIs(t, err, ErrUnknownVariant)
}

func newTestRouter(t *testing.T) (http.Handler, *drafts.Service) {
	t.Helper()
	svc, store, _ := newTestService(t)
	r := chi.NewRouter()
	r.Route("/sor", NewHandler(discardLogger(), svc).MountRoutes)
	return r, store
}

func post(router http.Handler, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHandlerExport(t *testing.T) {
	router, _ := newTestRouter(t)
	rr := post(router, "/sor/electrical/export", electricalDoc())
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, sheet.ContentType, rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), `filename="Electrical_Technical_Spec.xlsx"`)
}

func TestHandlerPreview(t *testing.T) {
	router, _ := newTestRouter(t)
	rr := post(router, "/sor/accessories/preview", accessoriesDoc())
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "Matte black")
}

func TestHandlerSubmit(t *testing.T) {
	router, store := newTestRouter(t)
	rr := post(router, "/sor/accessories/submit", accessoriesDoc())
	require.Equal(t, http.StatusNoContent, rr.Code)

	_, err := store.Load(context.Background(), drafts.KeySORAccessories)
	require.NoError(t, err)
}

func TestHandlerRejectsBadInput(t *testing.T) {
	router, _ := newTestRouter(t)
	assert.Equal(t, http.StatusNotFound, post(router, "/sor/mechanical/export", Document{}).Code)

	req := httptest.NewRequest(http.MethodPost, "/sor/electrical/export", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
