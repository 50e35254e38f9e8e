package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/smg-ev/vendor-portal/internal/platform/httpx"
)

func TestNewRepositorySelectsImplementation(t *testing.T) {
	repo, err := NewRepository(SourceFixture, "")
	require.NoError(t, err)
	assert.IsType(t, &FixtureRepository{}, repo)

	repo, err = NewRepository(SourceHTTP, "http://backend.local/api")
	require.NoError(t, err)
	assert.IsType(t, &HTTPRepository{}, repo)

	_, err = NewRepository(SourceHTTP, "")
	require.Error(t, err)
	_, err = NewRepository("ldap", "")
	require.Error(t, err)
}

func TestFixtureRepository(t *testing.T) {
	repo := NewFixtureRepository()
	ctx := context.Background()

	vendors, err := repo.ListVendors(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, vendors)

	vendor, err := repo.GetVendor(ctx, vendors[0].ID)
	require.NoError(t, err)
	assert.Equal(t, vendors[0], vendor)

	_, err = repo.GetVendor(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, httpx.ErrNotFound)

	// Callers get a copy.
	vendors[0].Name = "changed"
	again, _ := repo.ListVendors(ctx)
	assert.NotEqual(t, "changed", again[0].Name)
}

func TestHTTPRepository(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/vendors", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]Vendor{{ID: "7", Name: "Acme"}})
	})
	mux.HandleFunc("/api/vendors/7", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Vendor{ID: "7", Name: "Acme", GSTIN: "29ABCDE1234F1Z5"})
	})
	mux.HandleFunc("/api/components", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	repo, err := NewHTTPRepository(srv.URL + "/api/")
	require.NoError(t, err)
	ctx := context.Background()

	vendors, err := repo.ListVendors(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Vendor{{ID: "7", Name: "Acme"}}, vendors)

	vendor, err := repo.GetVendor(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "29ABCDE1234F1Z5", vendor.GSTIN)

	_, err = repo.GetVendor(ctx, "8")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = repo.ListComponents(ctx)
	require.ErrorIs(t, err, httpx.ErrUpstream)
}

func TestExportStockLevels(t *testing.T) {
	components := []Component{
		{Code: "A", Name: "Alpha", Stock: 5, ReorderLevel: 10, Unit: "pcs"},
		{Code: "B", Name: "Beta", Stock: 50, ReorderLevel: 10, Unit: "pcs"},
	}
	raw, err := ExportStockLevels(components)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{StockSheet}, f.GetSheetList())
	rows, err := f.GetRows(StockSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "S.No", rows[0][0])
	assert.Equal(t, []string{"1", "A", "Alpha", "", "5", "10", "pcs", "LOW"}, rows[1])
	assert.Equal(t, "OK", rows[2][7])
}

type recordingObserver struct {
	kinds []string
}

func (o *recordingObserver) ObserveRender(kind, format string, _ time.Duration, err error) {
	o.kinds = append(o.kinds, kind+"/"+format)
}

func newRouter(t *testing.T, observer *recordingObserver) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	r.Route("/catalog", NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), NewFixtureRepository(), observer).MountRoutes)
	return r
}

func TestHandlerRoutes(t *testing.T) {
	observer := &recordingObserver{}
	router := newRouter(t, observer)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/catalog/vendors/V-1002", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var vendor Vendor
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &vendor))
	assert.Equal(t, "Drivetrain Motors LLP", vendor.Name)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/catalog/vendors/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/catalog/components", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var components []Component
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &components))
	assert.Len(t, components, len(fixtureComponents))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/catalog/components/stock.xlsx", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `attachment; filename="Stock_Levels.xlsx"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, []string{"stock/xlsx"}, observer.kinds)
}
