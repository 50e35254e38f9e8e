package drafts

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraftRouter(admin func(http.Handler) http.Handler) http.Handler {
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), fixedService(NewMemoryStore()), admin)
	r := chi.NewRouter()
	r.Route("/drafts", h.MountRoutes)
	return r
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rr
}

func TestDraftRoutes(t *testing.T) {
	router := newDraftRouter(nil)

	rr := do(router, http.MethodGet, "/drafts/sor-electrical", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(router, http.MethodPut, "/drafts/sor-electrical", `{"company":{"name":"SMG"}}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(router, http.MethodGet, "/drafts/sor-electrical", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, "sor-electrical", snap.Key)
	assert.Equal(t, CurrentSchemaVersion, snap.SchemaVersion)
	assert.JSONEq(t, `{"company":{"name":"SMG"}}`, string(snap.Payload))

	rr = do(router, http.MethodDelete, "/drafts/sor-electrical", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = do(router, http.MethodGet, "/drafts/sor-electrical", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDraftRoutesValidate(t *testing.T) {
	router := newDraftRouter(nil)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodPut, "/drafts/unknown", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPut, "/drafts/vendorDraftReplica", `not json`).Code)
}

func TestDraftDeleteUsesAdminGuard(t *testing.T) {
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})
	}
	router := newDraftRouter(deny)
	assert.Equal(t, http.StatusForbidden, do(router, http.MethodDelete, "/drafts/sor-electrical", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/drafts/sor-electrical", "").Code)
}
