package inventory

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passthrough(next http.Handler) http.Handler { return next }

func newTestRouter(stock map[string]int) *chi.Mux {
	svc, _ := newTestService(stock)
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, passthrough)
	return r
}

func TestAdjustEndpoint(t *testing.T) {
	v1 := uuid.NewString()
	router := newTestRouter(map[string]int{v1: 10})

	body := `{"variant_id":"` + v1 + `","change":-3,"reason":"SALE"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/inventory/adjust", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"previous_on_hand":10`)
	assert.Contains(t, rec.Body.String(), `"new_on_hand":7`)
}

func TestAdjustEndpointValidation(t *testing.T) {
	v1 := uuid.NewString()
	router := newTestRouter(map[string]int{v1: 10})

	body := `{"variant_id":"` + v1 + `","change":0,"reason":"SALE"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/inventory/adjust", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "change must not be zero")
}

func TestAdjustEndpointUnknownVariant(t *testing.T) {
	router := newTestRouter(map[string]int{})

	body := `{"variant_id":"` + uuid.NewString() + `","change":5,"reason":"RESTOCK"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/inventory/adjust", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
