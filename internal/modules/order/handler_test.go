package order

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passthrough(next http.Handler) http.Handler { return next }

func newTestRouter(repo *fakeRepo) *chi.Mux {
	svc := newTestService(repo, fakeSettings{shipping: 800}, fakePromos{})
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, passthrough)
	return r
}

func checkoutBody(variantID string, qty int) string {
	return `{
		"email": "jordan@example.com",
		"name": "Jordan Hale",
		"address1": "12 Birch Lane",
		"city": "Asheville",
		"state": "NC",
		"postal_code": "28801",
		"items": [{"variant_id": "` + variantID + `", "quantity": ` + strconv.Itoa(qty) + `}]
	}`
}

func TestCheckoutEndpoint(t *testing.T) {
	repo := newFakeRepo()
	v1 := repo.addVariant(1800, 10, true)
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(checkoutBody(v1, 2)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp checkoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEqual(t, uuid.Nil, resp.OrderID)
	assert.Equal(t, int64(4400), resp.Total)

	created := repo.orders[resp.OrderID.String()]
	require.NotNil(t, created)
	assert.Equal(t, StatusPending, created.Status)
	assert.Len(t, created.Items, 1)
}

func TestCheckoutEndpointEmptyCart(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(repo)

	body := `{"email":"a@b.com","name":"A","address1":"x","city":"y","state":"z","postal_code":"1","items":[]}`
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cart cannot be empty")
	assert.Zero(t, repo.createCnt)
}

func TestCheckoutEndpointIdempotencyHeader(t *testing.T) {
	repo := newFakeRepo()
	v1 := repo.addVariant(1800, 10, true)
	router := newTestRouter(repo)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(checkoutBody(v1, 1)))
		req.Header.Set("Idempotency-Key", "abc-123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	assert.Equal(t, 1, repo.createCnt)
	assert.Equal(t, 9, repo.stock[v1])
}

func TestCheckoutEndpointMalformedBody(t *testing.T) {
	router := newTestRouter(newFakeRepo())

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPublicOrderLookupHidesNotes(t *testing.T) {
	repo := newFakeRepo()
	v1 := repo.addVariant(1000, 5, true)
	svc := newTestService(repo, fakeSettings{}, fakePromos{})
	router := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(router, passthrough)

	o := placeOrder(t, svc, repo, v1)
	repo.orders[o.ID.String()].Notes = []Note{{ID: uuid.New(), Content: "internal"}}

	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+o.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "internal")
}
