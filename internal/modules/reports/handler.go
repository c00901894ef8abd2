package reports

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/emberhollow/shop-api/pkg/apperr"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *chi.Mux, admin func(http.Handler) http.Handler) {
	r.Route("/api/admin/reports", func(r chi.Router) {
		r.Use(admin)
		r.Get("/kpis", h.kpis)
		r.Get("/revenue", h.revenue)
		r.Get("/top-products", h.topProducts)
		r.Get("/activity", h.activity)
	})
}

func (h *Handler) kpis(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	k, err := h.service.KPIs(r.Context(), days)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, k)
}

func (h *Handler) revenue(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	points, err := h.service.RevenueByDay(r.Context(), days)
	if err != nil {
		respondErr(w, err)
		return
	}
	if points == nil {
		points = []RevenuePoint{}
	}
	respond(w, http.StatusOK, points)
}

func (h *Handler) topProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	days, _ := strconv.Atoi(q.Get("days"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	products, err := h.service.TopProducts(r.Context(), days, limit)
	if err != nil {
		respondErr(w, err)
		return
	}
	if products == nil {
		products = []TopProduct{}
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) activity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	feed, err := h.service.RecentActivity(r.Context(), limit)
	if err != nil {
		respondErr(w, err)
		return
	}
	if feed == nil {
		feed = []Activity{}
	}
	respond(w, http.StatusOK, feed)
}

func respond(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondErr(w http.ResponseWriter, err error) {
	respond(w, apperr.Status(err), map[string]string{
		"error": apperr.ClientMessage(err, "internal server error"),
	})
}
