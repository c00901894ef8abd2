package inventory

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
	r.Route("/api/admin/inventory", func(r chi.Router) {
		r.Use(admin)
		r.Get("/", h.levels)
		r.Get("/low-stock", h.lowStock)
		r.Post("/adjust", h.adjust)
		r.Get("/adjustments", h.adjustments)
	})
}

func (h *Handler) levels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.service.Levels(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	if levels == nil {
		levels = []Level{}
	}
	respond(w, http.StatusOK, levels)
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	var threshold *int
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondErr(w, apperr.Validationf("invalid threshold"))
			return
		}
		threshold = &n
	}
	levels, err := h.service.LowStock(r.Context(), threshold)
	if err != nil {
		respondErr(w, err)
		return
	}
	if levels == nil {
		levels = []Level{}
	}
	respond(w, http.StatusOK, levels)
}

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request) {
	var in AdjustInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondErr(w, apperr.Validationf("invalid request body"))
		return
	}
	adj, err := h.service.Adjust(r.Context(), in)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, adj)
}

func (h *Handler) adjustments(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.service.Adjustments(r.Context(), r.URL.Query().Get("variantId"), limit)
	if err != nil {
		respondErr(w, err)
		return
	}
	if list == nil {
		list = []Adjustment{}
	}
	respond(w, http.StatusOK, list)
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
