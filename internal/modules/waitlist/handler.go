package waitlist

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
	r.Post("/api/waitlist", h.join)

	r.Route("/api/admin/waitlist", func(r chi.Router) {
		r.Use(admin)
		r.Get("/", h.list)
		r.Post("/{productID}/notify", h.notify)
	})
}

func (h *Handler) join(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		Email     string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, apperr.Validationf("invalid request body"))
		return
	}
	e, err := h.service.Join(r.Context(), req.ProductID, req.Email)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, e)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pending, _ := strconv.ParseBool(q.Get("pending"))
	entries, err := h.service.List(r.Context(), q.Get("productId"), pending)
	if err != nil {
		respondErr(w, err)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	respond(w, http.StatusOK, entries)
}

func (h *Handler) notify(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.Notify(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]int64{"notified": n})
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
