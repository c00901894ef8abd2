package customer

import (
	"encoding/json"
	"net/http"

	"github.com/emberhollow/shop-api/pkg/apperr"
	"github.com/go-chi/chi/v5"
)

// Handler exposes admin customer and segment endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux, admin func(http.Handler) http.Handler) {
	r.Route("/api/admin/customers", func(r chi.Router) {
		r.Use(admin)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Patch("/{id}", h.update)
	})

	r.Route("/api/admin/segments", func(r chi.Router) {
		r.Use(admin)
		r.Get("/", h.segment) // GET /api/admin/segments?segment=vip
		r.Get("/counts", h.segmentCounts)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.List(r.Context())
	if err != nil {
		respondErr(w, err, "Failed to fetch customers")
		return
	}
	if customers == nil {
		customers = []*Customer{}
	}
	respond(w, http.StatusOK, customers)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err, "Failed to fetch customer")
		return
	}
	respond(w, http.StatusOK, detail)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var in UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	c, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		respondErr(w, err, "Failed to update customer")
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) segment(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.Segment(r.Context(), r.URL.Query().Get("segment"))
	if err != nil {
		respondErr(w, err, "Failed to fetch segment")
		return
	}
	if customers == nil {
		customers = []*Customer{}
	}
	respond(w, http.StatusOK, customers)
}

func (h *Handler) segmentCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.SegmentCounts(r.Context())
	if err != nil {
		respondErr(w, err, "Failed to fetch segment counts")
		return
	}
	respond(w, http.StatusOK, counts)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondErr(w http.ResponseWriter, err error, fallback string) {
	respond(w, apperr.Status(err), map[string]string{"error": apperr.ClientMessage(err, fallback)})
}
