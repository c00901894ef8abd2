package review

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
	r.Post("/api/reviews", h.submit)
	r.Get("/api/products/{productID}/reviews", h.listForProduct)

	r.Route("/api/admin/reviews", func(r chi.Router) {
		r.Use(admin)
		r.Get("/", h.listAll)
		r.Post("/{id}/approve", h.approve)
		r.Post("/{id}/reject", h.reject)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var in SubmitInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondErr(w, apperr.Validationf("invalid request body"))
		return
	}
	rv, err := h.service.Submit(r.Context(), in)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, rv)
}

func (h *Handler) listForProduct(w http.ResponseWriter, r *http.Request) {
	reviews, summary, err := h.service.ListForProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		respondErr(w, err)
		return
	}
	if reviews == nil {
		reviews = []Review{}
	}
	respond(w, http.StatusOK, map[string]interface{}{
		"reviews": reviews,
		"summary": summary,
	})
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	var approved *bool
	if raw := r.URL.Query().Get("approved"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondErr(w, apperr.Validationf("invalid approved filter"))
			return
		}
		approved = &v
	}
	reviews, err := h.service.ListAll(r.Context(), approved)
	if err != nil {
		respondErr(w, err)
		return
	}
	if reviews == nil {
		reviews = []Review{}
	}
	respond(w, http.StatusOK, reviews)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	rv, err := h.service.SetApproved(r.Context(), chi.URLParam(r, "id"), true)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, rv)
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	rv, err := h.service.SetApproved(r.Context(), chi.URLParam(r, "id"), false)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, rv)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "deleted"})
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
