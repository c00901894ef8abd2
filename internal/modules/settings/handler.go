package settings

import (
	"encoding/json"
	"net/http"

	"github.com/emberhollow/shop-api/pkg/apperr"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the admin settings endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux, admin func(http.Handler) http.Handler) {
	r.Route("/api/admin/settings", func(r chi.Router) {
		r.Use(admin)
		r.Get("/", h.getAll)  // GET   /api/admin/settings
		r.Patch("/", h.patch) // PATCH /api/admin/settings
	})
}

func (h *Handler) getAll(w http.ResponseWriter, r *http.Request) {
	values, err := h.service.GetAll(r.Context())
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch settings"})
		return
	}
	respond(w, http.StatusOK, values)
}

func (h *Handler) patch(w http.ResponseWriter, r *http.Request) {
	var values map[string]string
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.service.Update(r.Context(), values); err != nil {
		respond(w, apperr.Status(err), map[string]string{"error": apperr.ClientMessage(err, "Failed to update settings")})
		return
	}
	respond(w, http.StatusOK, map[string]bool{"ok": true})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
