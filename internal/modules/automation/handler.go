package automation

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
	r.Route("/api/admin/automations", func(r chi.Router) {
		r.Use(admin)
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/sends", h.sends)
		r.Get("/{id}", h.get)
		r.Patch("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	templates, err := h.service.ListTemplates(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	if templates == nil {
		templates = []Template{}
	}
	respond(w, http.StatusOK, templates)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.GetTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, t)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in TemplateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondErr(w, apperr.Validationf("invalid request body"))
		return
	}
	t, err := h.service.CreateTemplate(r.Context(), in)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, t)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var in TemplateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondErr(w, apperr.Validationf("invalid request body"))
		return
	}
	t, err := h.service.UpdateTemplate(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, t)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTemplate(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) sends(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	sends, err := h.service.ListSends(r.Context(), r.URL.Query().Get("templateId"), limit)
	if err != nil {
		respondErr(w, err)
		return
	}
	if sends == nil {
		sends = []Send{}
	}
	respond(w, http.StatusOK, sends)
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
