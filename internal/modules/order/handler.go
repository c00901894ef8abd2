package order

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/emberhollow/shop-api/pkg/apperr"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *chi.Mux, admin func(http.Handler) http.Handler) {
	r.Post("/api/checkout", h.checkout)
	r.Get("/api/orders/{id}", h.publicGet)

	r.Route("/api/admin/orders", func(r chi.Router) {
		r.Use(admin)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Patch("/{id}/status", h.updateStatus)
		r.Post("/{id}/tracking", h.setTracking)
		r.Post("/{id}/refund", h.refund)
		r.Post("/{id}/notes", h.addNote)
	})
}

// checkoutResponse is the public confirmation contract for a placed
// order; the full record stays behind the admin endpoints.
type checkoutResponse struct {
	OrderID uuid.UUID `json:"orderId"`
	Total   int64     `json:"total"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var in CheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondErr(w, apperr.Validationf("invalid request body"))
		return
	}
	o, err := h.service.Checkout(r.Context(), in, r.Header.Get("Idempotency-Key"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, checkoutResponse{OrderID: o.ID, Total: o.TotalCents})
}

// publicGet exposes the order confirmation view: the order without
// internal notes.
func (h *Handler) publicGet(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	o.Notes = nil
	respond(w, http.StatusOK, o)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	orders, err := h.service.List(r.Context(), ListFilter{
		Status: Status(q.Get("status")),
		Search: q.Get("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	if orders == nil {
		orders = []Order{}
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, apperr.Validationf("invalid request body"))
		return
	}
	o, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), Status(req.Status))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) setTracking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TrackingNumber string `json:"tracking_number"`
		Carrier        string `json:"carrier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, apperr.Validationf("invalid request body"))
		return
	}
	o, err := h.service.SetTracking(r.Context(), chi.URLParam(r, "id"), req.TrackingNumber, req.Carrier)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) refund(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AmountCents int64 `json:"amount_cents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, apperr.Validationf("invalid request body"))
		return
	}
	o, err := h.service.Refund(r.Context(), chi.URLParam(r, "id"), req.AmountCents)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) addNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
		Author  string `json:"author"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErr(w, apperr.Validationf("invalid request body"))
		return
	}
	n, err := h.service.AddNote(r.Context(), chi.URLParam(r, "id"), req.Content, req.Author)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, n)
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
