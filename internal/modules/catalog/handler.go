package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/emberhollow/shop-api/pkg/apperr"
	"github.com/go-chi/chi/v5"
)

// Handler exposes storefront and admin catalog endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux, admin func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.listProducts)            // GET /api/products
		r.Get("/featured", h.listFeatured)    // GET /api/products/featured
		r.Get("/{slug}", h.getProductBySlug)  // GET /api/products/{slug}
	})

	r.Route("/api/admin/products", func(r chi.Router) {
		r.Use(admin)
		r.Get("/", h.adminListProducts)
		r.Post("/", h.createProduct)
		r.Patch("/{id}", h.updateProduct)
		r.Delete("/{id}", h.deleteProduct)
		r.Post("/{productId}/variants", h.createVariant)
	})

	r.Route("/api/admin/variants", func(r chi.Router) {
		r.Use(admin)
		r.Patch("/{id}", h.updateVariant)
		r.Delete("/{id}", h.deleteVariant)
	})

	r.Route("/api/admin/categories", func(r chi.Router) {
		r.Use(admin)
		r.Get("/", h.listCategories)
		r.Post("/", h.createCategory)
		r.Delete("/{id}", h.deleteCategory)
	})

	r.Route("/api/admin/collections", func(r chi.Router) {
		r.Use(admin)
		r.Get("/", h.listCollections)
		r.Post("/", h.createCollection)
		r.Delete("/{id}", h.deleteCollection)
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListActiveProducts(r.Context())
	if err != nil {
		respondErr(w, err, "Failed to fetch products")
		return
	}
	respond(w, http.StatusOK, orEmptyProducts(products))
}

func (h *Handler) listFeatured(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListFeaturedProducts(r.Context())
	if err != nil {
		respondErr(w, err, "Failed to fetch featured products")
		return
	}
	respond(w, http.StatusOK, orEmptyProducts(products))
}

func (h *Handler) getProductBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondErr(w, err, "Failed to fetch product")
		return
	}
	respond(w, http.StatusOK, product)
}

func (h *Handler) adminListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListAllProducts(r.Context())
	if err != nil {
		respondErr(w, err, "Failed to fetch products")
		return
	}
	respond(w, http.StatusOK, orEmptyProducts(products))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	product, err := h.service.CreateProduct(r.Context(), in)
	if err != nil {
		respondErr(w, err, "Failed to create product")
		return
	}
	respond(w, http.StatusCreated, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var in ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	product, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		respondErr(w, err, "Failed to update product")
		return
	}
	respond(w, http.StatusOK, product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondErr(w, err, "Failed to delete product")
		return
	}
	respond(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) createVariant(w http.ResponseWriter, r *http.Request) {
	var in VariantInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	variant, err := h.service.CreateVariant(r.Context(), chi.URLParam(r, "productId"), in)
	if err != nil {
		respondErr(w, err, "Failed to create variant")
		return
	}
	respond(w, http.StatusCreated, variant)
}

func (h *Handler) updateVariant(w http.ResponseWriter, r *http.Request) {
	var in VariantInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	variant, err := h.service.UpdateVariant(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		respondErr(w, err, "Failed to update variant")
		return
	}
	respond(w, http.StatusOK, variant)
}

func (h *Handler) deleteVariant(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteVariant(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondErr(w, err, "Failed to delete variant")
		return
	}
	respond(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.service.ListCategories(r.Context())
	if err != nil {
		respondErr(w, err, "Failed to fetch categories")
		return
	}
	if cats == nil {
		cats = []*Category{}
	}
	respond(w, http.StatusOK, cats)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var in CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	cat, err := h.service.CreateCategory(r.Context(), in)
	if err != nil {
		respondErr(w, err, "Failed to create category")
		return
	}
	respond(w, http.StatusCreated, cat)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondErr(w, err, "Failed to delete category")
		return
	}
	respond(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) listCollections(w http.ResponseWriter, r *http.Request) {
	cols, err := h.service.ListCollections(r.Context())
	if err != nil {
		respondErr(w, err, "Failed to fetch collections")
		return
	}
	if cols == nil {
		cols = []*Collection{}
	}
	respond(w, http.StatusOK, cols)
}

func (h *Handler) createCollection(w http.ResponseWriter, r *http.Request) {
	var in CollectionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	col, err := h.service.CreateCollection(r.Context(), in)
	if err != nil {
		respondErr(w, err, "Failed to create collection")
		return
	}
	respond(w, http.StatusCreated, col)
}

func (h *Handler) deleteCollection(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCollection(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondErr(w, err, "Failed to delete collection")
		return
	}
	respond(w, http.StatusOK, map[string]bool{"ok": true})
}

func orEmptyProducts(products []*Product) []*Product {
	if products == nil {
		return []*Product{}
	}
	return products
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondErr(w http.ResponseWriter, err error, fallback string) {
	respond(w, apperr.Status(err), map[string]string{"error": apperr.ClientMessage(err, fallback)})
}
