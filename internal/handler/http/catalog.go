package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/storefront"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/pagination"
)

// GetCatalog handles GET /api/v1/catalog
//
// Query parameters: q, category, color, size, sale, sort, page.
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q := storefront.CatalogQuery{
		Search:   qs.Get("q"),
		Category: qs.Get("category"),
		Color:    qs.Get("color"),
		Size:     qs.Get("size"),
		Sale:     qs.Get("sale"),
		Sort:     qs.Get("sort"),
		Page:     pagination.FromRequest(r, 1).Page,
	}

	page, err := h.service.Catalog(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, page)
}

// GetHome handles GET /api/v1/home
func (h *Handler) GetHome(w http.ResponseWriter, r *http.Request) {
	home, err := h.service.Home(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, home)
}

// GetProduct handles GET /api/v1/products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, detail)
}
