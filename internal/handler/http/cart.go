package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/storefront"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/middleware"
	"github.com/utafrali/storefront/pkg/validator"
)

// --- Request DTOs ---

// AddItemRequest is the JSON body for adding a product to the cart. The
// product fields are taken as shown to the shopper; quantity defaults to 1.
type AddItemRequest struct {
	ID       string          `json:"id" validate:"notblank,max=128"`
	Name     string          `json:"name" validate:"notblank,max=500"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url" validate:"max=2048"`
	Quantity *int            `json:"quantity" validate:"omitempty,gte=1,lte=999"`
}

// UpdateQuantityRequest is the JSON body for setting a line quantity. Zero
// or less removes the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CheckoutResponse is returned by the checkout endpoint.
type CheckoutResponse struct {
	Message string               `json:"message"`
	Summary domain.Summary       `json:"summary"`
	Cart    *storefront.CartPage `json:"cart"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.Cart(r.Context(), middleware.SessionID(r)))
}

// GetBadge handles GET /api/v1/cart/badge
func (h *Handler) GetBadge(w http.ResponseWriter, r *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.service.Carts().Badge(r.Context(), middleware.SessionID(r)))
}

// AddItem handles POST /api/v1/cart/items
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	if req.Price.IsNegative() {
		httputil.WriteError(w, r, apperrors.InvalidInput("price must not be negative"), h.logger)
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	product := domain.Product{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		ImageURL: req.ImageURL,
	}

	c, err := h.service.Carts().Add(r.Context(), middleware.SessionID(r), product, quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.logger.DebugContext(r.Context(), "cart item added",
		slog.String("product_id", req.ID),
		slog.Int("quantity", quantity),
	)
	httputil.WriteData(w, http.StatusOK, storefront.NewCartPage(c))
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{id}
func (h *Handler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	c, err := h.service.Carts().SetQuantity(r.Context(), middleware.SessionID(r), chi.URLParam(r, "id"), *req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, storefront.NewCartPage(c))
}

// RemoveItem handles DELETE /api/v1/cart/items/{id}
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Carts().Remove(r.Context(), middleware.SessionID(r), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, storefront.NewCartPage(c))
}

// ClearCart handles DELETE /api/v1/cart
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Carts().Clear(r.Context(), middleware.SessionID(r)); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, storefront.NewCartPage(domain.Cart{}))
}

// Checkout handles POST /api/v1/cart/checkout
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.service.Carts().Checkout(r.Context(), middleware.SessionID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, CheckoutResponse{
		Message: receipt.Message,
		Summary: receipt.Summary,
		Cart:    storefront.NewCartPage(domain.Cart{}),
	})
}
