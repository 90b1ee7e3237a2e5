package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/northwind/storefront/internal/adapters/fakestore"
)

// ProductHandlers proxies the remote product catalog. The stored auth token,
// when present, is passed through as a bearer credential.
type ProductHandlers struct {
	Services *RouterServices
}

// List returns the full catalog.
// GET /api/products.
func (h *ProductHandlers) List(w http.ResponseWriter, r *http.Request) {
	s := h.Services.scope(r)
	ctx := fakestore.WithBearer(r.Context(), s.storedToken(r))

	products, err := h.Services.Catalog.ListProducts(ctx)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, products)
}

// Categories returns the category names.
// GET /api/products/categories.
func (h *ProductHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	s := h.Services.scope(r)
	ctx := fakestore.WithBearer(r.Context(), s.storedToken(r))

	categories, err := h.Services.Catalog.ListCategories(ctx)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, categories)
}

// ByCategory returns the products in one category.
// GET /api/products/category/{category}.
func (h *ProductHandlers) ByCategory(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	if category == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_category",
			Err:     errors.New("category is required"),
		})
		return
	}

	s := h.Services.scope(r)
	ctx := fakestore.WithBearer(r.Context(), s.storedToken(r))

	products, err := h.Services.Catalog.ListByCategory(ctx, category)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, products)
}

// Get returns a single product.
// GET /api/products/{id}.
func (h *ProductHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_product_id",
			Err:     errors.New("product id must be a positive integer"),
		})
		return
	}

	s := h.Services.scope(r)
	ctx := fakestore.WithBearer(r.Context(), s.storedToken(r))

	product, err := h.Services.Catalog.GetProduct(ctx, id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, product)
}
