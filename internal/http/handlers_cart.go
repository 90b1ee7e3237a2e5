package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/northwind/storefront/internal/domain/cart"
	"github.com/northwind/storefront/internal/domain/catalog"
)

// CartHandlers provides HTTP handlers for cart operations. Every handler
// rehydrates the cart for the active identity before acting, so a login or
// logout between requests transparently switches carts.
type CartHandlers struct {
	Services *RouterServices
}

// cartView is the JSON shape of the cart returned to the browser.
type cartView struct {
	Items  []cart.LineItem `json:"items"`
	Totals cart.Totals     `json:"totals"`
}

func (h *CartHandlers) view(s *scope) cartView {
	items := s.cart.Items()
	if items == nil {
		items = []cart.LineItem{}
	}
	return cartView{Items: items, Totals: s.cart.Totals()}
}

// Get returns the active identity's cart.
// GET /api/cart.
func (h *CartHandlers) Get(w http.ResponseWriter, r *http.Request) {
	s := h.Services.scope(r)
	s.cart.RehydrateForActiveUser(r.Context())

	WriteJSON(w, http.StatusOK, h.view(s))
}

// AddItem adds a product to the cart.
// POST /api/cart/items {"product": {...}, "quantity": n}.
func (h *CartHandlers) AddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Product  catalog.Product `json:"product"`
		Quantity int             `json:"quantity"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Product.ID <= 0 {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_product",
			Err:     errors.New("product id is required"),
		})
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	s := h.Services.scope(r)
	s.cart.RehydrateForActiveUser(r.Context())
	s.cart.AddItem(r.Context(), req.Product, req.Quantity)

	WriteJSON(w, http.StatusOK, h.view(s))
}

// UpdateQuantity replaces a line's quantity; zero or less removes the line.
// PATCH /api/cart/items/{id} {"quantity": n}.
func (h *CartHandlers) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDFromPath(w, r)
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	s := h.Services.scope(r)
	s.cart.RehydrateForActiveUser(r.Context())
	s.cart.UpdateQuantity(r.Context(), productID, req.Quantity)

	WriteJSON(w, http.StatusOK, h.view(s))
}

// RemoveItem deletes a line from the cart.
// DELETE /api/cart/items/{id}.
func (h *CartHandlers) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDFromPath(w, r)
	if !ok {
		return
	}

	s := h.Services.scope(r)
	s.cart.RehydrateForActiveUser(r.Context())
	s.cart.RemoveItem(r.Context(), productID)

	WriteJSON(w, http.StatusOK, h.view(s))
}

// Clear empties the cart.
// DELETE /api/cart.
func (h *CartHandlers) Clear(w http.ResponseWriter, r *http.Request) {
	s := h.Services.scope(r)
	s.cart.RehydrateForActiveUser(r.Context())
	s.cart.Clear(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

// Stats reports persisted snapshot statistics for this browser namespace.
// GET /api/cart/stats.
func (h *CartHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	s := h.Services.scope(r)

	WriteJSON(w, http.StatusOK, s.cart.Stats(r.Context()))
}

func productIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_product_id",
			Err:     errors.New("product id must be a positive integer"),
		})
		return 0, false
	}
	return id, true
}
