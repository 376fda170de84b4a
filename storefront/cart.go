package storefront

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"skouce/pricing"
	"skouce/session"
	"skouce/utils"
)

// cartState prices the cart without gift wrap; the checkout breakdown adds it.
func cartState(s *session.Session) utils.M {
	items := s.Cart.LineItems()
	return utils.M{
		"items":     items,
		"count":     s.Cart.Count(),
		"breakdown": pricing.Compute(items, false),
	}
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cartState(s))
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	p, found := h.Catalog.Product(ps.ByName("id"))
	if !found {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	qty := 1
	if r.ContentLength > 0 {
		var req quantityRequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if req.Quantity != nil {
			qty = *req.Quantity
		}
	}
	if err := s.Cart.Add(p, qty); err != nil {
		fail(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cartState(s))
}

// SetCartQuantity sets a line's quantity; zero removes it.
func (h *Handler) SetCartQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	var req quantityRequest
	if err := utils.DecodeJSON(r, &req); err != nil || req.Quantity == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "quantity is required")
		return
	}
	if err := s.Cart.SetQuantity(ps.ByName("id"), *req.Quantity); err != nil {
		fail(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cartState(s))
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	s.Cart.Remove(ps.ByName("id"))
	utils.RespondWithJSON(w, http.StatusOK, cartState(s))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	s.Cart.Clear()
	utils.RespondWithJSON(w, http.StatusOK, cartState(s))
}
