package storefront

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"skouce/models"
	"skouce/session"
	"skouce/utils"
	"skouce/wishlist"
)

func wishlistState(s *session.Session) utils.M {
	return utils.M{
		"items":   s.Wishlist.View(),
		"visible": s.Wishlist.VisibleLen(),
		"total":   s.Wishlist.Len(),
		"sortBy":  s.Wishlist.Sort(),
		"filter":  s.Wishlist.Filter(),
	}
}

func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	h.updateWishlist(w, s, func(*session.Session) error { return nil })
}

type viewRequest struct {
	SortBy string `json:"sortBy"`
	Filter string `json:"filter"`
}

// SetWishlistView changes sort order and filter; empty fields are left alone.
func (h *Handler) SetWishlistView(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	var req viewRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.updateWishlist(w, s, func(s *session.Session) error {
		if req.SortBy != "" {
			if err := s.Wishlist.SortBy(wishlist.SortKey(req.SortBy)); err != nil {
				return err
			}
		}
		if req.Filter != "" {
			return s.Wishlist.FilterBy(wishlist.FilterKey(req.Filter))
		}
		return nil
	})
}

type stockRequest struct {
	InStock *bool `json:"inStock"`
}

func (r stockRequest) inStock() bool {
	return r.InStock == nil || *r.InStock
}

func (h *Handler) AddToWishlist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	p, found := h.Catalog.Product(ps.ByName("id"))
	if !found {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	var req stockRequest
	if r.ContentLength > 0 {
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	h.updateWishlist(w, s, func(s *session.Session) error {
		return s.Wishlist.Add(p, req.inStock())
	})
}

func (h *Handler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	h.updateWishlist(w, s, func(s *session.Session) error {
		s.Wishlist.Remove(ps.ByName("id"))
		return nil
	})
}

func (h *Handler) ClearWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	h.updateWishlist(w, s, func(s *session.Session) error {
		s.Wishlist.Clear()
		return nil
	})
}

func (h *Handler) SetWishlistStock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	var req stockRequest
	if err := utils.DecodeJSON(r, &req); err != nil || req.InStock == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "inStock is required")
		return
	}
	h.updateWishlist(w, s, func(s *session.Session) error {
		return s.Wishlist.SetStock(ps.ByName("id"), *req.InStock)
	})
}

func (h *Handler) MoveWishlistItemToCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	err := s.Do(func(s *session.Session) error {
		return s.Wishlist.MoveToCart(ps.ByName("id"))
	})
	if err != nil {
		fail(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cartState(s))
}

// MoveAvailableToCart moves every visible in-stock item.
func (h *Handler) MoveAvailableToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	var res wishlist.BulkResult
	s.Do(func(s *session.Session) error {
		res = s.Wishlist.BulkMoveAvailableToCart()
		return nil
	})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"result": res, "cart": cartState(s)})
}

// ShareWishlist stores the saved ids and returns the public link.
func (h *Handler) ShareWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	var link string
	err := s.Do(func(s *session.Session) error {
		var err error
		link, err = s.Wishlist.Share(r.Context())
		return err
	})
	if err != nil {
		fail(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"link": link})
}

// GetSharedWishlist resolves a share token to catalog products. Ids no
// longer in the catalog are skipped.
func (h *Handler) GetSharedWishlist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if h.Sharer == nil {
		fail(w, wishlist.ErrSharingDisabled)
		return
	}
	ids, err := h.Sharer.Resolve(r.Context(), ps.ByName("token"))
	if err != nil {
		fail(w, err)
		return
	}
	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := h.Catalog.Product(id); ok {
			products = append(products, p)
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"products": products})
}

// GetSharedWishlistQR renders the share link as a QR code, ?size= in pixels.
func (h *Handler) GetSharedWishlistQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if h.Sharer == nil {
		fail(w, wishlist.ErrSharingDisabled)
		return
	}
	token := ps.ByName("token")
	if _, err := h.Sharer.Resolve(r.Context(), token); err != nil {
		fail(w, err)
		return
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	png, err := wishlist.ShareQR(h.Sharer.Link(token), min(size, 1024))
	if err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) updateWishlist(w http.ResponseWriter, s *session.Session, fn func(*session.Session) error) {
	var out utils.M
	err := s.Do(func(s *session.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		out = wishlistState(s)
		return nil
	})
	if err != nil {
		fail(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}
