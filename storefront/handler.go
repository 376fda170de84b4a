// Package storefront exposes the session engines over HTTP.
package storefront

import (
	"errors"
	"log"
	"net/http"

	"skouce/assistant"
	"skouce/cart"
	"skouce/catalog"
	"skouce/checkout"
	"skouce/compare"
	"skouce/filters"
	"skouce/middleware"
	"skouce/session"
	"skouce/tryon"
	"skouce/utils"
	"skouce/wishlist"
)

// Handler serves the storefront API for every session in store.
type Handler struct {
	Store   *session.Store
	Catalog *catalog.Snapshot
	Sharer  *wishlist.Sharer
	Hub     *Hub
}

func New(store *session.Store, snap *catalog.Snapshot, sharer *wishlist.Sharer, hub *Hub) *Handler {
	return &Handler{Store: store, Catalog: snap, Sharer: sharer, Hub: hub}
}

// current returns the session loaded by middleware.RequireSession.
func current(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := middleware.SessionFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing session")
	}
	return s, ok
}

func statusOf(err error) int {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, compare.ErrUnknownProduct),
		errors.Is(err, wishlist.ErrNotSaved),
		errors.Is(err, wishlist.ErrShareNotFound),
		errors.Is(err, cart.ErrNotInCart),
		errors.Is(err, checkout.ErrNoOrder),
		errors.Is(err, filters.ErrUnknownGroup),
		errors.Is(err, filters.ErrUnknownOption):
		return http.StatusNotFound
	case errors.Is(err, compare.ErrComparisonFull),
		errors.Is(err, compare.ErrAlreadyCompared),
		errors.Is(err, wishlist.ErrAlreadySaved),
		errors.Is(err, wishlist.ErrOutOfStock),
		errors.Is(err, wishlist.ErrNothingToShare),
		errors.Is(err, checkout.ErrSubmitting),
		errors.Is(err, checkout.ErrCompleted),
		errors.Is(err, checkout.ErrInvalidTransition),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, assistant.ErrBusy),
		errors.Is(err, assistant.ErrClosed):
		return http.StatusConflict
	case errors.Is(err, checkout.ErrPaymentDeclined):
		return http.StatusPaymentRequired
	case errors.Is(err, tryon.ErrCameraDenied):
		return http.StatusForbidden
	case errors.Is(err, wishlist.ErrSharingDisabled),
		errors.Is(err, wishlist.ErrNoCart):
		return http.StatusServiceUnavailable
	case errors.Is(err, filters.ErrWrongKind),
		errors.Is(err, filters.ErrInvalidRange),
		errors.Is(err, wishlist.ErrUnknownSort),
		errors.Is(err, wishlist.ErrUnknownFilter),
		errors.Is(err, checkout.ErrUnknownField),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, assistant.ErrEmptyMessage),
		errors.Is(err, tryon.ErrUnknownWristSize):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// fail writes err with the status it maps to. Validation errors carry the
// missing fields.
func fail(w http.ResponseWriter, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		log.Printf("[Storefront] %v", err)
		utils.RespondWithError(w, code, "Internal server error")
		return
	}
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		utils.RespondWithJSON(w, code, utils.M{"error": verr.Error(), "step": verr.Step, "fields": verr.Fields})
		return
	}
	utils.RespondWithError(w, code, err.Error())
}
