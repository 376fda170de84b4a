package storefront

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"skouce/checkout"
	"skouce/utils"
)

func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, s.Checkout.State())
}

type fieldsRequest struct {
	Fields     map[checkout.Field]string `json:"fields"`
	GiftWrap   *bool                     `json:"giftWrap"`
	Newsletter *bool                     `json:"newsletter"`
}

// UpdateCheckout edits form fields and the gift wrap and newsletter toggles.
func (h *Handler) UpdateCheckout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	var req fieldsRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	for f := range req.Fields {
		if !f.Known() {
			fail(w, fmt.Errorf("%w: %q", checkout.ErrUnknownField, f))
			return
		}
	}
	wz := s.Checkout
	for f, v := range req.Fields {
		if err := wz.SetField(f, v); err != nil {
			fail(w, err)
			return
		}
	}
	if req.GiftWrap != nil {
		if err := wz.SetGiftWrap(*req.GiftWrap); err != nil {
			fail(w, err)
			return
		}
	}
	if req.Newsletter != nil {
		if err := wz.SetNewsletter(*req.Newsletter); err != nil {
			fail(w, err)
			return
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, wz.State())
}

// NextCheckoutStep validates shipping and moves to payment.
func (h *Handler) NextCheckoutStep(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	h.respondCheckout(w, s.Checkout, s.Checkout.Next())
}

func (h *Handler) PrevCheckoutStep(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	h.respondCheckout(w, s.Checkout, s.Checkout.Back())
}

// SubmitCheckout starts the payment. With ?wait=true the response is held
// until the payment settles or the client goes away.
func (h *Handler) SubmitCheckout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	wz := s.Checkout
	done, err := wz.Submit(r.Context())
	if err != nil {
		h.respondCheckout(w, wz, err)
		return
	}
	if r.URL.Query().Get("wait") != "true" {
		utils.RespondWithJSON(w, http.StatusAccepted, wz.State())
		return
	}

	select {
	case <-done:
	case <-r.Context().Done():
		return
	}
	st := wz.State()
	if st.PaymentError != "" {
		utils.RespondWithJSON(w, http.StatusPaymentRequired, st)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, st)
}

// CancelCheckout abandons a pending payment.
func (h *Handler) CancelCheckout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	s.Checkout.Close()
	utils.RespondWithJSON(w, http.StatusOK, s.Checkout.State())
}

// GetReceipt downloads the confirmed order as a PDF.
func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	order, found := s.Checkout.Order()
	if !found {
		fail(w, checkout.ErrNoOrder)
		return
	}
	pdf, err := checkout.RenderReceipt(order)
	if err != nil {
		fail(w, err)
		return
	}
	utils.RespondWithFile(w, "application/pdf", "receipt-"+order.OrderID+".pdf", pdf)
}

// respondCheckout reports err with the current state attached, since the
// wizard records field errors even when a transition fails.
func (h *Handler) respondCheckout(w http.ResponseWriter, wz *checkout.Wizard, err error) {
	if err == nil {
		utils.RespondWithJSON(w, http.StatusOK, wz.State())
		return
	}
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		fail(w, err)
		return
	}
	body := utils.M{"error": err.Error(), "state": wz.State()}
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	utils.RespondWithJSON(w, code, body)
}
