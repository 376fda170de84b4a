package storefront

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"skouce/utils"
)

// CreateSession starts a shopper session and returns its id.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s := h.Store.Create()
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"sessionId": s.ID,
		"messages":  s.Assistant.Messages(),
	})
}

func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	h.Store.Delete(s.ID)
	w.WriteHeader(http.StatusNoContent)
}
