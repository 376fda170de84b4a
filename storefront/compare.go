package storefront

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"skouce/compare"
	"skouce/session"
	"skouce/utils"
)

func compareState(s *session.Session) utils.M {
	return utils.M{
		"products":  s.Compare.List(),
		"rows":      s.Compare.Rows(),
		"remaining": s.Compare.Remaining(),
		"max":       compare.MaxSlots,
	}
}

func (h *Handler) GetComparison(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	h.updateComparison(w, s, func(*session.Session) error { return nil })
}

// GetCompareCandidates lists watches that can still be added.
func (h *Handler) GetCompareCandidates(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	var out any
	s.Do(func(s *session.Session) error {
		out = s.Compare.Candidates(s.Catalog.Products())
		return nil
	})
	utils.RespondWithJSON(w, http.StatusOK, out)
}

func (h *Handler) AddToComparison(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	h.updateComparison(w, s, func(s *session.Session) error {
		return s.Compare.Add(ps.ByName("id"))
	})
}

func (h *Handler) RemoveFromComparison(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	h.updateComparison(w, s, func(s *session.Session) error {
		s.Compare.Remove(ps.ByName("id"))
		return nil
	})
}

func (h *Handler) ClearComparison(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	h.updateComparison(w, s, func(s *session.Session) error {
		s.Compare.Clear()
		return nil
	})
}

func (h *Handler) updateComparison(w http.ResponseWriter, s *session.Session, fn func(*session.Session) error) {
	var out utils.M
	err := s.Do(func(s *session.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		out = compareState(s)
		return nil
	})
	if err != nil {
		fail(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}
