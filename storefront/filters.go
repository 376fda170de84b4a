package storefront

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"skouce/session"
	"skouce/utils"
)

func filterState(s *session.Session) utils.M {
	return utils.M{
		"active":      s.Filters.Active(),
		"activeCount": s.Filters.ActiveFilterCount(),
		"chips":       s.Filters.Chips(),
		"resultCount": len(s.Filters.Apply(s.Catalog.Products())),
	}
}

// GetFilters returns the active selections and chips.
func (h *Handler) GetFilters(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	var out utils.M
	s.Do(func(s *session.Session) error {
		out = filterState(s)
		return nil
	})
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// SearchFilterOptions narrows the sidebar to options matching ?q=.
func (h *Handler) SearchFilterOptions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	term := r.URL.Query().Get("q")
	var out any
	s.Do(func(s *session.Session) error {
		out = s.Filters.SearchOptions(term)
		return nil
	})
	utils.RespondWithJSON(w, http.StatusOK, out)
}

type toggleRequest struct {
	Group  string `json:"group"`
	Option string `json:"option"`
}

func (h *Handler) ToggleFilter(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	var req toggleRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.updateFilters(w, s, func(s *session.Session) error {
		return s.Filters.Toggle(req.Group, req.Option)
	})
}

type rangeRequest struct {
	Group string   `json:"group"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
}

func (h *Handler) SetFilterRange(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	var req rangeRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.updateFilters(w, s, func(s *session.Session) error {
		return s.Filters.SetRange(req.Group, req.Min, req.Max)
	})
}

// RemoveFilterOption drops one chip.
func (h *Handler) RemoveFilterOption(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	h.updateFilters(w, s, func(s *session.Session) error {
		return s.Filters.RemoveOption(ps.ByName("group"), ps.ByName("option"))
	})
}

func (h *Handler) ClearFilterGroup(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	h.updateFilters(w, s, func(s *session.Session) error {
		s.Filters.ClearGroup(ps.ByName("group"))
		return nil
	})
}

func (h *Handler) ClearFilters(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	h.updateFilters(w, s, func(s *session.Session) error {
		s.Filters.ClearAll()
		return nil
	})
}

func (h *Handler) updateFilters(w http.ResponseWriter, s *session.Session, fn func(*session.Session) error) {
	var out utils.M
	err := s.Do(func(s *session.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		out = filterState(s)
		return nil
	})
	if err != nil {
		fail(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}
