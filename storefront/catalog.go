package storefront

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"skouce/models"
	"skouce/session"
	"skouce/utils"
)

// GetCatalog returns the unfiltered catalog and its facet metadata.
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"products": h.Catalog.Products(),
		"facets":   h.Catalog.Facets(),
	})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, ok := h.Catalog.Product(ps.ByName("id"))
	if !ok {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// GetProducts returns the catalog narrowed by the session's active filters.
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	var products []models.Product
	s.Do(func(s *session.Session) error {
		products = s.Filters.Apply(s.Catalog.Products())
		return nil
	})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"products": products,
		"total":    s.Catalog.Len(),
		"count":    len(products),
	})
}
