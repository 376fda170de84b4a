// Package catalog supplies the read-only product list and facet metadata.
package catalog

import (
	"context"
	"fmt"

	"skouce/models"
)

// Catalog is the read-only source of products and facet groups.
type Catalog interface {
	Products(ctx context.Context) ([]models.Product, error)
	Facets(ctx context.Context) ([]models.FacetGroup, error)
}

// Snapshot is the catalog as loaded once for a session. It is never mutated.
type Snapshot struct {
	products []models.Product
	facets   []models.FacetGroup
	byID     map[string]int
}

// Load reads a full snapshot from c.
func Load(ctx context.Context, c Catalog) (*Snapshot, error) {
	products, err := c.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	facets, err := c.Facets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load facets: %w", err)
	}
	return NewSnapshot(products, facets), nil
}

// NewSnapshot copies products and facets into a lookup-ready snapshot.
// Later duplicates of a product id are dropped.
func NewSnapshot(products []models.Product, facets []models.FacetGroup) *Snapshot {
	s := &Snapshot{
		products: make([]models.Product, 0, len(products)),
		facets:   append([]models.FacetGroup(nil), facets...),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		if _, dup := s.byID[p.ID]; dup {
			continue
		}
		s.byID[p.ID] = len(s.products)
		s.products = append(s.products, p)
	}
	return s
}

// Products returns the catalog in its original order.
func (s *Snapshot) Products() []models.Product {
	return append([]models.Product(nil), s.products...)
}

func (s *Snapshot) Facets() []models.FacetGroup {
	return append([]models.FacetGroup(nil), s.facets...)
}

// Product looks a product up by id.
func (s *Snapshot) Product(id string) (models.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return s.products[i], true
}

func (s *Snapshot) Len() int {
	return len(s.products)
}
