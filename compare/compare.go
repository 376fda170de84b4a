// Package compare holds the side-by-side comparison slots.
package compare

import (
	"errors"
	"fmt"
	"strings"

	"skouce/models"
	"skouce/pricing"
)

// MaxSlots is the number of watches shown side by side.
const MaxSlots = 3

var (
	ErrComparisonFull  = errors.New("compare: comparison is full")
	ErrAlreadyCompared = errors.New("compare: product already in comparison")
	ErrUnknownProduct  = errors.New("compare: unknown product")
)

// Lookup resolves a product id against the catalog.
type Lookup func(id string) (models.Product, bool)

// Set is an ordered list of at most MaxSlots distinct products.
type Set struct {
	lookup Lookup
	slots  []models.Product
}

func NewSet(lookup Lookup) *Set {
	return &Set{lookup: lookup, slots: make([]models.Product, 0, MaxSlots)}
}

func (s *Set) index(id string) int {
	for i, p := range s.slots {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Add appends id. Duplicates are reported first, then unknown ids, then a
// full set; any failure leaves the slots unchanged.
func (s *Set) Add(id string) error {
	if s.index(id) >= 0 {
		return fmt.Errorf("%w: %s", ErrAlreadyCompared, id)
	}
	p, ok := s.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProduct, id)
	}
	if len(s.slots) >= MaxSlots {
		return ErrComparisonFull
	}
	s.slots = append(s.slots, p)
	return nil
}

// Remove drops id if present; later slots shift left.
func (s *Set) Remove(id string) {
	if i := s.index(id); i >= 0 {
		s.slots = append(s.slots[:i], s.slots[i+1:]...)
	}
}

func (s *Set) Clear() {
	s.slots = s.slots[:0]
}

// List returns the compared products in insertion order.
func (s *Set) List() []models.Product {
	return append([]models.Product(nil), s.slots...)
}

func (s *Set) Has(id string) bool {
	return s.index(id) >= 0
}

func (s *Set) Len() int {
	return len(s.slots)
}

// Remaining is the number of free slots.
func (s *Set) Remaining() int {
	return MaxSlots - len(s.slots)
}

// Candidates returns the products that can still be added, in the given order.
func (s *Set) Candidates(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !s.Has(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

// Row is one line of the comparison table; Values follows List order.
type Row struct {
	Label  string   `json:"label"`
	Values []string `json:"values"`
}

var rowSpecs = []struct {
	label string
	value func(models.Product) string
}{
	{"Price", func(p models.Product) string { return pricing.FormatRupees(p.Price) }},
	{"Original Price", func(p models.Product) string {
		if p.OriginalPrice == nil {
			return "-"
		}
		return pricing.FormatRupees(*p.OriginalPrice)
	}},
	{"Rating", func(p models.Product) string {
		return fmt.Sprintf("%.1f (%d reviews)", p.Rating, p.Reviews)
	}},
	{"Movement", func(p models.Product) string { return p.Specs.Movement }},
	{"Case Size", func(p models.Product) string { return p.Specs.CaseSize }},
	{"Case Material", func(p models.Product) string { return p.Specs.CaseMaterial }},
	{"Strap", func(p models.Product) string { return p.Specs.StrapMaterial }},
	{"Water Resistance", func(p models.Product) string { return p.Specs.WaterResistance }},
	{"Features", func(p models.Product) string { return strings.Join(p.Specs.Features, ", ") }},
	{"Warranty", func(p models.Product) string { return p.Specs.Warranty }},
}

// Rows builds the comparison table for the current slots.
func (s *Set) Rows() []Row {
	rows := make([]Row, 0, len(rowSpecs))
	for _, spec := range rowSpecs {
		r := Row{Label: spec.label, Values: make([]string, 0, len(s.slots))}
		for _, p := range s.slots {
			v := spec.value(p)
			if v == "" {
				v = "-"
			}
			r.Values = append(r.Values, v)
		}
		rows = append(rows, r)
	}
	return rows
}
