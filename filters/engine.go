// Package filters narrows a catalog by facet selections.
package filters

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"skouce/models"
)

var (
	ErrUnknownGroup  = errors.New("filters: unknown facet group")
	ErrUnknownOption = errors.New("filters: unknown facet option")
	ErrWrongKind     = errors.New("filters: operation does not fit the group kind")
	ErrInvalidRange  = errors.New("filters: minimum exceeds maximum")
)

// Engine owns one shopper's active filter set over static facet metadata.
type Engine struct {
	groups  []models.FacetGroup
	byID    map[string]int
	choices map[string]ChoiceAttribute
	ranges  map[string]RangeAttribute
	active  ActiveFilterSet
}

type Option func(*Engine)

// WithChoiceAttribute overrides how a choice group reads products.
func WithChoiceAttribute(group string, fn ChoiceAttribute) Option {
	return func(e *Engine) { e.choices[group] = fn }
}

// WithRangeAttribute overrides how a range group reads products.
func WithRangeAttribute(group string, fn RangeAttribute) Option {
	return func(e *Engine) { e.ranges[group] = fn }
}

func NewEngine(groups []models.FacetGroup, opts ...Option) *Engine {
	e := &Engine{
		groups:  append([]models.FacetGroup(nil), groups...),
		byID:    make(map[string]int, len(groups)),
		choices: defaultChoiceAttributes(),
		ranges:  defaultRangeAttributes(),
		active:  newActiveFilterSet(),
	}
	for i, g := range e.groups {
		e.byID[g.ID] = i
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Groups returns the facet metadata in display order.
func (e *Engine) Groups() []models.FacetGroup {
	return append([]models.FacetGroup(nil), e.groups...)
}

func (e *Engine) group(id string) (models.FacetGroup, error) {
	i, ok := e.byID[id]
	if !ok {
		return models.FacetGroup{}, fmt.Errorf("%w: %q", ErrUnknownGroup, id)
	}
	return e.groups[i], nil
}

func (e *Engine) choiceGroup(groupID, optionID string) error {
	g, err := e.group(groupID)
	if err != nil {
		return err
	}
	if g.Kind != models.FacetChoice {
		return fmt.Errorf("%w: %q is a %s group", ErrWrongKind, groupID, g.Kind)
	}
	if _, ok := g.Option(optionID); !ok {
		return fmt.Errorf("%w: %q in %q", ErrUnknownOption, optionID, groupID)
	}
	return nil
}

// Toggle selects optionID in a choice group, or deselects it if already
// selected. Deselecting the last option removes the group.
func (e *Engine) Toggle(groupID, optionID string) error {
	if err := e.choiceGroup(groupID, optionID); err != nil {
		return err
	}
	e.active.toggle(groupID, optionID)
	return nil
}

// RemoveOption deselects optionID if it is selected.
func (e *Engine) RemoveOption(groupID, optionID string) error {
	if err := e.choiceGroup(groupID, optionID); err != nil {
		return err
	}
	if e.active.selected(groupID, optionID) {
		e.active.removeOption(groupID, optionID)
	}
	return nil
}

// SetRange sets the bounds of a range group. A bound equal to the group's own
// limit is the default and is dropped; with no bounds left the group is removed.
func (e *Engine) SetRange(groupID string, min, max *float64) error {
	g, err := e.group(groupID)
	if err != nil {
		return err
	}
	if g.Kind != models.FacetRange {
		return fmt.Errorf("%w: %q is a %s group", ErrWrongKind, groupID, g.Kind)
	}

	lo, hi := bounds(g, Range{Min: min, Max: max})
	if lo > hi {
		return fmt.Errorf("%w: %v > %v", ErrInvalidRange, lo, hi)
	}

	var r Range
	if min != nil && *min != g.Min {
		v := *min
		r.Min = &v
	}
	if max != nil && *max != g.Max {
		v := *max
		r.Max = &v
	}
	e.active.setRange(groupID, r)
	return nil
}

// ClearGroup removes any selection for groupID.
func (e *Engine) ClearGroup(groupID string) {
	e.active.clear(groupID)
}

func (e *Engine) ClearAll() {
	e.active = newActiveFilterSet()
}

// ActiveFilterCount is the badge number shown on the filter button.
func (e *Engine) ActiveFilterCount() int {
	return e.active.Count()
}

// Active returns a copy of the current selections.
func (e *Engine) Active() ActiveFilterSet {
	return e.active.clone()
}

// Apply returns the products matching every active group, in catalog order.
func (e *Engine) Apply(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if e.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether p satisfies all active groups.
func (e *Engine) Matches(p models.Product) bool {
	for _, id := range e.active.order {
		if !e.matchGroup(id, p) {
			return false
		}
	}
	return true
}

func (e *Engine) matchGroup(id string, p models.Product) bool {
	g, err := e.group(id)
	if err != nil {
		return false
	}

	switch g.Kind {
	case models.FacetChoice:
		read, ok := e.choices[id]
		if !ok {
			return false
		}
		value := read(p)
		for _, optID := range e.active.choices[id] {
			if opt, ok := g.Option(optID); ok && optionMatches(opt, value) {
				return true
			}
		}
		return false

	case models.FacetRange:
		read, ok := e.ranges[id]
		if !ok {
			return false
		}
		v, ok := read(p)
		if !ok {
			return false
		}
		lo, hi := bounds(g, e.active.ranges[id])
		return v >= lo && v <= hi
	}
	return false
}

func bounds(g models.FacetGroup, r Range) (lo, hi float64) {
	lo, hi = g.Min, g.Max
	if r.Min != nil {
		lo = *r.Min
	}
	if r.Max != nil {
		hi = *r.Max
	}
	return lo, hi
}

// Apply filters products with a fresh engine over groups holding set.
func Apply(groups []models.FacetGroup, products []models.Product, set ActiveFilterSet) []models.Product {
	e := NewEngine(groups)
	e.active = set.clone()
	return e.Apply(products)
}

// SearchOptions narrows every choice group to options whose label contains
// term, case-insensitively. Range groups are returned untouched.
func (e *Engine) SearchOptions(term string) []models.FacetGroup {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return e.Groups()
	}
	out := make([]models.FacetGroup, 0, len(e.groups))
	for _, g := range e.groups {
		if g.Kind == models.FacetChoice {
			var kept []models.FacetOption
			for _, o := range g.Options {
				if strings.Contains(strings.ToLower(o.Label), term) {
					kept = append(kept, o)
				}
			}
			g.Options = kept
		}
		out = append(out, g)
	}
	return out
}

// Chip is one removable entry in the active-filters bar.
type Chip struct {
	GroupID  string `json:"groupId"`
	OptionID string `json:"optionId,omitempty"` // empty for range groups
	Label    string `json:"label"`
}

// Chips lists active selections: one chip per selected option, one per range group.
func (e *Engine) Chips() []Chip {
	var out []Chip
	for _, id := range e.active.order {
		g, err := e.group(id)
		if err != nil {
			continue
		}
		if g.Kind == models.FacetRange {
			lo, hi := bounds(g, e.active.ranges[id])
			out = append(out, Chip{
				GroupID: id,
				Label:   fmt.Sprintf("%s: %s–%s%s", g.Label, num(lo), num(hi), g.Unit),
			})
			continue
		}
		for _, optID := range e.active.choices[id] {
			opt, _ := g.Option(optID)
			out = append(out, Chip{GroupID: id, OptionID: optID, Label: opt.Label})
		}
	}
	return out
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
