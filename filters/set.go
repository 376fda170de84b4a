package filters

import "encoding/json"

// Range is a numeric selection. A nil bound falls back to the group's own bound.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

func (r Range) isZero() bool {
	return r.Min == nil && r.Max == nil
}

// ActiveFilterSet maps group ids to selections. A group key exists only while
// its selection is non-empty: choice groups hold at least one option, range
// groups at least one explicit bound.
type ActiveFilterSet struct {
	choices map[string][]string // option ids in selection order
	ranges  map[string]Range
	order   []string // group ids in first-activation order
}

func newActiveFilterSet() ActiveFilterSet {
	return ActiveFilterSet{
		choices: map[string][]string{},
		ranges:  map[string]Range{},
	}
}

// Has reports whether group has an active selection.
func (s ActiveFilterSet) Has(group string) bool {
	if _, ok := s.choices[group]; ok {
		return true
	}
	_, ok := s.ranges[group]
	return ok
}

// Options returns the selected option ids of a choice group.
func (s ActiveFilterSet) Options(group string) []string {
	return append([]string(nil), s.choices[group]...)
}

// Range returns the selection of a range group.
func (s ActiveFilterSet) Range(group string) (Range, bool) {
	r, ok := s.ranges[group]
	return r, ok
}

// Groups lists active group ids in the order they were first activated.
func (s ActiveFilterSet) Groups() []string {
	return append([]string(nil), s.order...)
}

func (s ActiveFilterSet) Len() int {
	return len(s.order)
}

// Count is the number of selected options plus one per active range group.
func (s ActiveFilterSet) Count() int {
	n := len(s.ranges)
	for _, opts := range s.choices {
		n += len(opts)
	}
	return n
}

func (s ActiveFilterSet) selected(group, option string) bool {
	for _, o := range s.choices[group] {
		if o == option {
			return true
		}
	}
	return false
}

func (s *ActiveFilterSet) toggle(group, option string) {
	if s.selected(group, option) {
		s.removeOption(group, option)
		return
	}
	if !s.Has(group) {
		s.order = append(s.order, group)
	}
	s.choices[group] = append(s.choices[group], option)
}

func (s *ActiveFilterSet) removeOption(group, option string) {
	opts := s.choices[group]
	kept := opts[:0:0]
	for _, o := range opts {
		if o != option {
			kept = append(kept, o)
		}
	}
	if len(kept) == 0 {
		s.clear(group)
		return
	}
	s.choices[group] = kept
}

func (s *ActiveFilterSet) setRange(group string, r Range) {
	if r.isZero() {
		s.clear(group)
		return
	}
	if !s.Has(group) {
		s.order = append(s.order, group)
	}
	s.ranges[group] = r
}

func (s *ActiveFilterSet) clear(group string) {
	if !s.Has(group) {
		return
	}
	delete(s.choices, group)
	delete(s.ranges, group)
	for i, g := range s.order {
		if g == group {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
}

func (s ActiveFilterSet) clone() ActiveFilterSet {
	c := newActiveFilterSet()
	for g, opts := range s.choices {
		c.choices[g] = append([]string(nil), opts...)
	}
	for g, r := range s.ranges {
		c.ranges[g] = r
	}
	c.order = append([]string(nil), s.order...)
	return c
}

// MarshalJSON renders the set as {"brand": ["omega"], "price": {"max": 50000}}.
func (s ActiveFilterSet) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.order))
	for g, opts := range s.choices {
		out[g] = opts
	}
	for g, r := range s.ranges {
		out[g] = r
	}
	return json.Marshal(out)
}
