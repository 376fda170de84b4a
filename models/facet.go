package models

// FacetKind distinguishes enumerable facets from numeric ranges.
type FacetKind string

const (
	FacetChoice FacetKind = "choice"
	FacetRange  FacetKind = "range"
)

// FacetOption is one selectable value of a choice facet.
type FacetOption struct {
	ID    string `json:"id" bson:"id"`
	Label string `json:"label" bson:"label"`
	Count int    `json:"count,omitempty" bson:"count,omitempty"`
}

// FacetGroup is static catalog metadata describing one filter dimension.
type FacetGroup struct {
	ID      string        `json:"id" bson:"groupid"`
	Label   string        `json:"label" bson:"label"`
	Kind    FacetKind     `json:"kind" bson:"kind"`
	Options []FacetOption `json:"options,omitempty" bson:"options,omitempty"`
	Min     float64       `json:"min,omitempty" bson:"min,omitempty"`
	Max     float64       `json:"max,omitempty" bson:"max,omitempty"`
	Unit    string        `json:"unit,omitempty" bson:"unit,omitempty"`
	// Position orders groups when they come from an unordered store.
	Position int `json:"-" bson:"position"`
}

// Option returns the option with the given id.
func (g FacetGroup) Option(id string) (FacetOption, bool) {
	for _, o := range g.Options {
		if o.ID == id {
			return o, true
		}
	}
	return FacetOption{}, false
}
