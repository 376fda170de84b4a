package filters

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skouce/catalog"
	"skouce/models"
)

func newSeedEngine() (*Engine, []models.Product) {
	return NewEngine(catalog.DefaultFacets()), catalog.SeedProducts()
}

func ids(ps []models.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func f(v float64) *float64 { return &v }

func TestApplyWithoutFiltersReturnsCatalogInOrder(t *testing.T) {
	e, products := newSeedEngine()
	assert.Equal(t, ids(products), ids(e.Apply(products)))
	assert.Equal(t, 0, e.ActiveFilterCount())
}

func TestChoiceGroupIsOrWithinGroup(t *testing.T) {
	e, products := newSeedEngine()

	require.NoError(t, e.Toggle("brand", "seiko"))
	require.NoError(t, e.Toggle("brand", "casio"))

	assert.Equal(t, []string{"5", "7"}, ids(e.Apply(products)))
	assert.Equal(t, 2, e.ActiveFilterCount())
}

func TestGroupsAreAndedTogether(t *testing.T) {
	e, products := newSeedEngine()

	require.NoError(t, e.Toggle("style", "sport"))
	require.NoError(t, e.Toggle("movement", "solar"))

	assert.Equal(t, []string{"3"}, ids(e.Apply(products)))
}

func TestLeadingWordAndLabelMatching(t *testing.T) {
	e, products := newSeedEngine()

	require.NoError(t, e.Toggle("strap", "metal"))
	assert.Equal(t, []string{"2"}, ids(e.Apply(products)), "Metal Bracelet matches metal")

	e.ClearAll()
	require.NoError(t, e.Toggle("color", "rose-gold"))
	assert.Equal(t, []string{"4"}, ids(e.Apply(products)))
}

func TestRangeIsInclusiveAndDefaultsToGroupBounds(t *testing.T) {
	e, products := newSeedEngine()

	require.NoError(t, e.SetRange("price", nil, f(54999)))
	assert.Equal(t, []string{"5", "6", "7", "8"}, ids(e.Apply(products)))
	assert.Equal(t, 1, e.ActiveFilterCount())

	require.NoError(t, e.SetRange("price", f(38999), f(54999)))
	assert.Equal(t, []string{"5", "8"}, ids(e.Apply(products)))
	assert.Equal(t, 1, e.ActiveFilterCount(), "a range group counts once")
}

func TestCaseSizeRangeReadsNumericPrefix(t *testing.T) {
	e, products := newSeedEngine()

	require.NoError(t, e.SetRange("case-size", f(44), nil))
	assert.Equal(t, []string{"3", "5", "7"}, ids(e.Apply(products)))
}

func TestRangeEqualToGroupBoundsIsInactive(t *testing.T) {
	e, _ := newSeedEngine()

	require.NoError(t, e.SetRange("price", f(10000), f(500000)))
	assert.False(t, e.Active().Has("price"))
	assert.Equal(t, 0, e.ActiveFilterCount())

	require.NoError(t, e.SetRange("price", f(20000), nil))
	require.NoError(t, e.SetRange("price", nil, nil))
	assert.False(t, e.Active().Has("price"))
}

func TestTogglingLastOptionDeletesGroupKey(t *testing.T) {
	e, _ := newSeedEngine()

	require.NoError(t, e.Toggle("brand", "seiko"))
	require.NoError(t, e.Toggle("brand", "casio"))
	require.NoError(t, e.Toggle("brand", "seiko"))
	assert.Equal(t, []string{"casio"}, e.Active().Options("brand"))

	require.NoError(t, e.Toggle("brand", "casio"))
	assert.False(t, e.Active().Has("brand"))
	assert.Empty(t, e.Active().Groups())
}

func TestRemoveOption(t *testing.T) {
	e, _ := newSeedEngine()

	require.NoError(t, e.Toggle("color", "black"))
	require.NoError(t, e.RemoveOption("color", "blue"), "removing an unselected option is a no-op")
	assert.Equal(t, 1, e.ActiveFilterCount())

	require.NoError(t, e.RemoveOption("color", "black"))
	assert.False(t, e.Active().Has("color"))
}

func TestClearGroupAndClearAll(t *testing.T) {
	e, products := newSeedEngine()

	require.NoError(t, e.Toggle("brand", "seiko"))
	require.NoError(t, e.SetRange("price", f(20000), nil))
	e.ClearGroup("brand")
	e.ClearGroup("not-a-group")
	assert.Equal(t, []string{"price"}, e.Active().Groups())

	e.ClearAll()
	assert.Equal(t, 0, e.ActiveFilterCount())
	assert.Len(t, e.Apply(products), len(products))
}

func TestValidationErrors(t *testing.T) {
	e, _ := newSeedEngine()

	assert.ErrorIs(t, e.Toggle("nope", "x"), ErrUnknownGroup)
	assert.ErrorIs(t, e.Toggle("brand", "rolex-fake"), ErrUnknownOption)
	assert.ErrorIs(t, e.Toggle("price", "x"), ErrWrongKind)
	assert.ErrorIs(t, e.SetRange("brand", f(1), nil), ErrWrongKind)
	assert.ErrorIs(t, e.SetRange("price", f(300000), f(20000)), ErrInvalidRange)
	assert.Equal(t, 0, e.ActiveFilterCount(), "failed operations leave the set unchanged")
}

func TestApplyNeverMutatesCatalog(t *testing.T) {
	e, products := newSeedEngine()
	before := ids(products)

	require.NoError(t, e.Toggle("brand", "tissot"))
	_ = e.Apply(products)

	assert.Equal(t, before, ids(products))
}

func TestPackageApply(t *testing.T) {
	e, products := newSeedEngine()
	require.NoError(t, e.Toggle("water-resistance", "200m"))

	got := Apply(catalog.DefaultFacets(), products, e.Active())
	assert.Equal(t, []string{"3", "5", "7"}, ids(got))
}

func TestSearchOptions(t *testing.T) {
	e, _ := newSeedEngine()

	groups := e.SearchOptions("GOLD")
	for _, g := range groups {
		if g.ID == "color" {
			require.Len(t, g.Options, 2)
			assert.Equal(t, "gold", g.Options[0].ID)
			assert.Equal(t, "rose-gold", g.Options[1].ID)
		}
		if g.ID == "brand" {
			assert.Empty(t, g.Options)
		}
	}
	assert.Len(t, e.SearchOptions("  "), len(catalog.DefaultFacets()))
}

func TestChips(t *testing.T) {
	e, _ := newSeedEngine()

	require.NoError(t, e.Toggle("brand", "seiko"))
	require.NoError(t, e.SetRange("case-size", f(40), nil))
	require.NoError(t, e.Toggle("brand", "tissot"))

	assert.Equal(t, []Chip{
		{GroupID: "brand", OptionID: "seiko", Label: "Seiko"},
		{GroupID: "brand", OptionID: "tissot", Label: "Tissot"},
		{GroupID: "case-size", Label: "Case Size (mm): 40–50mm"},
	}, e.Chips())
}

func TestActiveSetJSON(t *testing.T) {
	e, _ := newSeedEngine()
	require.NoError(t, e.Toggle("brand", "seiko"))
	require.NoError(t, e.SetRange("price", nil, f(50000)))

	raw, err := json.Marshal(e.Active())
	require.NoError(t, err)
	assert.JSONEq(t, `{"brand":["seiko"],"price":{"max":50000}}`, string(raw))
}

func TestCustomAttribute(t *testing.T) {
	groups := []models.FacetGroup{{
		ID: "feature", Label: "Feature", Kind: models.FacetChoice,
		Options: []models.FacetOption{{ID: "gps", Label: "GPS"}},
	}}
	hasGPS := func(p models.Product) string {
		for _, feat := range p.Specs.Features {
			if feat == "GPS" {
				return feat
			}
		}
		return ""
	}
	e := NewEngine(groups, WithChoiceAttribute("feature", hasGPS))
	require.NoError(t, e.Toggle("feature", "gps"))

	assert.Equal(t, []string{"3"}, ids(e.Apply(catalog.SeedProducts())))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "metal-bracelet", Slug("Metal Bracelet"))
	assert.Equal(t, "rubber-silicone", Slug("Rubber/Silicone"))
	assert.Equal(t, "300m", Slug("300m+"))
	assert.Equal(t, "", Slug("  "))
}
