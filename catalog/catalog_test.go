package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skouce/models"
)

func TestLoadSeed(t *testing.T) {
	snap, err := Load(context.Background(), Seed())
	require.NoError(t, err)

	assert.Equal(t, len(SeedProducts()), snap.Len())
	assert.Len(t, snap.Facets(), len(DefaultFacets()))

	p, ok := snap.Product("3")
	require.True(t, ok)
	assert.Equal(t, "Sport Elite", p.Name)

	_, ok = snap.Product("missing")
	assert.False(t, ok)
}

func TestSnapshotKeepsOrderAndDropsDuplicates(t *testing.T) {
	snap := NewSnapshot([]models.Product{
		{ID: "b", Name: "first b"},
		{ID: "a"},
		{ID: "b", Name: "second b"},
	}, nil)

	got := snap.Products()
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)

	p, _ := snap.Product("b")
	assert.Equal(t, "first b", p.Name)
}

func TestSnapshotReturnsCopies(t *testing.T) {
	snap := NewSnapshot(SeedProducts(), DefaultFacets())

	ps := snap.Products()
	ps[0].Name = "mutated"

	p, _ := snap.Product(ps[0].ID)
	assert.NotEqual(t, "mutated", p.Name)
}

func TestSeedFacetsAreWellFormed(t *testing.T) {
	seen := map[string]bool{}
	for _, g := range DefaultFacets() {
		assert.False(t, seen[g.ID], "duplicate group %s", g.ID)
		seen[g.ID] = true

		switch g.Kind {
		case models.FacetChoice:
			assert.NotEmpty(t, g.Options, g.ID)
		case models.FacetRange:
			assert.Less(t, g.Min, g.Max, g.ID)
		default:
			t.Fatalf("group %s has kind %q", g.ID, g.Kind)
		}
	}
}
