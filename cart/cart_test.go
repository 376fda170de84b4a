package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skouce/catalog"
	"skouce/models"
)

func TestAddIncrementsExistingLine(t *testing.T) {
	products := catalog.SeedProducts()
	c := New()

	require.NoError(t, c.Add(products[0], 1))
	require.NoError(t, c.Add(products[4], 2))
	require.NoError(t, c.Add(products[0], 1))

	lines := c.LineItems()
	require.Len(t, lines, 2)
	assert.Equal(t, "1", lines[0].ProductID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, int64(249999), lines[0].PriceSnapshot)
	assert.Equal(t, 4, c.Count())
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.Add(catalog.SeedProducts()[0], 0), ErrInvalidQuantity)
	assert.Empty(t, c.LineItems())
}

func TestSetQuantity(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(catalog.SeedProducts()[1], 1))

	require.NoError(t, c.SetQuantity("2", 5))
	assert.Equal(t, 5, c.Count())

	require.NoError(t, c.SetQuantity("2", 0))
	assert.Empty(t, c.LineItems())

	assert.ErrorIs(t, c.SetQuantity("2", 1), ErrNotInCart)
	assert.ErrorIs(t, c.SetQuantity("2", -1), ErrInvalidQuantity)
}

func TestRemoveAndClear(t *testing.T) {
	products := catalog.SeedProducts()
	c := New()
	require.NoError(t, c.Add(products[0], 1))
	require.NoError(t, c.Add(products[1], 1))

	c.Remove("1")
	c.Remove("missing")
	require.Len(t, c.LineItems(), 1)

	c.Clear()
	assert.Zero(t, c.Count())
}

func TestLineItemsIsACopy(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(catalog.SeedProducts()[2], 1))

	lines := c.LineItems()
	lines[0].Quantity = 99
	assert.Equal(t, 1, c.Count())
}

func TestRemoveLinesKeepsUnpaidUnits(t *testing.T) {
	products := catalog.SeedProducts()
	c := New()
	require.NoError(t, c.Add(products[0], 3))
	require.NoError(t, c.Add(products[1], 1))
	require.NoError(t, c.Add(products[2], 1))

	c.RemoveLines([]models.LineItem{
		{ProductID: "1", Quantity: 2},
		{ProductID: "2", Quantity: 1},
		{ProductID: "missing", Quantity: 1},
	})

	lines := c.LineItems()
	require.Len(t, lines, 2)
	assert.Equal(t, "1", lines[0].ProductID)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, "3", lines[1].ProductID)
}
