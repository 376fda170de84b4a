// Package cart keeps a shopper's cart lines for the lifetime of a session.
package cart

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"skouce/models"
)

var (
	ErrInvalidQuantity = errors.New("cart: quantity must be positive")
	ErrNotInCart       = errors.New("cart: product not in cart")
)

// Cart is safe for concurrent use; checkout clears it from the payment goroutine.
type Cart struct {
	mu    sync.Mutex
	lines []models.LineItem
	now   func() time.Time
}

func New() *Cart {
	return &Cart{now: time.Now}
}

// Add increments the quantity if the product is already in the cart, or
// inserts a new line priced at the product's current price.
func (c *Cart) Add(p models.Product, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, qty)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity += qty
			return nil
		}
	}
	c.lines = append(c.lines, models.LineItem{
		ProductID:     p.ID,
		Name:          p.Name,
		Brand:         p.Brand,
		Image:         p.Image,
		Quantity:      qty,
		PriceSnapshot: p.Price,
		AddedAt:       c.now(),
	})
	return nil
}

// RemoveLines takes paid lines out of the cart. Each line is decremented by
// the paid quantity, so units added after the snapshot stay.
func (c *Cart) RemoveLines(paid []models.LineItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range paid {
		for i := range c.lines {
			if c.lines[i].ProductID != p.ProductID {
				continue
			}
			c.lines[i].Quantity -= p.Quantity
			if c.lines[i].Quantity <= 0 {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
			}
			break
		}
	}
}

// SetQuantity replaces a line's quantity. Zero removes the line.
func (c *Cart) SetQuantity(productID string, qty int) error {
	if qty < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, qty)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		if qty == 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity = qty
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotInCart, productID)
}

func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}

// LineItems returns a copy of the cart lines in insertion order.
func (c *Cart) LineItems() []models.LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.LineItem(nil), c.lines...)
}

// Count is the total number of units, shown on the cart badge.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, li := range c.lines {
		n += li.Quantity
	}
	return n
}
