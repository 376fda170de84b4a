package models

import (
	"encoding/json"
	"time"
)

// WishlistItem is a saved product. PriceDropped is derived from the product on read.
type WishlistItem struct {
	Product   Product   `json:"product"`
	DateAdded time.Time `json:"dateAdded"`
	InStock   bool      `json:"inStock"`
}

func (w WishlistItem) ID() string {
	return w.Product.ID
}

func (w WishlistItem) PriceDropped() bool {
	return w.Product.PriceDropped()
}

// MarshalJSON adds the derived flags so clients never store them.
func (w WishlistItem) MarshalJSON() ([]byte, error) {
	type plain WishlistItem
	return json.Marshal(struct {
		plain
		PriceDropped bool  `json:"priceDropped"`
		Savings      int64 `json:"savings"`
	}{plain(w), w.PriceDropped(), w.Product.Savings()})
}
