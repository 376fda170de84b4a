package models

// PriceBreakdown is derived from the cart on every read and never stored on its own.
type PriceBreakdown struct {
	Subtotal    int64 `json:"subtotal" bson:"subtotal"`
	Shipping    int64 `json:"shipping" bson:"shipping"`
	Tax         int64 `json:"tax" bson:"tax"`
	GiftWrapFee int64 `json:"giftWrapFee" bson:"giftWrapFee"`
	Total       int64 `json:"total" bson:"total"`
}

// FreeShipping reports whether the order qualified for free delivery.
func (b PriceBreakdown) FreeShipping() bool {
	return b.Shipping == 0
}
