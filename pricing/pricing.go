// Package pricing derives order totals from cart lines.
package pricing

import (
	"github.com/shopspring/decimal"

	"skouce/models"
)

const (
	FreeShippingThreshold int64 = 75000 // strictly above qualifies
	ShippingFee           int64 = 2000
	GiftWrapFee           int64 = 500
	TaxPercent            int64 = 18 // GST
)

// Compute prices the given lines from scratch. Lines must already be valid
// (see models.LineItem.Validate).
func Compute(items []models.LineItem, giftWrap bool) models.PriceBreakdown {
	var b models.PriceBreakdown
	for _, it := range items {
		b.Subtotal += it.PriceSnapshot * int64(it.Quantity)
	}

	b.Shipping = ShippingFee
	if b.Subtotal > FreeShippingThreshold {
		b.Shipping = 0
	}

	b.Tax = Tax(b.Subtotal)
	if giftWrap {
		b.GiftWrapFee = GiftWrapFee
	}
	b.Total = b.Subtotal + b.Shipping + b.Tax + b.GiftWrapFee
	return b
}

var hundred = decimal.NewFromInt(100)

// Tax is TaxPercent of amount rounded half-up to the nearest rupee.
func Tax(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(TaxPercent)).
		Div(hundred).
		Round(0).
		IntPart()
}
