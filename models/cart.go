package models

import (
	"fmt"
	"time"
)

// LineItem is a single cart line. PriceSnapshot is the unit price when the
// product was added to the cart.
type LineItem struct {
	ProductID     string    `json:"productId" bson:"productId"`
	Name          string    `json:"name" bson:"name"`
	Brand         string    `json:"brand,omitempty" bson:"brand,omitempty"`
	Image         string    `json:"image,omitempty" bson:"image,omitempty"`
	Quantity      int       `json:"quantity" bson:"quantity"`
	PriceSnapshot int64     `json:"price" bson:"price"`
	AddedAt       time.Time `json:"addedAt" bson:"addedAt"`
}

// Validate rejects lines that cannot be priced.
func (li LineItem) Validate() error {
	if li.ProductID == "" {
		return fmt.Errorf("line item: missing product id")
	}
	if li.Quantity <= 0 {
		return fmt.Errorf("line item %s: quantity must be positive, got %d", li.ProductID, li.Quantity)
	}
	if li.PriceSnapshot < 0 {
		return fmt.Errorf("line item %s: negative price %d", li.ProductID, li.PriceSnapshot)
	}
	return nil
}

// ShippingAddress is the delivery part of a confirmed order.
type ShippingAddress struct {
	FirstName  string `json:"firstName" bson:"firstName"`
	LastName   string `json:"lastName" bson:"lastName"`
	Email      string `json:"email" bson:"email"`
	Phone      string `json:"phone" bson:"phone"`
	Address    string `json:"address" bson:"address"`
	City       string `json:"city" bson:"city"`
	State      string `json:"state" bson:"state"`
	PostalCode string `json:"pincode" bson:"pincode"`
	Country    string `json:"country" bson:"country"`
}

// Order represents a confirmed order.
type Order struct {
	OrderID     string          `json:"orderId" bson:"orderId"`
	SessionID   string          `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	Items       []LineItem      `json:"items" bson:"items"`
	Shipping    ShippingAddress `json:"shipping" bson:"shipping"`
	CardLast4   string          `json:"cardLast4" bson:"cardLast4"`
	PaymentRef  string          `json:"paymentRef,omitempty" bson:"paymentRef,omitempty"`
	GiftWrap    bool            `json:"giftWrap" bson:"giftWrap"`
	GiftMessage string          `json:"giftMessage,omitempty" bson:"giftMessage,omitempty"`
	Newsletter  bool            `json:"newsletter" bson:"newsletter"`
	Breakdown   PriceBreakdown  `json:"breakdown" bson:"breakdown"`
	Status      string          `json:"status" bson:"status"` // "confirmed"
	CreatedAt   time.Time       `json:"createdAt" bson:"createdAt"`
}
