package models

// OrderEvent is published when checkout confirms an order.
type OrderEvent struct {
	Type      string `json:"type"` // "order.confirmed"
	OrderID   string `json:"order_id"`
	SessionID string `json:"session_id,omitempty"`
	Total     int64  `json:"total"`
	Items     int    `json:"items"`
	Timestamp int64  `json:"timestamp"`
}

const EventOrderConfirmed = "order.confirmed"
