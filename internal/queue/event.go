// Package queue defines message payloads exchanged over the message broker.
package queue

// Order event types published on the order.events queue.
const (
	OrderCreated  = "order.created"
	OrderApproved = "order.approved"
	OrderRejected = "order.rejected"
)

// OrderEvent is published whenever an order is created or settled.  It
// carries enough information for downstream consumers — the
// conversational front-end notifying the buyer, the operator channel
// announcing a new receipt to review — without querying the primary
// database.  The core engine never publishes; the HTTP handlers do,
// after their transaction has committed.
type OrderEvent struct {
	Type        string   `json:"type"` // one of the Order* constants
	OrderID     uint64   `json:"order_id"`
	UserID      uint64   `json:"user_id"`
	ShowID      uint64   `json:"show_id"`
	ShowTitle   string   `json:"show_title,omitempty"`
	SeatCodes   []string `json:"seats"`
	AmountCents uint32   `json:"amount_cents"`
	Status      string   `json:"status"`
	OccurredAt  string   `json:"occurred_at"` // RFC3339 UTC
}
