package model

import "time"

// Order status values.  An order is created PENDING and moves to
// exactly one terminal status; a second approve/reject is a no-op
// that reports the existing terminal status.
const (
	OrderPending  = "PENDING"
	OrderApproved = "APPROVED"
	OrderRejected = "REJECTED"
)

// Order records a buyer's purchase request for a set of frozen
// seats, settled manually by an operator after reviewing the
// submitted receipt.  The seat list and amount are fixed at
// creation and never mutated.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – buyer who submitted the order.
//  ShowID      – show the seats belong to.
//  SeatCodes   – ordered seat codes, fixed at creation.
//  AmountCents – unit price × seat count at confirmation time.
//  Receipt     – payment evidence submitted by the buyer.
//  Status      – PENDING, APPROVED or REJECTED.
//  CreatedAt   – creation timestamp.
//  SettledAt   – settlement timestamp (set on approval).
//  SettledBy   – operator who settled the order.
type Order struct {
	ID          uint64     `json:"id"`                   // orders.id
	UserID      uint64     `json:"user_id"`              // orders.user_id
	ShowID      uint64     `json:"show_id"`              // orders.show_id
	SeatCodes   []string   `json:"seat_codes"`           // order_seats rows, ordered by position
	AmountCents uint32     `json:"amount_cents"`         // orders.amount_cents
	Receipt     Receipt    `json:"receipt"`              // orders.receipt_kind + orders.receipt_value
	Status      string     `json:"status"`               // orders.status
	CreatedAt   time.Time  `json:"created_at"`           // orders.created_at
	SettledAt   *time.Time `json:"settled_at,omitempty"` // orders.settled_at (nullable)
	SettledBy   *uint64    `json:"settled_by,omitempty"` // orders.settled_by (nullable)
}
