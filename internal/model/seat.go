package model

import "time"

// Seat status values.  A seat is in exactly one of three states and
// the holder/buyer fields must agree with the state:
//
//	AVAILABLE – no holder, no buyer.
//	HELD      – holder set, no buyer.  HoldExpiresAt is set while the
//	            hold is time-boxed and nil once the hold is frozen.
//	SOLD      – buyer set, no holder, no expiry.
const (
	SeatAvailable = "AVAILABLE"
	SeatHeld      = "HELD"
	SeatSold      = "SOLD"
)

// Seat is one cell of a show's seating grid.  The seat row is the
// single source of truth for ownership; sessions only cache what the
// buyer selected.  Seats are created in bulk with their show and are
// removed only when the show is deleted.
//
// Fields:
//  ID            – primary key identifier.
//  ShowID        – show this seat belongs to.
//  Code          – row letter + column number, unique per show (e.g. "B7").
//  Status        – AVAILABLE, HELD or SOLD.
//  HolderID      – user currently holding the seat (HELD only).
//  HoldExpiresAt – when a time-boxed hold lapses; nil once frozen.
//  BuyerID       – user the seat was sold to (SOLD only).
type Seat struct {
	ID            uint64     `json:"id"`                        // seats.id
	ShowID        uint64     `json:"show_id"`                   // seats.show_id
	Code          string     `json:"code"`                      // seats.code
	Status        string     `json:"status"`                    // seats.status
	HolderID      *uint64    `json:"holder_id,omitempty"`       // seats.holder_id (nullable)
	HoldExpiresAt *time.Time `json:"hold_expires_at,omitempty"` // seats.hold_expires_at (nullable)
	BuyerID       *uint64    `json:"buyer_id,omitempty"`        // seats.buyer_id (nullable)
}

// SeatStatus is the per-seat entry of the seat status map returned
// to the conversational front-end.  Expired holds are reconciled
// before the map is built, so HELD here always means a live or
// frozen hold.
type SeatStatus struct {
	Code     string  `json:"code"`                // seat code within the show
	Status   string  `json:"status"`              // AVAILABLE, HELD or SOLD
	HolderID *uint64 `json:"holder_id,omitempty"` // present while HELD so callers can mark "yours"
}
