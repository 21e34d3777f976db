package model

import "time"

// Session is the per-buyer conversation state.  It lets the
// front-end resume a dialog across process restarts: which show the
// buyer is looking at, which seats they picked and the quoted total.
// It is a convenience cache only — seat rows stay authoritative for
// ownership — and is deleted when the buyer's order reaches a
// terminal status or the flow is restarted.
//
// Fields:
//  UserID     – buyer the session belongs to (one row per user).
//  State      – conversation state tag (e.g. "picking_seats").
//  ShowID     – show the conversation is about, if any.
//  SeatCodes  – seat codes currently selected by the buyer.
//  TotalCents – computed total for the selection.
//  UpdatedAt  – when the session was last overwritten.
type Session struct {
	UserID     uint64    `json:"user_id"`           // sessions.user_id
	State      string    `json:"state"`             // sessions.state
	ShowID     *uint64   `json:"show_id,omitempty"` // sessions.show_id (nullable)
	SeatCodes  []string  `json:"seat_codes"`        // sessions.seat_codes (JSON array)
	TotalCents uint32    `json:"total_cents"`       // sessions.total_cents
	UpdatedAt  time.Time `json:"updated_at"`        // sessions.updated_at
}
