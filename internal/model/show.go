package model

import "time"

// Show represents a single timed event with a rectangular seating
// grid.  The grid is fixed at creation: seat_rows × seat_cols seats
// are seeded in bulk, coded <RowLetter><ColumnNumber>.  Everything
// except the price is immutable after creation; price changes never
// affect orders that already exist.
//
// Fields:
//  ID         – primary key identifier.
//  Title      – event title shown to buyers.
//  StartsAt   – when the event begins (UTC).
//  SeatRows   – number of seat rows (1..26, lettered A..Z).
//  SeatCols   – number of seat columns per row.
//  PriceCents – price in cents for one seat.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Show struct {
	ID         uint64    `json:"id"`          // shows.id
	Title      string    `json:"title"`       // shows.title
	StartsAt   time.Time `json:"starts_at"`   // shows.starts_at
	SeatRows   uint8     `json:"seat_rows"`   // shows.seat_rows
	SeatCols   uint8     `json:"seat_cols"`   // shows.seat_cols
	PriceCents uint32    `json:"price_cents"` // shows.price_cents
	CreatedAt  time.Time `json:"created_at"`  // shows.created_at
	UpdatedAt  time.Time `json:"updated_at"`  // shows.updated_at
}
