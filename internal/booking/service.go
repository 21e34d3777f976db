// Package booking implements the seat inventory and order settlement
// engine: time-boxed seat holds with lazy expiry reconciliation, the
// per-seat toggle state machine, and the transactional settlement of
// pending orders by an operator.
//
// Every operation that mutates state opens exactly one transaction,
// performs its row locks and conditional writes, and commits or rolls
// back as a unit.  No in-process locks are used: correctness under
// concurrent buyers, an expiring clock and an operator comes entirely
// from MySQL row locks (SELECT ... FOR UPDATE) inside those
// transactions.
package booking

import (
	"database/sql"
	"errors"

	"github.com/iliyamo/show-ticket-office/internal/repository"
)

// ErrNoSeatsHeld is returned by Freeze when the user holds no seats
// for the show — either nothing was selected or every hold expired
// before confirmation.
var ErrNoSeatsHeld = errors.New("no seats held")

// ErrValidation wraps all input validation failures on show creation
// and price updates.  Nothing is written when it is returned.
var ErrValidation = errors.New("validation")

// Service is the core engine.  All methods are safe for concurrent
// use; operations on disjoint seats and orders do not serialize with
// each other.
type Service struct {
	db       *sql.DB
	shows    *repository.ShowRepo
	seats    *repository.SeatRepo
	orders   *repository.OrderRepo
	sessions *repository.SessionRepo
}

// New constructs the booking service.  All dependencies must be
// non-nil and bound to the same database.
func New(db *sql.DB, shows *repository.ShowRepo, seats *repository.SeatRepo, orders *repository.OrderRepo, sessions *repository.SessionRepo) *Service {
	if db == nil || shows == nil || seats == nil || orders == nil || sessions == nil {
		panic("nil dependency passed to booking.New")
	}
	return &Service{db: db, shows: shows, seats: seats, orders: orders, sessions: sessions}
}
