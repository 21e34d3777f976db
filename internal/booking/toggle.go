package booking

import (
	"context"

	"github.com/iliyamo/show-ticket-office/internal/model"
)

// ToggleOutcome is the result of a toggle attempt.  Conflicts are
// outcomes, not errors: the caller branches on the value to tell the
// buyer what happened.
type ToggleOutcome string

const (
	// ToggleHeld – the seat was available and is now held by the
	// requesting user.
	ToggleHeld ToggleOutcome = "held"
	// ToggleReleased – the requesting user held the seat and has
	// deselected it; it is available again.
	ToggleReleased ToggleOutcome = "available"
	// ToggleSold – the seat is sold; nothing changed.
	ToggleSold ToggleOutcome = "sold"
	// ToggleHeldByOther – another user holds the seat; nothing changed.
	ToggleHeldByOther ToggleOutcome = "held-by-other"
)

// toggleAction is the mutation decideToggle picked.
type toggleAction int

const (
	actionNone toggleAction = iota
	actionRelease
	actionAcquire
)

// decideToggle applies the seat state machine to a snapshot of the
// seat row.  The snapshot must have been read under an exclusive row
// lock after expired holds were reconciled, so "HELD" here is always
// a live or frozen hold.
func decideToggle(status string, holderID *uint64, userID uint64) (ToggleOutcome, toggleAction) {
	switch {
	case status == model.SeatSold:
		return ToggleSold, actionNone
	case status == model.SeatHeld && holderID != nil && *holderID != userID:
		return ToggleHeldByOther, actionNone
	case status == model.SeatHeld:
		return ToggleReleased, actionRelease
	default:
		return ToggleHeld, actionAcquire
	}
}

// Toggle flips a single seat for a single user: an available seat is
// acquired with a hold expiring after holdMinutes, a seat the user
// already holds is released, and a sold or foreign-held seat is left
// untouched with the corresponding outcome.
//
// Reconciliation, the locked re-read and the mutation run in one
// transaction, so two simultaneous toggles on the same seat can never
// both acquire it: the loser blocks on the row lock and then observes
// the winner's committed state.
func (s *Service) Toggle(ctx context.Context, showID uint64, seatCode string, userID uint64, holdMinutes int) (ToggleOutcome, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	// Revert lapsed holds first so a seat whose hold just expired
	// toggles as available rather than held-by-other.
	if err := s.seats.ReconcileExpiredTx(ctx, tx, showID); err != nil {
		return "", err
	}
	seat, err := s.seats.GetForUpdateTx(ctx, tx, showID, seatCode)
	if err != nil {
		return "", err
	}
	outcome, action := decideToggle(seat.Status, seat.HolderID, userID)
	switch action {
	case actionRelease:
		if err := s.seats.ReleaseTx(ctx, tx, seat.ID); err != nil {
			return "", err
		}
	case actionAcquire:
		if err := s.seats.AcquireTx(ctx, tx, seat.ID, userID, holdMinutes); err != nil {
			return "", err
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	committed = true
	return outcome, nil
}
