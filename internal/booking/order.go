package booking

import (
	"context"

	"github.com/iliyamo/show-ticket-office/internal/model"
)

// Freeze makes the user's holds on a show permanent: expiry is
// cleared on every seat they hold while the status stays HELD, so
// the Hold Manager will never reclaim them.  It runs right after the
// buyer confirms a selection and before the total is quoted — a
// quote on frozen seats cannot be invalidated by concurrent expiry.
//
// It returns the frozen seat codes in grid order and the total
// amount (unit price × seat count) at the show's current price.
// ErrNoSeatsHeld is returned when nothing is held, which includes
// the case where every hold expired before confirmation.
func (s *Service) Freeze(ctx context.Context, showID, userID uint64) ([]string, uint32, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	// Lapsed holds must not be frozen into permanence.
	if err := s.seats.ReconcileExpiredTx(ctx, tx, showID); err != nil {
		return nil, 0, err
	}
	show, err := s.shows.GetByIDTx(ctx, tx, showID)
	if err != nil {
		return nil, 0, err
	}
	codes, err := s.seats.FreezeHoldsTx(ctx, tx, showID, userID)
	if err != nil {
		return nil, 0, err
	}
	if len(codes) == 0 {
		return nil, 0, ErrNoSeatsHeld
	}
	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}
	committed = true
	// validatePrice bounds prices so this product fits in uint32 even
	// for the largest grid.
	return codes, show.PriceCents * uint32(len(codes)), nil
}

// CreateOrder records a PENDING order for a frozen hold.  Seat rows
// are not touched: the seats are already held and frozen, and the
// invariant that `seats` belong to userID is the caller's — the codes
// must come from a just-prior Freeze.  The receipt variant is
// validated before anything is written.
func (s *Service) CreateOrder(ctx context.Context, userID, showID uint64, seats []string, amountCents uint32, receipt model.Receipt) (*model.Order, error) {
	if err := receipt.Validate(); err != nil {
		return nil, err
	}
	if len(seats) == 0 {
		return nil, ErrNoSeatsHeld
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	order := &model.Order{
		UserID:      userID,
		ShowID:      showID,
		SeatCodes:   seats,
		AmountCents: amountCents,
		Receipt:     receipt,
	}
	if err := s.orders.CreateTx(ctx, tx, order); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return order, nil
}

// Approve settles a pending order: every seat in the order becomes
// SOLD with the order's buyer, the order is stamped APPROVED with
// settlement time and operator, and the buyer's session is deleted —
// all in one commit.  A non-pending order is returned unchanged with
// changed=false so a double click or duplicate callback is a
// harmless no-op the caller can detect (and not notify about twice).
func (s *Service) Approve(ctx context.Context, orderID, operatorID uint64) (*model.Order, bool, error) {
	return s.settle(ctx, orderID, operatorID, model.OrderApproved)
}

// Reject settles a pending order the other way: every seat reverts
// to AVAILABLE (not held) and the order is stamped REJECTED with the
// operator.  Idempotent exactly like Approve.
func (s *Service) Reject(ctx context.Context, orderID, operatorID uint64) (*model.Order, bool, error) {
	return s.settle(ctx, orderID, operatorID, model.OrderRejected)
}

func (s *Service) settle(ctx context.Context, orderID, operatorID uint64, status string) (*model.Order, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	// The order row lock serializes settlement attempts; only the
	// first sees PENDING.
	order, err := s.orders.GetForUpdateTx(ctx, tx, orderID)
	if err != nil {
		return nil, false, err
	}
	if order.Status != model.OrderPending {
		return order, false, nil
	}
	if status == model.OrderApproved {
		err = s.seats.MarkSoldTx(ctx, tx, order.ShowID, order.SeatCodes, order.UserID)
	} else {
		err = s.seats.MarkAvailableTx(ctx, tx, order.ShowID, order.SeatCodes)
	}
	if err != nil {
		return nil, false, err
	}
	if err := s.orders.SettleTx(ctx, tx, orderID, status, operatorID); err != nil {
		return nil, false, err
	}
	if err := s.sessions.DeleteTx(ctx, tx, order.UserID); err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	committed = true
	// Re-read outside the lock so the caller gets the stamped row.
	settled, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	return settled, true, nil
}

// GetOrder loads a single order for the operator surface.
func (s *Service) GetOrder(ctx context.Context, orderID uint64) (*model.Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

// ListOrders returns orders filtered by status ("" for all), newest
// first.  Operators use it to enumerate pending receipts.
func (s *Service) ListOrders(ctx context.Context, status string) ([]model.Order, error) {
	return s.orders.ListByStatus(ctx, status)
}
