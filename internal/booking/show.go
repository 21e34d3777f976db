package booking

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/iliyamo/show-ticket-office/internal/model"
)

// Grid limits.  Rows are lettered A..Z; the column cap keeps seat
// codes at most three characters and grids at a size a chat client
// can render.  The price cap guarantees that a quote for the largest
// possible grid (maxSeatRows × maxSeatCols seats) still fits in the
// uint32 amount carried on orders.
const (
	maxSeatRows = 26
	maxSeatCols = 50

	maxPriceCents = math.MaxUint32 / (maxSeatRows * maxSeatCols)
)

// seatCodes builds the row-major seat code list for a rows×cols
// grid: A1..A<cols>, B1.., up to row number rows.
func seatCodes(rows, cols uint8) []string {
	codes := make([]string, 0, int(rows)*int(cols))
	for r := uint8(0); r < rows; r++ {
		letter := rune('A' + r)
		for c := uint8(1); c <= cols; c++ {
			codes = append(codes, fmt.Sprintf("%c%d", letter, c))
		}
	}
	return codes
}

// validateGrid rejects out-of-range grid dimensions and prices
// before any row is touched.
func validateGrid(title string, rows, cols uint8, priceCents uint32) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if rows < 1 || rows > maxSeatRows {
		return fmt.Errorf("%w: rows must be 1..%d", ErrValidation, maxSeatRows)
	}
	if cols < 1 || cols > maxSeatCols {
		return fmt.Errorf("%w: cols must be 1..%d", ErrValidation, maxSeatCols)
	}
	return validatePrice(priceCents)
}

// validatePrice bounds the unit price on both show creation and price
// updates so seat-count multiplication can never wrap.
func validatePrice(priceCents uint32) error {
	if priceCents == 0 {
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if priceCents > maxPriceCents {
		return fmt.Errorf("%w: price must be at most %d cents", ErrValidation, maxPriceCents)
	}
	return nil
}

// CreateShow inserts a show row and bulk-seeds its seating grid in
// one transaction.  Either both exist afterwards or neither does.
func (s *Service) CreateShow(ctx context.Context, title string, startsAt time.Time, rows, cols uint8, priceCents uint32) (*model.Show, error) {
	if err := validateGrid(title, rows, cols, priceCents); err != nil {
		return nil, err
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
	show := &model.Show{
		Title:      title,
		StartsAt:   startsAt.UTC(),
		SeatRows:   rows,
		SeatCols:   cols,
		PriceCents: priceCents,
	}
	if err := s.shows.CreateTx(ctx, tx, show); err != nil {
		return nil, err
	}
	if err := s.seats.CreateBulkTx(ctx, tx, show.ID, seatCodes(rows, cols)); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return show, nil
}

// UpdatePrice changes the unit price of a show.  No seat state is
// touched and existing orders keep their original amount.
func (s *Service) UpdatePrice(ctx context.Context, showID uint64, priceCents uint32) error {
	if err := validatePrice(priceCents); err != nil {
		return err
	}
	return s.shows.UpdatePrice(ctx, showID, priceCents)
}

// ListShows returns the upcoming shows for the buyer-facing listing.
func (s *Service) ListShows(ctx context.Context) ([]model.Show, error) {
	return s.shows.ListUpcoming(ctx)
}

// GetShow returns a single show by ID.
func (s *Service) GetShow(ctx context.Context, showID uint64) (*model.Show, error) {
	return s.shows.GetByID(ctx, showID)
}

// SeatStatusMap reconciles expired holds for the show and returns
// every seat's current status in grid order.  Staleness is bounded
// by the caller's own latency: a lapsed hold is reverted by the very
// call that would otherwise have reported it held.
func (s *Service) SeatStatusMap(ctx context.Context, showID uint64) ([]model.SeatStatus, error) {
	if _, err := s.shows.GetByID(ctx, showID); err != nil {
		return nil, err
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
	if err := s.seats.ReconcileExpiredTx(ctx, tx, showID); err != nil {
		return nil, err
	}
	seats, err := s.seats.ListByShowTx(ctx, tx, showID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	statuses := make([]model.SeatStatus, 0, len(seats))
	for _, seat := range seats {
		st := model.SeatStatus{Code: seat.Code, Status: seat.Status}
		if seat.Status == model.SeatHeld {
			st.HolderID = seat.HolderID
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}
