package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/show-ticket-office/internal/model"
)

// SeatRepo provides data access to the seats table.  Every mutation
// that participates in the seat state machine takes a *sql.Tx so the
// caller can compose reconcile + read + write into one atomic unit.
// The caller is responsible for committing or rolling back.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo returns a new SeatRepo bound to the provided database.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// CreateBulkTx seeds the full seating grid for a show in a single
// INSERT.  Seats are inserted row-major (A1, A2, ..., B1, ...) so
// the auto-increment order matches the visual grid order; listing
// queries rely on this and order by id.  Passing an empty slice has
// no effect and returns nil.
func (r *SeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, showID uint64, codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	query := `INSERT INTO seats (show_id, code, status) VALUES `
	args := make([]interface{}, 0, len(codes)*3)
	for i, code := range codes {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, showID, code, model.SeatAvailable)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ReconcileExpiredTx reverts every lapsed hold of a show back to
// AVAILABLE, clearing holder and expiry.  A hold has lapsed when its
// expiry is non-null and in the past; frozen holds (expiry cleared)
// are never touched.  Idempotent and safe to call redundantly — it
// runs at the start of every read and write touching a show's seats.
func (r *SeatRepo) ReconcileExpiredTx(ctx context.Context, tx *sql.Tx, showID uint64) error {
	const q = `UPDATE seats
	           SET status = ?, holder_id = NULL, hold_expires_at = NULL
	           WHERE show_id = ? AND status = ? AND hold_expires_at IS NOT NULL AND hold_expires_at <= UTC_TIMESTAMP()`
	_, err := tx.ExecContext(ctx, q, model.SeatAvailable, showID, model.SeatHeld)
	return err
}

// GetForUpdateTx reads a single seat under an exclusive row lock.
// Concurrent toggles on the same seat serialize here; toggles on
// different seats lock different rows and proceed independently.
// Returns ErrSeatNotFound when the code does not exist for the show.
func (r *SeatRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, showID uint64, code string) (*model.Seat, error) {
	const q = `SELECT id, show_id, code, status, holder_id, hold_expires_at, buyer_id
	           FROM seats WHERE show_id = ? AND code = ? FOR UPDATE`
	var s model.Seat
	var holder, buyer sql.NullInt64
	var expires sql.NullTime
	err := tx.QueryRowContext(ctx, q, showID, code).Scan(
		&s.ID, &s.ShowID, &s.Code, &s.Status, &holder, &expires, &buyer,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	if holder.Valid {
		v := uint64(holder.Int64)
		s.HolderID = &v
	}
	if expires.Valid {
		t := expires.Time
		s.HoldExpiresAt = &t
	}
	if buyer.Valid {
		v := uint64(buyer.Int64)
		s.BuyerID = &v
	}
	return &s, nil
}

// AcquireTx places a time-boxed hold on a seat for a user.  The seat
// must already be locked and known AVAILABLE by the caller.
func (r *SeatRepo) AcquireTx(ctx context.Context, tx *sql.Tx, seatID, userID uint64, holdMinutes int) error {
	const q = `UPDATE seats
	           SET status = ?, holder_id = ?, hold_expires_at = UTC_TIMESTAMP() + INTERVAL ? MINUTE, buyer_id = NULL
	           WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, model.SeatHeld, userID, holdMinutes, seatID)
	return err
}

// ReleaseTx reverts a seat to AVAILABLE, clearing holder and expiry.
func (r *SeatRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, seatID uint64) error {
	const q = `UPDATE seats SET status = ?, holder_id = NULL, hold_expires_at = NULL WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, model.SeatAvailable, seatID)
	return err
}

// FreezeHoldsTx clears the expiry on every seat currently held by
// the user for the show, making the holds permanent until an order
// settles them or the user re-toggles.  It returns the frozen seat
// codes in grid order.
func (r *SeatRepo) FreezeHoldsTx(ctx context.Context, tx *sql.Tx, showID, userID uint64) ([]string, error) {
	if _, err := tx.ExecContext(ctx,
		`UPDATE seats SET hold_expires_at = NULL WHERE show_id = ? AND holder_id = ? AND status = ?`,
		showID, userID, model.SeatHeld,
	); err != nil {
		return nil, err
	}
	rows, err := tx.QueryContext(ctx,
		`SELECT code FROM seats WHERE show_id = ? AND holder_id = ? AND status = ? ORDER BY id`,
		showID, userID, model.SeatHeld,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var codes []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return codes, nil
}

// MarkSoldTx transitions the listed seats of a show to SOLD with the
// given buyer, clearing holder and expiry.  Used by order approval.
func (r *SeatRepo) MarkSoldTx(ctx context.Context, tx *sql.Tx, showID uint64, codes []string, buyerID uint64) error {
	if len(codes) == 0 {
		return nil
	}
	query := `UPDATE seats SET status = ?, buyer_id = ?, holder_id = NULL, hold_expires_at = NULL
	          WHERE show_id = ? AND code IN (` + placeholders(len(codes)) + `)`
	args := make([]interface{}, 0, len(codes)+3)
	args = append(args, model.SeatSold, buyerID, showID)
	for _, c := range codes {
		args = append(args, c)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// MarkAvailableTx reverts the listed seats of a show to AVAILABLE,
// clearing holder, expiry and buyer.  Used by order rejection.
func (r *SeatRepo) MarkAvailableTx(ctx context.Context, tx *sql.Tx, showID uint64, codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	query := `UPDATE seats SET status = ?, holder_id = NULL, hold_expires_at = NULL, buyer_id = NULL
	          WHERE show_id = ? AND code IN (` + placeholders(len(codes)) + `)`
	args := make([]interface{}, 0, len(codes)+2)
	args = append(args, model.SeatAvailable, showID)
	for _, c := range codes {
		args = append(args, c)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ListByShowTx returns every seat of a show in grid order.  It runs
// inside the caller's transaction so the result reflects any
// reconciliation performed just before.
func (r *SeatRepo) ListByShowTx(ctx context.Context, tx *sql.Tx, showID uint64) ([]model.Seat, error) {
	const q = `SELECT id, show_id, code, status, holder_id, hold_expires_at, buyer_id
	           FROM seats WHERE show_id = ? ORDER BY id`
	rows, err := tx.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		var holder, buyer sql.NullInt64
		var expires sql.NullTime
		if err := rows.Scan(&s.ID, &s.ShowID, &s.Code, &s.Status, &holder, &expires, &buyer); err != nil {
			return nil, err
		}
		if holder.Valid {
			v := uint64(holder.Int64)
			s.HolderID = &v
		}
		if expires.Valid {
			t := expires.Time
			s.HoldExpiresAt = &t
		}
		if buyer.Valid {
			v := uint64(buyer.Int64)
			s.BuyerID = &v
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// placeholders returns a comma-joined list of n "?" markers for IN
// clauses.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
