// Package repository contains data access logic for the show, seat,
// order and session tables. All timestamps are stored as UTC DATETIME
// values; the MySQL DSN is opened with loc=UTC so they scan into
// time.Time without conversion surprises.
package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"errors"       // errors for sentinel definitions

	"github.com/iliyamo/show-ticket-office/internal/model"
)

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// CreateTx inserts a new show using the provided transaction.  The
// caller must commit or roll back the transaction.  On success the
// generated ID and DB-default timestamps are populated on the given
// Show.
func (r *ShowRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Show) error {
	const q = `INSERT INTO shows (title, starts_at, seat_rows, seat_cols, price_cents) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.Title, s.StartsAt.UTC().Format("2006-01-02 15:04:05"), s.SeatRows, s.SeatCols, s.PriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	// Query the inserted row back to obtain default fields.
	const sel = `SELECT id, title, starts_at, seat_rows, seat_cols, price_cents, created_at, updated_at
	             FROM shows WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, s.ID).Scan(
		&s.ID, &s.Title, &s.StartsAt, &s.SeatRows, &s.SeatCols, &s.PriceCents, &s.CreatedAt, &s.UpdatedAt,
	)
}

// GetByID retrieves a show by its ID.  It returns ErrShowNotFound if
// there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT id, title, starts_at, seat_rows, seat_cols, price_cents, created_at, updated_at
	           FROM shows WHERE id = ?`
	var s model.Show
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.Title, &s.StartsAt, &s.SeatRows, &s.SeatCols, &s.PriceCents, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetByIDTx is GetByID executed inside an existing transaction so the
// show row participates in the caller's snapshot.
func (r *ShowRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Show, error) {
	const q = `SELECT id, title, starts_at, seat_rows, seat_cols, price_cents, created_at, updated_at
	           FROM shows WHERE id = ?`
	var s model.Show
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.Title, &s.StartsAt, &s.SeatRows, &s.SeatCols, &s.PriceCents, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListUpcoming returns all shows that have not started yet, soonest
// first.  Past shows are retained in the table but hidden from the
// buyer-facing listing.
func (r *ShowRepo) ListUpcoming(ctx context.Context) ([]model.Show, error) {
	const q = `SELECT id, title, starts_at, seat_rows, seat_cols, price_cents, created_at, updated_at
	           FROM shows WHERE starts_at >= UTC_TIMESTAMP() ORDER BY starts_at ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	shows := make([]model.Show, 0)
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(&s.ID, &s.Title, &s.StartsAt, &s.SeatRows, &s.SeatCols, &s.PriceCents, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		shows = append(shows, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return shows, nil
}

// UpdatePrice sets a new unit price on the show.  Orders created
// before the change keep their original amount.  Returns
// ErrShowNotFound when no row matched.
func (r *ShowRepo) UpdatePrice(ctx context.Context, id uint64, priceCents uint32) error {
	const q = `UPDATE shows SET price_cents = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, priceCents, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the show does not exist or the price is unchanged;
		// distinguish by checking existence.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
