package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/show-ticket-office/internal/model"
)

// OrderRepo provides CRUD operations for orders and their seat
// lists.  Seat codes live in the order_seats table with an explicit
// position column so the list stays ordered without encoding it into
// a delimited string.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// CreateTx inserts a new PENDING order and its ordered seat rows
// within the provided transaction.  It populates the generated ID
// and creation timestamp on the given order.  The caller must commit
// or roll back the transaction.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	const q = `INSERT INTO orders (user_id, show_id, amount_cents, receipt_kind, receipt_value, status)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, o.UserID, o.ShowID, o.AmountCents, o.Receipt.Kind, o.Receipt.Value, model.OrderPending)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	o.Status = model.OrderPending
	if len(o.SeatCodes) > 0 {
		query := `INSERT INTO order_seats (order_id, position, seat_code) VALUES `
		args := make([]interface{}, 0, len(o.SeatCodes)*3)
		for i, code := range o.SeatCodes {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?)"
			args = append(args, o.ID, i, code)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	// Read the creation timestamp back so callers can report it.
	return tx.QueryRowContext(ctx, `SELECT created_at FROM orders WHERE id = ?`, o.ID).Scan(&o.CreatedAt)
}

// GetForUpdateTx reads an order and its seat codes under an
// exclusive lock on the order row.  Settlement attempts on the same
// order serialize here, which is what makes a double approval safe:
// the second attempt re-reads a non-pending status and becomes a
// no-op.  Returns ErrOrderNotFound when the ID has no row.
func (r *OrderRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Order, error) {
	const q = `SELECT id, user_id, show_id, amount_cents, receipt_kind, receipt_value, status, created_at, settled_at, settled_by
	           FROM orders WHERE id = ? FOR UPDATE`
	o, err := scanOrder(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	codes, err := r.seatCodesTx(ctx, tx, o.ID)
	if err != nil {
		return nil, err
	}
	o.SeatCodes = codes
	return o, nil
}

// SettleTx stamps the terminal status on an order.  Approval records
// the settlement time; rejection records only the operator.  The
// order row must already be locked by GetForUpdateTx in the same
// transaction.
func (r *OrderRepo) SettleTx(ctx context.Context, tx *sql.Tx, id uint64, status string, operatorID uint64) error {
	if status == model.OrderApproved {
		const q = `UPDATE orders SET status = ?, settled_at = UTC_TIMESTAMP(), settled_by = ? WHERE id = ?`
		_, err := tx.ExecContext(ctx, q, status, operatorID, id)
		return err
	}
	const q = `UPDATE orders SET status = ?, settled_by = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, status, operatorID, id)
	return err
}

// GetByID loads a single order with its seat codes, outside any
// transaction.  Used by the operator read path.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	const q = `SELECT id, user_id, show_id, amount_cents, receipt_kind, receipt_value, status, created_at, settled_at, settled_by
	           FROM orders WHERE id = ?`
	o, err := scanOrder(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	codes, err := r.seatCodes(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.SeatCodes = codes
	return o, nil
}

// ListByStatus returns orders filtered by status, newest first.  An
// empty status returns everything.  Seat codes for all returned
// orders are populated with a single IN query.
func (r *OrderRepo) ListByStatus(ctx context.Context, status string) ([]model.Order, error) {
	q := `SELECT id, user_id, show_id, amount_cents, receipt_kind, receipt_value, status, created_at, settled_at, settled_by
	      FROM orders`
	args := []interface{}{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := make([]model.Order, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		o.SeatCodes = []string{}
		index[o.ID] = len(orders)
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}
	// Populate seat codes for all orders in one query.
	ids := make([]interface{}, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	seatQ := `SELECT order_id, seat_code FROM order_seats
	          WHERE order_id IN (` + placeholders(len(ids)) + `) ORDER BY order_id, position`
	srows, err := r.db.QueryContext(ctx, seatQ, ids...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var oid uint64
		var code string
		if err := srows.Scan(&oid, &code); err != nil {
			return nil, err
		}
		if idx, ok := index[oid]; ok {
			orders[idx].SeatCodes = append(orders[idx].SeatCodes, code)
		}
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepo) seatCodes(ctx context.Context, orderID uint64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT seat_code FROM order_seats WHERE order_id = ? ORDER BY position`, orderID)
	if err != nil {
		return nil, err
	}
	return collectCodes(rows)
}

func (r *OrderRepo) seatCodesTx(ctx context.Context, tx *sql.Tx, orderID uint64) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT seat_code FROM order_seats WHERE order_id = ? ORDER BY position`, orderID)
	if err != nil {
		return nil, err
	}
	return collectCodes(rows)
}

func collectCodes(rows *sql.Rows) ([]string, error) {
	defer rows.Close()
	codes := make([]string, 0)
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

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var o model.Order
	var settledAt sql.NullTime
	var settledBy sql.NullInt64
	err := row.Scan(
		&o.ID, &o.UserID, &o.ShowID, &o.AmountCents, &o.Receipt.Kind, &o.Receipt.Value,
		&o.Status, &o.CreatedAt, &settledAt, &settledBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if settledAt.Valid {
		t := settledAt.Time
		o.SettledAt = &t
	}
	if settledBy.Valid {
		v := uint64(settledBy.Int64)
		o.SettledBy = &v
	}
	return &o, nil
}
