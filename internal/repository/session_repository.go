package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/iliyamo/show-ticket-office/internal/model"
)

// SessionRepo stores the per-buyer conversation state.  Exactly one
// row exists per user; Upsert overwrites it wholesale because the
// front-end always writes the complete state when the conversation
// advances.  Seat codes are persisted as a JSON array column.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo returns a new SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// Upsert creates or replaces the session row for sess.UserID.
func (r *SessionRepo) Upsert(ctx context.Context, sess *model.Session) error {
	codes := sess.SeatCodes
	if codes == nil {
		codes = []string{}
	}
	raw, err := json.Marshal(codes)
	if err != nil {
		return err
	}
	const q = `INSERT INTO sessions (user_id, state, show_id, seat_codes, total_cents)
	           VALUES (?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE state = VALUES(state), show_id = VALUES(show_id),
	                                   seat_codes = VALUES(seat_codes), total_cents = VALUES(total_cents),
	                                   updated_at = UTC_TIMESTAMP()`
	var showID interface{}
	if sess.ShowID != nil {
		showID = *sess.ShowID
	}
	_, err = r.db.ExecContext(ctx, q, sess.UserID, sess.State, showID, raw, sess.TotalCents)
	return err
}

// Get returns the session row for a user or ErrSessionNotFound.
func (r *SessionRepo) Get(ctx context.Context, userID uint64) (*model.Session, error) {
	const q = `SELECT user_id, state, show_id, seat_codes, total_cents, updated_at
	           FROM sessions WHERE user_id = ?`
	var sess model.Session
	var showID sql.NullInt64
	var raw []byte
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&sess.UserID, &sess.State, &showID, &raw, &sess.TotalCents, &sess.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if showID.Valid {
		v := uint64(showID.Int64)
		sess.ShowID = &v
	}
	sess.SeatCodes = []string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &sess.SeatCodes); err != nil {
			return nil, err
		}
	}
	return &sess, nil
}

// Delete removes the session row for a user.  Deleting a missing
// row is not an error.
func (r *SessionRepo) Delete(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

// DeleteTx removes the session row inside the caller's transaction.
// Order settlement uses it so the session disappears in the same
// commit that finalizes the seats.
func (r *SessionRepo) DeleteTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}
