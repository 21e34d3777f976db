package booking

import (
	"context"

	"github.com/iliyamo/show-ticket-office/internal/model"
)

// SetSession overwrites the user's conversation state.  The
// front-end calls it each time the dialog advances; the row is
// advisory and may be dropped without coordination because seat rows
// stay authoritative for ownership.
func (s *Service) SetSession(ctx context.Context, sess *model.Session) error {
	return s.sessions.Upsert(ctx, sess)
}

// GetSession returns the user's session or
// repository.ErrSessionNotFound.
func (s *Service) GetSession(ctx context.Context, userID uint64) (*model.Session, error) {
	return s.sessions.Get(ctx, userID)
}

// ClearSession removes the user's session, e.g. when the buyer
// restarts the flow.  Settlement clears it transactionally on its
// own.
func (s *Service) ClearSession(ctx context.Context, userID uint64) error {
	return s.sessions.Delete(ctx, userID)
}
