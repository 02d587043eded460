package repositories

import (
	"context"
	"time"

	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
)

// SessionRepository persists the server-side session rows that back bearer
// tokens. The store is the source of truth for revocation: a deleted row
// invalidates its token regardless of the token's embedded expiry.
type SessionRepository interface {
	// SaveSession persists a new session row.
	SaveSession(ctx context.Context, session domain.Session) error

	// FindSessionByToken retrieves the session for the exact token string.
	// Returns apperrors.ErrNotFound when no row exists.
	FindSessionByToken(ctx context.Context, token string) (*domain.Session, error)

	// DeleteSessionByToken removes the single session matching the token.
	// Deleting an absent token is not an error; revocation is idempotent.
	DeleteSessionByToken(ctx context.Context, token string) error

	// DeleteSessionsByUserID removes every session for the user. Used on
	// password change and account deactivation.
	DeleteSessionsByUserID(ctx context.Context, userID string) error

	// DeleteExpiredSessions removes all sessions that expired before now and
	// reports how many rows were swept.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
