package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkrishnan-dev/storefront_backend/internal/apperrors"
	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
	portsrepo "github.com/mkrishnan-dev/storefront_backend/internal/core/ports/repositories"
	"github.com/mkrishnan-dev/storefront_backend/internal/models"
	"github.com/mkrishnan-dev/storefront_backend/internal/utils/mapping"
)

type PgxSessionRepository struct {
	db *pgxpool.Pool
}

func newPgxSessionRepository(db *pgxpool.Pool) portsrepo.SessionRepository {
	return &PgxSessionRepository{db: db}
}

// Ensure PgxSessionRepository implements portsrepo.SessionRepository
var _ portsrepo.SessionRepository = (*PgxSessionRepository)(nil)

func (r *PgxSessionRepository) SaveSession(ctx context.Context, session domain.Session) error {
	modelSession := mapping.ToModelSession(session)
	query := `
        INSERT INTO user_sessions (session_id, user_id, token, expires_at, created_at)
        VALUES ($1, $2, $3, $4, $5);
    `
	_, err := r.db.Exec(ctx, query,
		modelSession.SessionID,
		modelSession.UserID,
		modelSession.Token,
		modelSession.ExpiresAt,
		modelSession.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("session token collision: %w", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *PgxSessionRepository) FindSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	query := `
        SELECT session_id, user_id, token, expires_at, created_at
        FROM user_sessions
        WHERE token = $1;
    `
	var m models.Session
	err := r.db.QueryRow(ctx, query, token).Scan(
		&m.SessionID,
		&m.UserID,
		&m.Token,
		&m.ExpiresAt,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find session by token: %w", err)
	}

	domainSession := mapping.ToDomainSession(m)
	return &domainSession, nil
}

func (r *PgxSessionRepository) DeleteSessionByToken(ctx context.Context, token string) error {
	query := `DELETE FROM user_sessions WHERE token = $1;`
	// Revocation is idempotent: deleting an absent token is not an error.
	if _, err := r.db.Exec(ctx, query, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *PgxSessionRepository) DeleteSessionsByUserID(ctx context.Context, userID string) error {
	query := `DELETE FROM user_sessions WHERE user_id = $1;`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete sessions for user %s: %w", userID, err)
	}
	return nil
}

func (r *PgxSessionRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM user_sessions WHERE expires_at <= $1;`
	cmdTag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
