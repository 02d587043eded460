package services

import (
	"context"
	"time"

	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
)

// AuthSvcFacade issues and verifies session tokens. A token is valid only
// when its signature checks out AND a live session row backs it, so deleting
// the row revokes the token immediately.
type AuthSvcFacade interface {
	// Login authenticates a username/password pair and issues a session.
	// Bad credentials collapse to apperrors.ErrUnauthorized.
	Login(ctx context.Context, username string, password string) (*domain.User, string, time.Time, error)

	// IssueSession generates a signed token for the user and persists the
	// backing session row with matching expiry.
	IssueSession(ctx context.Context, user *domain.User) (string, time.Time, error)

	// VerifyToken validates signature, embedded expiry and the backing
	// session row, returning the authenticated user ID. Every failure mode
	// returns apperrors.ErrUnauthorized.
	VerifyToken(ctx context.Context, token string) (string, error)

	// RevokeToken deletes the session row for the token.
	RevokeToken(ctx context.Context, token string) error

	// RevokeAllSessions deletes every session row for the user.
	RevokeAllSessions(ctx context.Context, userID string) error

	// CleanupExpiredSessions sweeps expired session rows in bulk.
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}

// GoogleAuthSvcFacade handles the optional sign-in-with-Google flow, both the
// server-side redirect variant and direct ID token submission from a frontend.
type GoogleAuthSvcFacade interface {
	// GenerateStateString creates a CSRF state token for the redirect flow.
	GenerateStateString(ctx context.Context) (string, error)

	// GetGoogleLoginURL returns the Google consent page URL for the state.
	GetGoogleLoginURL(ctx context.Context, state string) string

	// ExchangeCodeForIdentity exchanges an authorization code for tokens and
	// returns the verified identity from the bundled ID token.
	ExchangeCodeForIdentity(ctx context.Context, code string) (*domain.GoogleUserInfo, error)

	// ValidateIDToken verifies the ID token against the configured client ID
	// and returns the verified identity.
	ValidateIDToken(ctx context.Context, idToken string) (*domain.GoogleUserInfo, error)
}
