package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mkrishnan-dev/storefront_backend/internal/apperrors"
	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
	portsrepo "github.com/mkrishnan-dev/storefront_backend/internal/core/ports/repositories"
	portssvc "github.com/mkrishnan-dev/storefront_backend/internal/core/ports/services"
	"github.com/mkrishnan-dev/storefront_backend/internal/middleware"
	"github.com/mkrishnan-dev/storefront_backend/internal/utils"
	"github.com/mkrishnan-dev/storefront_backend/pkg/config"
)

// authService issues and verifies session-backed JWTs. The signed token alone
// is never sufficient: every verification also requires a live session row, so
// revocation takes effect immediately.
type authService struct {
	cfg         *config.Config
	userRepo    portsrepo.UserReader
	sessionRepo portsrepo.SessionRepository
}

// NewAuthService creates a new auth service.
func NewAuthService(cfg *config.Config, userRepo portsrepo.UserReader, sessionRepo portsrepo.SessionRepository) portssvc.AuthSvcFacade {
	return &authService{
		cfg:         cfg,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
	}
}

// Ensure authService implements the portssvc.AuthSvcFacade interface
var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) Login(ctx context.Context, username string, password string) (*domain.User, string, time.Time, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Unknown user and bad password are indistinguishable to callers.
			logger.Warn("Login attempt for unknown username")
			return nil, "", time.Time{}, apperrors.ErrUnauthorized
		}
		return nil, "", time.Time{}, fmt.Errorf("failed to look up user for login: %w", err)
	}

	if user.AuthProvider != domain.AuthProviderLocal || user.PasswordHash == "" {
		logger.Warn("Password login attempted for external-provider account", slog.String("user_id", user.UserID))
		return nil, "", time.Time{}, apperrors.ErrUnauthorized
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Warn("Login attempt with wrong password", slog.String("user_id", user.UserID))
		return nil, "", time.Time{}, apperrors.ErrUnauthorized
	}

	token, expiresAt, err := s.IssueSession(ctx, user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	logger.Info("Login successful", slog.String("user_id", user.UserID))
	return user, token, expiresAt, nil
}

func (s *authService) IssueSession(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.cfg.JWTExpiryDuration)

	token, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	session := domain.Session{
		SessionID: uuid.NewString(),
		UserID:    user.UserID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	if err := s.sessionRepo.SaveSession(ctx, session); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to persist session: %w", err)
	}

	return token, expiresAt, nil
}

// VerifyToken checks the token signature and claims, then requires a live
// session row for the exact token string. All failure modes collapse to
// ErrUnauthorized so callers leak nothing about which check failed.
func (s *authService) VerifyToken(ctx context.Context, token string) (string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	claims, err := utils.ParseAndValidateJWT(token, s.cfg.JWTSecret)
	if err != nil {
		return "", apperrors.ErrUnauthorized
	}
	if claims.Subject == "" {
		return "", apperrors.ErrUnauthorized
	}

	session, err := s.sessionRepo.FindSessionByToken(ctx, token)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Session lookup failed during verification", slog.String("error", err.Error()))
		}
		return "", apperrors.ErrUnauthorized
	}

	if session.IsExpired(time.Now()) {
		// Expired rows are swept by the background cleanup; dropping this one
		// eagerly keeps the table tidy between sweeps.
		_ = s.sessionRepo.DeleteSessionByToken(ctx, token)
		return "", apperrors.ErrUnauthorized
	}

	if session.UserID != claims.Subject {
		logger.Error("Session user mismatch", slog.String("session_user", session.UserID), slog.String("token_subject", claims.Subject))
		return "", apperrors.ErrUnauthorized
	}

	return session.UserID, nil
}

func (s *authService) RevokeToken(ctx context.Context, token string) error {
	if err := s.sessionRepo.DeleteSessionByToken(ctx, token); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *authService) RevokeAllSessions(ctx context.Context, userID string) error {
	if err := s.sessionRepo.DeleteSessionsByUserID(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke sessions for user %s: %w", userID, err)
	}
	return nil
}

func (s *authService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	removed, err := s.sessionRepo.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired sessions: %w", err)
	}
	return removed, nil
}
