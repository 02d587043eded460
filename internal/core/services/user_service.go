package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mkrishnan-dev/storefront_backend/internal/apperrors"
	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
	portsrepo "github.com/mkrishnan-dev/storefront_backend/internal/core/ports/repositories"
	portssvc "github.com/mkrishnan-dev/storefront_backend/internal/core/ports/services"
	"github.com/mkrishnan-dev/storefront_backend/internal/dto"
	"github.com/mkrishnan-dev/storefront_backend/internal/middleware"
	"github.com/mkrishnan-dev/storefront_backend/internal/utils"
)

// userService provides user account management operations.
type userService struct {
	userRepo    portsrepo.UserRepositoryFacade
	sessionRepo portsrepo.SessionRepository
}

// NewUserService creates a new user service. The session repository is needed
// because password changes and deactivation revoke every open session.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, sessionRepo portsrepo.SessionRepository) portssvc.UserSvcFacade {
	return &userService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
	}
}

// Ensure userService implements the portssvc.UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password during registration", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	newUserID := uuid.NewString()

	user := domain.User{
		UserID:       newUserID,
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		AuthProvider: domain.AuthProviderLocal,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID, // Self-registration
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, err
		}
		logger.Error("Failed to save new user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	logger.Info("User registered", slog.String("user_id", newUserID))
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	users, err := s.userRepo.FindUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updaterUserID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = strings.ToLower(*req.Email)
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = updaterUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID string, req dto.ChangePasswordRequest) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		logger.Warn("Password change rejected: current password mismatch", slog.String("user_id", userID))
		return apperrors.ErrUnauthorized
	}

	newHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, newHash, userID, time.Now()); err != nil {
		return err
	}

	// A password change invalidates all existing sessions.
	if err := s.sessionRepo.DeleteSessionsByUserID(ctx, userID); err != nil {
		logger.Error("Failed to revoke sessions after password change", slog.String("user_id", userID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to revoke sessions after password change: %w", err)
	}

	logger.Info("Password changed and sessions revoked", slog.String("user_id", userID))
	return nil
}

func (s *userService) DeactivateUser(ctx context.Context, userID string, deactivatedBy string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.userRepo.MarkUserInactive(ctx, userID, deactivatedBy, time.Now()); err != nil {
		return err
	}

	// Deactivation revokes every open session immediately.
	if err := s.sessionRepo.DeleteSessionsByUserID(ctx, userID); err != nil {
		logger.Error("Failed to revoke sessions after deactivation", slog.String("user_id", userID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to revoke sessions after deactivation: %w", err)
	}

	logger.Info("User deactivated", slog.String("user_id", userID))
	return nil
}

func (s *userService) FindOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByProviderDetails(ctx, domain.AuthProviderGoogle, info.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up google user: %w", err)
	}

	now := time.Now()
	newUserID := uuid.NewString()
	email := strings.ToLower(info.Email)

	// Usernames must be unique; derive one from the email local part and fall
	// back to the UUID when that collides.
	username := strings.SplitN(email, "@", 2)[0]
	if username == "" {
		username = newUserID
	}

	newUser := domain.User{
		UserID:         newUserID,
		Username:       username,
		Email:          email,
		FirstName:      info.GivenName,
		LastName:       info.FamilyName,
		AuthProvider:   domain.AuthProviderGoogle,
		ProviderUserID: info.Subject,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     newUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: newUserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			newUser.Username = newUserID
			if retryErr := s.userRepo.SaveUser(ctx, newUser); retryErr != nil {
				return nil, fmt.Errorf("failed to create google user: %w", retryErr)
			}
		} else {
			return nil, fmt.Errorf("failed to create google user: %w", err)
		}
	}

	logger.Info("Created user from Google sign-in", slog.String("user_id", newUserID))
	return &newUser, nil
}
