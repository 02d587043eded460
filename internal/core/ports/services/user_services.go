package services

import (
	"context"

	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
	"github.com/mkrishnan-dev/storefront_backend/internal/dto"
)

// UserSvcFacade exposes user account management operations.
type UserSvcFacade interface {
	// RegisterUser creates a new local account. Duplicate username/email
	// surfaces as apperrors.ErrDuplicate.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// GetUserByID retrieves an active user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserByUsername retrieves an active user by username.
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// ListUsers retrieves a paginated list of active users.
	ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)

	// UpdateUser applies profile changes to a user.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updaterUserID string) (*domain.User, error)

	// ChangePassword verifies the current password, stores a new hash and
	// revokes every session of the user.
	ChangePassword(ctx context.Context, userID string, req dto.ChangePasswordRequest) error

	// DeactivateUser soft-deletes the user and revokes every session.
	DeactivateUser(ctx context.Context, userID string, deactivatedBy string) error

	// FindOrCreateGoogleUser resolves a verified Google identity to a local
	// user, creating the account on first sign-in.
	FindOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error)
}
