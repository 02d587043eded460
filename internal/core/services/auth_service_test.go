package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/mkrishnan-dev/storefront_backend/internal/apperrors"
	"github.com/mkrishnan-dev/storefront_backend/internal/core/domain"
	portssvc "github.com/mkrishnan-dev/storefront_backend/internal/core/ports/services"
	"github.com/mkrishnan-dev/storefront_backend/internal/core/services"
	"github.com/mkrishnan-dev/storefront_backend/internal/utils"
	"github.com/mkrishnan-dev/storefront_backend/pkg/config"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock UserReader ---
type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserReader) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserReader) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserReader) FindUserByProviderDetails(ctx context.Context, authProvider string, providerUserID string) (*domain.User, error) {
	args := m.Called(ctx, authProvider, providerUserID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserReader) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	return users, args.Error(1)
}

// --- Mock SessionRepository ---
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) SaveSession(ctx context.Context, session domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) FindSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	args := m.Called(ctx, token)
	var session *domain.Session
	if args.Get(0) != nil {
		session = args.Get(0).(*domain.Session)
	}
	return session, args.Error(1)
}

func (m *MockSessionRepository) DeleteSessionByToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteSessionsByUserID(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// --- Test Suite ---
type AuthServiceTestSuite struct {
	suite.Suite
	cfg             *config.Config
	mockUserRepo    *MockUserReader
	mockSessionRepo *MockSessionRepository
	service         portssvc.AuthSvcFacade
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.cfg = &config.Config{
		JWTSecret:         "test-secret",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "storefront-test",
	}
	suite.mockUserRepo = new(MockUserReader)
	suite.mockSessionRepo = new(MockSessionRepository)
	suite.service = services.NewAuthService(suite.cfg, suite.mockUserRepo, suite.mockSessionRepo)
}

func hashedUser(suite *AuthServiceTestSuite, password string) *domain.User {
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	return &domain.User{
		UserID:       "user-1",
		Username:     "alice",
		PasswordHash: hash,
		AuthProvider: domain.AuthProviderLocal,
		IsActive:     true,
	}
}

// --- Login Tests ---

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	user := hashedUser(suite, "correct-horse")

	suite.mockUserRepo.On("FindUserByUsername", ctx, "alice").Return(user, nil).Once()
	suite.mockSessionRepo.On("SaveSession", ctx, mock.MatchedBy(func(s domain.Session) bool {
		return s.UserID == "user-1" && s.Token != "" && s.SessionID != "" && s.ExpiresAt.After(time.Now())
	})).Return(nil).Once()

	loggedIn, token, expiresAt, err := suite.service.Login(ctx, "alice", "correct-horse")

	suite.Require().NoError(err)
	suite.Equal(user, loggedIn)
	suite.NotEmpty(token)
	suite.WithinDuration(time.Now().Add(time.Hour), expiresAt, 5*time.Second)
	suite.mockSessionRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownUser() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, _, _, err := suite.service.Login(ctx, "ghost", "whatever")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	user := hashedUser(suite, "correct-horse")
	suite.mockUserRepo.On("FindUserByUsername", ctx, "alice").Return(user, nil).Once()

	_, _, _, err := suite.service.Login(ctx, "alice", "wrong-password")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockSessionRepo.AssertNotCalled(suite.T(), "SaveSession", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestLogin_GoogleAccountRejectsPassword() {
	ctx := context.Background()
	user := &domain.User{
		UserID:       "user-2",
		Username:     "bob",
		AuthProvider: domain.AuthProviderGoogle,
		IsActive:     true,
	}
	suite.mockUserRepo.On("FindUserByUsername", ctx, "bob").Return(user, nil).Once()

	_, _, _, err := suite.service.Login(ctx, "bob", "anything")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

// --- VerifyToken Tests ---

func (suite *AuthServiceTestSuite) issueToken(userID string, expiry time.Duration) string {
	token, err := utils.GenerateJWT(userID, suite.cfg.JWTSecret, expiry, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)
	return token
}

func (suite *AuthServiceTestSuite) TestVerifyToken_Success() {
	ctx := context.Background()
	token := suite.issueToken("user-1", time.Hour)
	session := &domain.Session{
		SessionID: "sess-1",
		UserID:    "user-1",
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	suite.mockSessionRepo.On("FindSessionByToken", ctx, token).Return(session, nil).Once()

	userID, err := suite.service.VerifyToken(ctx, token)

	suite.Require().NoError(err)
	suite.Equal("user-1", userID)
}

func (suite *AuthServiceTestSuite) TestVerifyToken_RevokedSession() {
	// Token still cryptographically valid, but the session row is gone.
	ctx := context.Background()
	token := suite.issueToken("user-1", time.Hour)
	suite.mockSessionRepo.On("FindSessionByToken", ctx, token).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.VerifyToken(ctx, token)

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestVerifyToken_ExpiredSessionRow() {
	ctx := context.Background()
	token := suite.issueToken("user-1", time.Hour)
	session := &domain.Session{
		SessionID: "sess-1",
		UserID:    "user-1",
		Token:     token,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	suite.mockSessionRepo.On("FindSessionByToken", ctx, token).Return(session, nil).Once()
	suite.mockSessionRepo.On("DeleteSessionByToken", ctx, token).Return(nil).Once()

	_, err := suite.service.VerifyToken(ctx, token)

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockSessionRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestVerifyToken_ExpiredToken() {
	ctx := context.Background()
	token := suite.issueToken("user-1", -time.Minute)

	_, err := suite.service.VerifyToken(ctx, token)

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockSessionRepo.AssertNotCalled(suite.T(), "FindSessionByToken", mock.Anything, mock.Anything)
}

func (suite *AuthServiceTestSuite) TestVerifyToken_Garbage() {
	ctx := context.Background()

	_, err := suite.service.VerifyToken(ctx, "not-a-token")

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestVerifyToken_SessionUserMismatch() {
	ctx := context.Background()
	token := suite.issueToken("user-1", time.Hour)
	session := &domain.Session{
		SessionID: "sess-1",
		UserID:    "someone-else",
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	suite.mockSessionRepo.On("FindSessionByToken", ctx, token).Return(session, nil).Once()

	_, err := suite.service.VerifyToken(ctx, token)

	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

// --- Revocation and cleanup ---

func (suite *AuthServiceTestSuite) TestRevokeToken() {
	ctx := context.Background()
	suite.mockSessionRepo.On("DeleteSessionByToken", ctx, "some-token").Return(nil).Once()

	suite.NoError(suite.service.RevokeToken(ctx, "some-token"))
	suite.mockSessionRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestRevokeAllSessions() {
	ctx := context.Background()
	suite.mockSessionRepo.On("DeleteSessionsByUserID", ctx, "user-1").Return(nil).Once()

	suite.NoError(suite.service.RevokeAllSessions(ctx, "user-1"))
	suite.mockSessionRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestCleanupExpiredSessions() {
	ctx := context.Background()
	suite.mockSessionRepo.On("DeleteExpiredSessions", ctx, mock.AnythingOfType("time.Time")).Return(int64(3), nil).Once()

	removed, err := suite.service.CleanupExpiredSessions(ctx)

	suite.Require().NoError(err)
	suite.Equal(int64(3), removed)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
