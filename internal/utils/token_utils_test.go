package utils_test

import (
	"testing"
	"time"

	"github.com/mkrishnan-dev/storefront_backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-signing"

func TestGenerateAndValidateJWT(t *testing.T) {
	token, err := utils.GenerateJWT("user-123", testSecret, time.Hour, "storefront-test")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := utils.ParseAndValidateJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "storefront-test", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseAndValidateJWT_WrongSecret(t *testing.T) {
	token, err := utils.GenerateJWT("user-123", testSecret, time.Hour, "storefront-test")
	require.NoError(t, err)

	claims, err := utils.ParseAndValidateJWT(token, "a-different-secret")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestParseAndValidateJWT_ExpiredToken(t *testing.T) {
	token, err := utils.GenerateJWT("user-123", testSecret, -time.Minute, "storefront-test")
	require.NoError(t, err)

	claims, err := utils.ParseAndValidateJWT(token, testSecret)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestParseAndValidateJWT_Garbage(t *testing.T) {
	claims, err := utils.ParseAndValidateJWT("not.a.jwt", testSecret)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := utils.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.True(t, utils.CheckPasswordHash("hunter2hunter2", hash))
	assert.False(t, utils.CheckPasswordHash("wrong-password", hash))
}

func TestGenerateSecureRandomString(t *testing.T) {
	a, err := utils.GenerateSecureRandomString(16)
	require.NoError(t, err)
	assert.Len(t, a, 32) // hex encoding doubles the byte count

	b, err := utils.GenerateSecureRandomString(16)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
