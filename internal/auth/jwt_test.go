package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *JWTManager {
	return NewJWTManager(
		"test-access-secret-at-least-32-chars!!",
		"test-refresh-secret-at-least-32-chars!",
		15*time.Minute,
		168*time.Hour,
	)
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	m := newTestManager()

	pair, tokenID, err := m.GenerateTokenPair("user-123", "trip@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEmpty(t, tokenID)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	claims, err := m.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "trip@example.com", claims.Email)
	assert.Equal(t, "tripweave", claims.Issuer)
}

func TestValidateRefreshToken(t *testing.T) {
	m := newTestManager()

	pair, tokenID, err := m.GenerateTokenPair("user-456", "x@example.com")
	require.NoError(t, err)

	claims, err := m.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-456", claims.UserID)
	assert.Equal(t, tokenID, claims.TokenID)
}

func TestAccessTokenRejectedAsRefresh(t *testing.T) {
	m := newTestManager()

	pair, _, err := m.GenerateTokenPair("user-789", "y@example.com")
	require.NoError(t, err)

	// Signed with the access secret, so the refresh validator must reject it.
	_, err = m.ValidateRefreshToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewJWTManager(
		"another-access-secret-32-chars-long!!!",
		"another-refresh-secret-32-chars-long!!",
		15*time.Minute,
		168*time.Hour,
	)

	pair, _, err := m.GenerateTokenPair("user-1", "z@example.com")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	m := NewJWTManager(
		"test-access-secret-at-least-32-chars!!",
		"test-refresh-secret-at-least-32-chars!",
		-time.Minute,
		168*time.Hour,
	)

	pair, _, err := m.GenerateTokenPair("user-1", "z@example.com")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.AccessToken)
	assert.Error(t, err)
}
