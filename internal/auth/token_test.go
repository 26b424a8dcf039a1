package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-notes-api/internal/model"
)

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()

	manager, err := NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)
	return manager
}

func TestNewTokenManagerRequiresSecrets(t *testing.T) {
	_, err := NewTokenManager("", "refresh-secret", time.Minute, time.Hour)
	assert.Error(t, err)

	_, err = NewTokenManager("access-secret", "  ", time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := newTestManager(t)

	token, err := manager.IssueAccessToken("user-1")
	require.NoError(t, err)

	claims, err := manager.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestExpiredTokenIsClassified(t *testing.T) {
	manager, err := NewTokenManager("access-secret", "refresh-secret", -time.Minute, -time.Minute)
	require.NoError(t, err)

	token, err := manager.IssueAccessToken("user-1")
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(token)
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestWrongSecretIsInvalid(t *testing.T) {
	manager := newTestManager(t)
	other, err := NewTokenManager("different-secret", "another-secret", 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	token, err := other.IssueAccessToken("user-1")
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(token)
	assert.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	manager := newTestManager(t)

	accessToken, err := manager.IssueAccessToken("user-1")
	require.NoError(t, err)
	refreshToken, err := manager.IssueRefreshToken("user-1")
	require.NoError(t, err)

	// Distinct secrets: an access token can never pass refresh
	// verification, and vice versa.
	_, err = manager.VerifyRefreshToken(accessToken)
	assert.ErrorIs(t, err, model.ErrTokenInvalid)
	_, err = manager.VerifyAccessToken(refreshToken)
	assert.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestMalformedTokenIsInvalid(t *testing.T) {
	manager := newTestManager(t)

	_, err := manager.VerifyAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestIssuePair(t *testing.T) {
	manager := newTestManager(t)

	pair, err := manager.IssuePair("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	accessClaims, err := manager.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	refreshClaims, err := manager.VerifyRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", accessClaims.UserID())
	assert.Equal(t, "user-1", refreshClaims.UserID())
}
