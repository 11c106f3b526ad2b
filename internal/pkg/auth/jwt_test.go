package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret-0123456789abcdef")

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "admin", "admin", secret)
	require.NoError(t, err)

	claims, err := ParseToken(token, TokenTypeAccess, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID, "access tokens carry a unique jti")
	assert.WithinDuration(t, time.Now().Add(AccessTokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestRefreshTokenNotValidAsAccessToken(t *testing.T) {
	token, err := GenerateRefreshToken(1, "admin", "admin", RefreshTokenTTL, secret)
	require.NoError(t, err)

	_, err = ParseToken(token, TokenTypeAccess, secret)
	require.Error(t, err)

	claims, err := ParseToken(token, TokenTypeRefresh, secret)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(1, "admin", "admin", secret)
	require.NoError(t, err)

	_, err = ParseToken(token, TokenTypeAccess, []byte("other-secret"))
	require.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := GenerateRefreshToken(1, "admin", "admin", -time.Minute, secret)
	require.NoError(t, err)

	_, err = ParseToken(token, TokenTypeRefresh, secret)
	require.Error(t, err)
}

func TestGenerateRequiresSecret(t *testing.T) {
	_, err := GenerateAccessToken(1, "admin", "admin", nil)
	require.Error(t, err)
}

func TestRefreshTokensHaveUniqueIDs(t *testing.T) {
	a, err := GenerateRefreshToken(1, "admin", "admin", RefreshTokenTTL, secret)
	require.NoError(t, err)
	b, err := GenerateRefreshToken(1, "admin", "admin", RefreshTokenTTL, secret)
	require.NoError(t, err)

	ca, err := ParseToken(a, TokenTypeRefresh, secret)
	require.NoError(t, err)
	cb, err := ParseToken(b, TokenTypeRefresh, secret)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}
