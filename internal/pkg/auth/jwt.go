package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "inkwell"

// AccessTokenTTL is fixed; the client silently refreshes within a threshold
// of this expiry.
const AccessTokenTTL = 15 * time.Minute

// Refresh token lifetimes. RememberMe at login picks the long one.
const (
	RefreshTokenTTL         = 24 * time.Hour
	RefreshTokenTTLRemember = 30 * 24 * time.Hour
)

// GenerateAccessToken issues a short-lived HS256 access token.
func GenerateAccessToken(userID uint, username, role string, secret []byte) (string, error) {
	return generate(userID, username, role, TokenTypeAccess, AccessTokenTTL, secret)
}

// GenerateRefreshToken issues a refresh token with the given lifetime. The
// token carries a unique id so it can be revoked individually at logout.
func GenerateRefreshToken(userID uint, username, role string, ttl time.Duration, secret []byte) (string, error) {
	return generate(userID, username, role, TokenTypeRefresh, ttl, secret)
}

func generate(userID uint, username, role, tokenType string, ttl time.Duration, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("jwt secret is empty")
	}
	now := time.Now()
	claims := CustomClaims{
		UserID:    userID,
		Username:  username,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken validates a token of the expected type and returns its claims.
func ParseToken(tokenStr, expectedType string, secret []byte) (*CustomClaims, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}
	if claims.TokenType != expectedType {
		return nil, fmt.Errorf("token type mismatch: got %q", claims.TokenType)
	}
	return claims, nil
}
