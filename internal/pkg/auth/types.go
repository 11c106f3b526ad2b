package auth

import "github.com/golang-jwt/jwt/v5"

// ClaimsKey is the gin context key under which the authenticated user's
// claims are stored.
const ClaimsKey = "user_claims"

// TokenTypeAccess and TokenTypeRefresh distinguish the two JWT kinds so a
// refresh token can never be replayed as an access token.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// CustomClaims is the JWT claims payload.
type CustomClaims struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}
