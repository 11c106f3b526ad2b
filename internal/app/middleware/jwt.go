package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/inkwell/internal/pkg/auth"
	"github.com/inkwell-cms/inkwell/pkg/constant"
	"github.com/inkwell-cms/inkwell/pkg/response"
)

// JWTAuth gates a route group behind a valid access token. Claims land in
// the context for handlers that need the acting user.
func JWTAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.FailWithError(c, constant.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "), auth.TokenTypeAccess, secret)
		if err != nil {
			response.FailWithError(c, constant.ErrInvalidToken)
			c.Abort()
			return
		}
		c.Set(auth.ClaimsKey, claims)
		c.Next()
	}
}

// AdminOnly requires the admin role on top of JWTAuth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(auth.ClaimsKey)
		if !ok {
			response.FailWithError(c, constant.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, ok := v.(*auth.CustomClaims)
		if !ok || claims.Role != "admin" {
			response.FailWithError(c, constant.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
