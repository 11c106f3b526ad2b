// Package handler holds the small helpers shared by the per-entity HTTP
// handler packages.
package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/inkwell/internal/pkg/auth"
	"github.com/inkwell-cms/inkwell/pkg/constant"
)

// ParseID reads the :id path parameter as a positive integer.
func ParseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid id %q", constant.ErrBadRequest, c.Param("id"))
	}
	return uint(id), nil
}

// ParseExcludeID reads the optional excludeId query parameter.
func ParseExcludeID(c *gin.Context) uint {
	raw := c.Query("excludeId")
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// CurrentUserID returns the authenticated user's id from the JWT middleware.
func CurrentUserID(c *gin.Context) uint {
	claims, ok := c.Get(auth.ClaimsKey)
	if !ok {
		return 0
	}
	cc, ok := claims.(*auth.CustomClaims)
	if !ok {
		return 0
	}
	return cc.UserID
}
