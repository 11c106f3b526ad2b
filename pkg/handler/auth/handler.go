package auth

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/inkwell/pkg/constant"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
	"github.com/inkwell-cms/inkwell/pkg/handler"
	"github.com/inkwell-cms/inkwell/pkg/response"
	"github.com/inkwell-cms/inkwell/pkg/service/auth"
)

// Handler exposes the session endpoints.
type Handler struct {
	svc *auth.Service
}

// NewHandler builds an auth handler.
func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPublic mounts the endpoints reachable without a session. The
// loginLimiter throttles credential guessing per client IP.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup, loginLimiter gin.HandlerFunc) {
	g := rg.Group("/auth")
	g.GET("/captcha", h.Captcha)
	g.POST("/login", loginLimiter, h.Login)
	g.POST("/refresh", h.Refresh)
}

// RegisterProtected mounts the endpoints that need a live access token.
func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	g := rg.Group("/auth")
	g.GET("/me", h.Me)
	g.POST("/logout", h.Logout)
}

func (h *Handler) Captcha(c *gin.Context) {
	captcha, err := h.svc.Captcha(c.Request.Context())
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, captcha, "ok")
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWithError(c, fmt.Errorf("%w: %v", constant.ErrValidation, err))
		return
	}
	result, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, result, "logged in")
}

func (h *Handler) Refresh(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailWithError(c, fmt.Errorf("%w: %v", constant.ErrValidation, err))
		return
	}
	result, err := h.svc.Refresh(c.Request.Context(), &req)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, result, "refreshed")
}

func (h *Handler) Me(c *gin.Context) {
	userID := handler.CurrentUserID(c)
	if userID == 0 {
		response.FailWithError(c, constant.ErrUnauthorized)
		return
	}
	u, err := h.svc.Me(c.Request.Context(), userID)
	if err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, u, "ok")
}

func (h *Handler) Logout(c *gin.Context) {
	var req model.LogoutRequest
	// Body is optional; logout still clears the session client-side.
	_ = c.ShouldBindJSON(&req)
	if err := h.svc.Logout(c.Request.Context(), &req); err != nil {
		response.FailWithError(c, err)
		return
	}
	response.Success(c, nil, "logged out")
}
