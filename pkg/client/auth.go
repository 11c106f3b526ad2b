package client

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/inkwell-cms/inkwell/pkg/domain/model"
)

// refreshWindow is how close to expiry the session refreshes the access
// token before handing it out.
const refreshWindow = time.Minute

// Captcha fetches a fresh captcha challenge for the login form.
func (c *Client) Captcha(ctx context.Context) (*model.CaptchaResponse, error) {
	var out model.CaptchaResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/captcha", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and installs a self-refreshing Session as the client's
// token source. The returned session can be kept for Logout.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*Session, error) {
	var out model.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, req, &out); err != nil {
		return nil, err
	}
	s := &Session{
		c:            c,
		accessToken:  out.AccessToken,
		refreshToken: out.RefreshToken,
		expiresAt:    time.UnixMilli(out.ExpiresAt),
		user:         out.User,
	}
	c.SetTokenSource(s)
	return s, nil
}

// Me fetches the authenticated account.
func (c *Client) Me(ctx context.Context) (*model.UserResponse, error) {
	var out model.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Session holds a token pair and refreshes the access token shortly before
// it expires, so long-lived callers never see a mid-flight 401.
type Session struct {
	c *Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
	user         *model.UserResponse
}

// NewSession restores a persisted session, e.g. from a config file. The
// access token is refreshed on first use.
func NewSession(c *Client, refreshToken string) *Session {
	return &Session{c: c, refreshToken: refreshToken}
}

// AccessToken returns a valid access token, refreshing when the current one
// is within refreshWindow of expiry. A failed refresh returns the stale
// token and lets the server reject the request.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accessToken != "" && time.Until(s.expiresAt) > refreshWindow {
		return s.accessToken
	}
	if s.refreshToken == "" {
		return s.accessToken
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()

	var out model.RefreshTokenResponse
	err := s.c.doBare(ctx, http.MethodPost, "/api/auth/refresh",
		model.RefreshTokenRequest{RefreshToken: s.refreshToken}, &out)
	if err != nil {
		return s.accessToken
	}
	s.accessToken = out.AccessToken
	s.expiresAt = time.UnixMilli(out.ExpiresAt)
	return s.accessToken
}

// RefreshToken returns the long-lived token for persistence.
func (s *Session) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken
}

// User returns the account captured at login, nil for restored sessions.
func (s *Session) User() *model.UserResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Logout revokes the refresh token server-side and clears the session.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	token := s.refreshToken
	s.mu.Unlock()

	err := s.c.do(ctx, http.MethodPost, "/api/auth/logout", nil,
		model.LogoutRequest{RefreshToken: token}, nil)

	s.mu.Lock()
	s.accessToken = ""
	s.refreshToken = ""
	s.user = nil
	s.mu.Unlock()
	return err
}
