package model

// LoginRequest is the POST /auth/login body. RememberMe selects the longer
// refresh-token lifetime used when the client persists the session.
type LoginRequest struct {
	Username      string `json:"username" binding:"required"`
	Password      string `json:"password" binding:"required"`
	CaptchaID     string `json:"captcha_id" binding:"required"`
	CaptchaAnswer string `json:"captcha_answer" binding:"required"`
	RememberMe    bool   `json:"remember_me"`
}

// LoginResponse carries the token pair plus the authenticated user.
type LoginResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresAt    int64         `json:"expires_at"`
	User         *UserResponse `json:"user"`
}

// RefreshTokenRequest is the POST /auth/refresh body.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResponse carries the renewed access token.
type RefreshTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

// LogoutRequest is the POST /auth/logout body. The refresh token is revoked
// server-side.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// CaptchaResponse is the GET /auth/captcha payload: a captcha id plus the
// image as a base64 data URI.
type CaptchaResponse struct {
	ID    string `json:"id"`
	Image string `json:"image"`
}

// SiteStats is the public aggregate counters payload.
type SiteStats struct {
	Articles   int64 `json:"articles"`
	Categories int64 `json:"categories"`
	Tags       int64 `json:"tags"`
	Thoughts   int64 `json:"thoughts"`
	Travels    int64 `json:"travels"`
	Projects   int64 `json:"projects"`
	TotalViews int64 `json:"total_views"`
	TotalWords int64 `json:"total_words"`
}
