package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/inkwell-cms/inkwell/internal/pkg/auth"
	"github.com/inkwell-cms/inkwell/internal/pkg/security"
	"github.com/inkwell-cms/inkwell/pkg/constant"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
	"github.com/inkwell-cms/inkwell/pkg/domain/repository"
)

// Service implements login, token refresh and logout for the admin panel.
type Service struct {
	userRepo repository.UserRepository
	secret   []byte
	revoked  revocationStore
	logger   zerolog.Logger
}

// NewService builds an auth service. redisClient may be nil, in which case
// revoked refresh tokens are tracked in process memory.
func NewService(userRepo repository.UserRepository, secret []byte, redisClient *redis.Client, logger zerolog.Logger) *Service {
	var revoked revocationStore
	if redisClient != nil {
		revoked = newRedisRevocationStore(redisClient)
	} else {
		revoked = newMemoryRevocationStore()
	}
	return &Service{
		userRepo: userRepo,
		secret:   secret,
		revoked:  revoked,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// Captcha issues a new login captcha.
func (s *Service) Captcha(_ context.Context) (*model.CaptchaResponse, error) {
	id, image, err := newCaptcha()
	if err != nil {
		return nil, fmt.Errorf("generate captcha: %w", err)
	}
	return &model.CaptchaResponse{ID: id, Image: image}, nil
}

// Login verifies the captcha and the credentials, then issues a token pair.
// The same unauthorized error is returned for a missing account and a wrong
// password.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if !verifyCaptcha(req.CaptchaID, req.CaptchaAnswer) {
		return nil, constant.ErrCaptchaMismatch
	}

	u, err := s.userRepo.GetBySlug(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", constant.ErrUnauthorized)
	}
	if !security.CheckPassword(u.PasswordHash, req.Password) {
		return nil, fmt.Errorf("%w: invalid credentials", constant.ErrUnauthorized)
	}
	if u.Status != model.UserStatusActive {
		return nil, fmt.Errorf("%w: account disabled", constant.ErrForbidden)
	}

	accessToken, err := auth.GenerateAccessToken(u.ID, u.Username, u.Role, s.secret)
	if err != nil {
		return nil, err
	}
	refreshTTL := auth.RefreshTokenTTL
	if req.RememberMe {
		refreshTTL = auth.RefreshTokenTTLRemember
	}
	refreshToken, err := auth.GenerateRefreshToken(u.ID, u.Username, u.Role, refreshTTL, s.secret)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.TouchLastLogin(ctx, u.ID, time.Now().UTC()); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", u.ID).Msg("record last login failed")
	}

	return &model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(auth.AccessTokenTTL).UnixMilli(),
		User: &model.UserResponse{
			ID:        u.ID,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
			Username:  u.Username,
			Nickname:  u.Nickname,
			Email:     u.Email,
			AvatarURL: u.AvatarURL,
			Role:      u.Role,
			Status:    u.Status,
		},
	}, nil
}

// Refresh exchanges a live refresh token for a new access token. Revoked and
// expired tokens are rejected, as are tokens of accounts disabled since
// issuance.
func (s *Service) Refresh(ctx context.Context, req *model.RefreshTokenRequest) (*model.RefreshTokenResponse, error) {
	claims, err := auth.ParseToken(req.RefreshToken, auth.TokenTypeRefresh, s.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constant.ErrInvalidToken, err)
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", constant.ErrInvalidToken)
	}

	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: account gone", constant.ErrInvalidToken)
	}
	if u.Status != model.UserStatusActive {
		return nil, fmt.Errorf("%w: account disabled", constant.ErrForbidden)
	}

	accessToken, err := auth.GenerateAccessToken(u.ID, u.Username, u.Role, s.secret)
	if err != nil {
		return nil, err
	}
	return &model.RefreshTokenResponse{
		AccessToken: accessToken,
		ExpiresAt:   time.Now().Add(auth.AccessTokenTTL).UnixMilli(),
	}, nil
}

// Logout revokes the presented refresh token for its remaining lifetime.
// Logout with an already-invalid token still succeeds.
func (s *Service) Logout(ctx context.Context, req *model.LogoutRequest) error {
	if req.RefreshToken == "" {
		return nil
	}
	claims, err := auth.ParseToken(req.RefreshToken, auth.TokenTypeRefresh, s.secret)
	if err != nil {
		return nil
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if err := s.revoked.Revoke(ctx, claims.ID, remaining); err != nil {
		s.logger.Warn().Err(err).Msg("revoke refresh token failed")
	}
	return nil
}

// Me returns the profile of the authenticated account.
func (s *Service) Me(ctx context.Context, userID uint) (*model.UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.UserResponse{
		ID:          u.ID,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		Username:    u.Username,
		Nickname:    u.Nickname,
		Email:       u.Email,
		AvatarURL:   u.AvatarURL,
		Role:        u.Role,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
	}, nil
}
