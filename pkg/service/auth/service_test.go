package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalauth "github.com/inkwell-cms/inkwell/internal/pkg/auth"
	"github.com/inkwell-cms/inkwell/internal/pkg/security"
	"github.com/inkwell-cms/inkwell/pkg/constant"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
)

var testSecret = []byte("auth-test-secret-0123456789")

// fakeUserRepo holds a couple of accounts keyed by username.
type fakeUserRepo struct {
	users      map[string]*model.User
	lastLogins map[uint]time.Time
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*model.User{}, lastLogins: map[uint]time.Time{}}
	for _, u := range users {
		r.users[u.Username] = u
	}
	return r
}

func (r *fakeUserRepo) List(ctx context.Context, options *model.ListUsersOptions) ([]*model.User, int64, error) {
	return nil, 0, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, constant.ErrNotFound
}

func (r *fakeUserRepo) GetBySlug(ctx context.Context, username string) (*model.User, error) {
	if u, ok := r.users[username]; ok {
		return u, nil
	}
	return nil, constant.ErrNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, u *model.User) (*model.User, error) { return u, nil }
func (r *fakeUserRepo) Update(ctx context.Context, u *model.User) (*model.User, error) { return u, nil }
func (r *fakeUserRepo) Delete(ctx context.Context, id uint) error                      { return nil }
func (r *fakeUserRepo) BatchDelete(ctx context.Context, ids []uint) error              { return nil }
func (r *fakeUserRepo) UpdateStatus(ctx context.Context, id uint, status string) error { return nil }
func (r *fakeUserRepo) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	return nil
}
func (r *fakeUserRepo) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return false, nil
}
func (r *fakeUserRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}
func (r *fakeUserRepo) Stats(ctx context.Context) (*model.UserStats, error) {
	return &model.UserStats{}, nil
}

func (r *fakeUserRepo) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	r.lastLogins[id] = at
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeUserRepo) {
	t.Helper()
	hash, err := security.HashPassword("correct-horse")
	require.NoError(t, err)
	repo := newFakeUserRepo(
		&model.User{ID: 1, Username: "admin", Nickname: "Admin", Role: model.UserRoleAdmin,
			Status: model.UserStatusActive, PasswordHash: hash},
		&model.User{ID: 2, Username: "ghost", Role: model.UserRoleEditor,
			Status: model.UserStatusDisabled, PasswordHash: hash},
	)
	return NewService(repo, testSecret, nil, zerolog.Nop()), repo
}

// seedCaptcha plants a known answer so login requests can pass verification.
func seedCaptcha(t *testing.T, id, answer string) {
	t.Helper()
	require.NoError(t, captchaStore.Set(id, answer))
}

func loginRequest(captchaID string) *model.LoginRequest {
	return &model.LoginRequest{
		Username:      "admin",
		Password:      "correct-horse",
		CaptchaID:     captchaID,
		CaptchaAnswer: "1234",
	}
}

func TestLoginSuccess(t *testing.T) {
	svc, repo := newTestService(t)
	seedCaptcha(t, "cap-1", "1234")

	resp, err := svc.Login(context.Background(), loginRequest("cap-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "admin", resp.User.Username)
	assert.NotContains(t, resp.User.Username, "hash")

	claims, err := internalauth.ParseToken(resp.AccessToken, internalauth.TokenTypeAccess, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
	assert.Equal(t, model.UserRoleAdmin, claims.Role)

	assert.WithinDuration(t, time.Now(), repo.lastLogins[1], 5*time.Second)
}

func TestLoginWrongCaptcha(t *testing.T) {
	svc, _ := newTestService(t)
	seedCaptcha(t, "cap-2", "9999")

	_, err := svc.Login(context.Background(), loginRequest("cap-2"))
	require.ErrorIs(t, err, constant.ErrCaptchaMismatch)
}

func TestCaptchaCannotBeReplayed(t *testing.T) {
	svc, _ := newTestService(t)
	seedCaptcha(t, "cap-3", "1234")

	_, err := svc.Login(context.Background(), loginRequest("cap-3"))
	require.NoError(t, err)

	// Same captcha id a second time: the entry was consumed.
	_, err = svc.Login(context.Background(), loginRequest("cap-3"))
	require.ErrorIs(t, err, constant.ErrCaptchaMismatch)
}

func TestLoginBadCredentialsAreIndistinguishable(t *testing.T) {
	svc, _ := newTestService(t)

	seedCaptcha(t, "cap-4", "1234")
	req := loginRequest("cap-4")
	req.Password = "wrong"
	_, wrongPassErr := svc.Login(context.Background(), req)
	require.ErrorIs(t, wrongPassErr, constant.ErrUnauthorized)

	seedCaptcha(t, "cap-5", "1234")
	req = loginRequest("cap-5")
	req.Username = "nobody"
	_, noUserErr := svc.Login(context.Background(), req)
	require.ErrorIs(t, noUserErr, constant.ErrUnauthorized)

	assert.Equal(t, wrongPassErr.Error(), noUserErr.Error())
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, _ := newTestService(t)
	seedCaptcha(t, "cap-6", "1234")

	req := loginRequest("cap-6")
	req.Username = "ghost"
	_, err := svc.Login(context.Background(), req)
	require.ErrorIs(t, err, constant.ErrForbidden)
}

func TestRememberMeExtendsRefreshLifetime(t *testing.T) {
	svc, _ := newTestService(t)
	seedCaptcha(t, "cap-7", "1234")

	req := loginRequest("cap-7")
	req.RememberMe = true
	resp, err := svc.Login(context.Background(), req)
	require.NoError(t, err)

	claims, err := internalauth.ParseToken(resp.RefreshToken, internalauth.TokenTypeRefresh, testSecret)
	require.NoError(t, err)
	assert.WithinDuration(t,
		time.Now().Add(internalauth.RefreshTokenTTLRemember), claims.ExpiresAt.Time, 10*time.Second)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	svc, _ := newTestService(t)
	seedCaptcha(t, "cap-8", "1234")

	login, err := svc.Login(context.Background(), loginRequest("cap-8"))
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), &model.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)

	claims, err := internalauth.ParseToken(resp.AccessToken, internalauth.TokenTypeAccess, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _ := newTestService(t)
	seedCaptcha(t, "cap-9", "1234")

	login, err := svc.Login(context.Background(), loginRequest("cap-9"))
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), &model.RefreshTokenRequest{RefreshToken: login.AccessToken})
	require.ErrorIs(t, err, constant.ErrInvalidToken)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, _ := newTestService(t)
	seedCaptcha(t, "cap-10", "1234")

	login, err := svc.Login(context.Background(), loginRequest("cap-10"))
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), &model.LogoutRequest{RefreshToken: login.RefreshToken}))

	_, err = svc.Refresh(context.Background(), &model.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.ErrorIs(t, err, constant.ErrInvalidToken)
}

func TestLogoutWithGarbageTokenSucceeds(t *testing.T) {
	svc, _ := newTestService(t)

	assert.NoError(t, svc.Logout(context.Background(), &model.LogoutRequest{RefreshToken: "not-a-jwt"}))
	assert.NoError(t, svc.Logout(context.Background(), &model.LogoutRequest{}))
}

func TestRefreshAfterAccountDisabled(t *testing.T) {
	svc, repo := newTestService(t)
	seedCaptcha(t, "cap-11", "1234")

	login, err := svc.Login(context.Background(), loginRequest("cap-11"))
	require.NoError(t, err)

	repo.users["admin"].Status = model.UserStatusDisabled
	_, err = svc.Refresh(context.Background(), &model.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.ErrorIs(t, err, constant.ErrForbidden)
}

func TestMemoryRevocationStoreExpiry(t *testing.T) {
	store := newMemoryRevocationStore()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "jti-live", time.Minute))
	revoked, err := store.IsRevoked(ctx, "jti-live")
	require.NoError(t, err)
	assert.True(t, revoked)

	// A non-positive ttl means the token is already expired; nothing to track.
	require.NoError(t, store.Revoke(ctx, "jti-dead", -time.Second))
	revoked, err = store.IsRevoked(ctx, "jti-dead")
	require.NoError(t, err)
	assert.False(t, revoked)
}
