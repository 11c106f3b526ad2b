package user

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell/internal/pkg/security"
	"github.com/inkwell-cms/inkwell/pkg/constant"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
)

type fakeRepo struct {
	nextID  uint
	byID    map[uint]*model.User
	deleted map[uint]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[uint]*model.User{}, deleted: map[uint]bool{}}
}

func (r *fakeRepo) live(id uint) *model.User {
	if r.deleted[id] {
		return nil
	}
	return r.byID[id]
}

func (r *fakeRepo) List(ctx context.Context, options *model.ListUsersOptions) ([]*model.User, int64, error) {
	var out []*model.User
	for id, u := range r.byID {
		if !r.deleted[id] {
			out = append(out, u)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uint) (*model.User, error) {
	if u := r.live(id); u != nil {
		clone := *u
		return &clone, nil
	}
	return nil, constant.ErrNotFound
}

func (r *fakeRepo) GetBySlug(ctx context.Context, username string) (*model.User, error) {
	for id, u := range r.byID {
		if !r.deleted[id] && u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, constant.ErrNotFound
}

func (r *fakeRepo) Create(ctx context.Context, u *model.User) (*model.User, error) {
	r.nextID++
	stored := *u
	stored.ID = r.nextID
	r.byID[stored.ID] = &stored
	clone := stored
	return &clone, nil
}

func (r *fakeRepo) Update(ctx context.Context, u *model.User) (*model.User, error) {
	if r.live(u.ID) == nil {
		return nil, constant.ErrNotFound
	}
	stored := *u
	r.byID[u.ID] = &stored
	clone := stored
	return &clone, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id uint) error {
	if r.live(id) == nil {
		return constant.ErrNotFound
	}
	r.deleted[id] = true
	return nil
}

func (r *fakeRepo) BatchDelete(ctx context.Context, ids []uint) error {
	for _, id := range ids {
		if r.live(id) == nil {
			return fmt.Errorf("%w: id %d", constant.ErrNotFound, id)
		}
	}
	for _, id := range ids {
		r.deleted[id] = true
	}
	return nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	u := r.live(id)
	if u == nil {
		return constant.ErrNotFound
	}
	u.Status = status
	return nil
}

func (r *fakeRepo) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	for _, id := range ids {
		if r.live(id) == nil {
			return fmt.Errorf("%w: id %d", constant.ErrNotFound, id)
		}
	}
	for _, id := range ids {
		r.byID[id].Status = status
	}
	return nil
}

func (r *fakeRepo) ExistsBySlug(ctx context.Context, username string, excludeID uint) (bool, error) {
	for id, u := range r.byID {
		if !r.deleted[id] && u.Username == username && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeRepo) Stats(ctx context.Context) (*model.UserStats, error) {
	return &model.UserStats{}, nil
}

func (r *fakeRepo) TouchLastLogin(ctx context.Context, id uint, at time.Time) error { return nil }

func seedUsers(t *testing.T, svc *Service, usernames ...string) []uint {
	t.Helper()
	var ids []uint
	for _, name := range usernames {
		created, err := svc.Create(context.Background(), &model.CreateUserRequest{
			Username: name, Email: name + "@example.com", Password: "long-enough-pw",
		})
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}
	return ids
}

func TestCreateDefaultsAndHashing(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), &model.CreateUserRequest{
		Username: "writer", Email: "w@example.com", Password: "long-enough-pw",
	})
	require.NoError(t, err)
	assert.Equal(t, model.UserRoleEditor, created.Role)
	assert.Equal(t, model.UserStatusActive, created.Status)

	stored := repo.byID[created.ID]
	assert.NotEqual(t, "long-enough-pw", stored.PasswordHash)
	assert.True(t, security.CheckPassword(stored.PasswordHash, "long-enough-pw"))
}

func TestCreateRejectsDuplicateUsername(t *testing.T) {
	svc := NewService(newFakeRepo())
	seedUsers(t, svc, "taken")

	_, err := svc.Create(context.Background(), &model.CreateUserRequest{
		Username: "taken", Email: "t@example.com", Password: "long-enough-pw",
	})
	require.ErrorIs(t, err, constant.ErrConflict)
}

func TestCreateRejectsInvalidUsername(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), &model.CreateUserRequest{
		Username: "Not Valid!", Email: "x@example.com", Password: "long-enough-pw",
	})
	require.ErrorIs(t, err, constant.ErrInvalidSlug)
}

func TestCannotDeleteSelf(t *testing.T) {
	svc := NewService(newFakeRepo())
	ids := seedUsers(t, svc, "admin", "editor")

	err := svc.Delete(context.Background(), ids[0], ids[0])
	require.ErrorIs(t, err, constant.ErrForbidden)

	require.NoError(t, svc.Delete(context.Background(), ids[1], ids[0]))
}

func TestBatchDeleteRejectsSelfAnywhereInSet(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ids := seedUsers(t, svc, "admin", "a", "b")

	err := svc.BatchDelete(context.Background(), []uint{ids[1], ids[0], ids[2]}, ids[0])
	require.ErrorIs(t, err, constant.ErrForbidden)
	assert.False(t, repo.deleted[ids[1]], "nothing is deleted when the set includes the actor")

	require.NoError(t, svc.BatchDelete(context.Background(), []uint{ids[1], ids[2]}, ids[0]))
}

func TestCannotDisableSelf(t *testing.T) {
	svc := NewService(newFakeRepo())
	ids := seedUsers(t, svc, "admin")

	err := svc.UpdateStatus(context.Background(), ids[0], ids[0], model.UserStatusDisabled)
	require.ErrorIs(t, err, constant.ErrForbidden)

	// Re-activating yourself is allowed.
	require.NoError(t, svc.UpdateStatus(context.Background(), ids[0], ids[0], model.UserStatusActive))
}

func TestUpdateRehashesPassword(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ids := seedUsers(t, svc, "writer")

	oldHash := repo.byID[ids[0]].PasswordHash
	newPass := "another-long-pw"
	_, err := svc.Update(context.Background(), ids[0], &model.UpdateUserRequest{Password: &newPass})
	require.NoError(t, err)

	newHash := repo.byID[ids[0]].PasswordHash
	assert.NotEqual(t, oldHash, newHash)
	assert.True(t, security.CheckPassword(newHash, newPass))
}

func TestCheckUsername(t *testing.T) {
	svc := NewService(newFakeRepo())
	ids := seedUsers(t, svc, "writer")

	result, err := svc.CheckUsername(context.Background(), "writer", 0)
	require.NoError(t, err)
	assert.False(t, result.Available)

	result, err = svc.CheckUsername(context.Background(), "writer", ids[0])
	require.NoError(t, err)
	assert.True(t, result.Available)

	_, err = svc.CheckUsername(context.Background(), "Bad Name", 0)
	require.ErrorIs(t, err, constant.ErrInvalidSlug)
}

func TestResponsesNeverCarryPasswordHash(t *testing.T) {
	svc := NewService(newFakeRepo())
	ids := seedUsers(t, svc, "writer")

	resp, err := svc.Get(context.Background(), ids[0])
	require.NoError(t, err)
	// UserResponse has no hash field; spot-check the visible fields instead.
	assert.Equal(t, "writer", resp.Username)
	assert.NotEmpty(t, resp.Email)
}
