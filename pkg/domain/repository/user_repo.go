package repository

import (
	"context"
	"time"

	"github.com/inkwell-cms/inkwell/pkg/domain/model"
)

// UserRepository is the user persistence contract. The user's natural key
// is the username, so GetBySlug and ExistsBySlug operate on it.
type UserRepository interface {
	BaseRepository[model.User, model.ListUsersOptions]

	Stats(ctx context.Context) (*model.UserStats, error)

	// TouchLastLogin records a successful login.
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
}
