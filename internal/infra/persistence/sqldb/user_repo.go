package sqldb

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/inkwell-cms/inkwell/pkg/domain/model"
	"github.com/inkwell-cms/inkwell/pkg/domain/repository"
)

var userColumns = []string{
	"id", "created_at", "updated_at", "username", "nickname", "email",
	"password_hash", "avatar_url", "role", "status", "last_login_at",
}

type userRow struct {
	ID           uint         `db:"id"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
	Username     string       `db:"username"`
	Nickname     string       `db:"nickname"`
	Email        string       `db:"email"`
	PasswordHash string       `db:"password_hash"`
	AvatarURL    string       `db:"avatar_url"`
	Role         string       `db:"role"`
	Status       string       `db:"status"`
	LastLoginAt  sql.NullTime `db:"last_login_at"`
}

func (r *userRow) toModel() *model.User {
	return &model.User{
		ID:           r.ID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Username:     r.Username,
		Nickname:     r.Nickname,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		AvatarURL:    r.AvatarURL,
		Role:         r.Role,
		Status:       r.Status,
		LastLoginAt:  timePtr(r.LastLoginAt),
	}
}

type userRepo struct {
	base
}

// NewUserRepository builds the SQL-backed user repository. Usernames play
// the slug role for natural-key lookups and availability checks.
func NewUserRepository(db *sqlx.DB, driver string) repository.UserRepository {
	return &userRepo{base: newBase(db, driver, "users", "username", map[string]string{
		"created_at":    "created_at",
		"updated_at":    "updated_at",
		"username":      "username",
		"last_login_at": "last_login_at",
	})}
}

func (r *userRepo) List(ctx context.Context, options *model.ListUsersOptions) ([]*model.User, int64, error) {
	where := []sq.Sqlizer{notDeleted()}
	order := "created_at DESC"
	if options != nil {
		if options.Keyword != "" {
			where = append(where, sq.Or{
				likeContains("username", options.Keyword),
				likeContains("nickname", options.Keyword),
				likeContains("email", options.Keyword),
			})
		}
		if options.Role != "" {
			where = append(where, sq.Eq{"role": options.Role})
		}
		if options.Status != "" {
			where = append(where, sq.Eq{"status": options.Status})
		}
		order = r.orderClause(options.SortBy, options.SortOrder)
	}

	total, err := r.count(ctx, where...)
	if err != nil {
		return nil, 0, err
	}

	query := r.sb.Select(userColumns...).From(r.table).OrderBy(order)
	for _, w := range where {
		query = query.Where(w)
	}
	if options != nil {
		q := options.PageQuery
		q.Normalize()
		query = query.Limit(uint64(q.PageSize)).Offset(uint64((q.Page - 1) * q.PageSize))
	}

	var rows []userRow
	if err := r.selectRows(ctx, &rows, query); err != nil {
		return nil, 0, err
	}
	out := make([]*model.User, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, total, nil
}

func (r *userRepo) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var row userRow
	err := r.getRow(ctx, &row, r.sb.Select(userColumns...).
		From(r.table).
		Where(sq.Eq{"id": id}).
		Where(notDeleted()))
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

// GetBySlug looks up by username, the user's natural key.
func (r *userRepo) GetBySlug(ctx context.Context, username string) (*model.User, error) {
	var row userRow
	err := r.getRow(ctx, &row, r.sb.Select(userColumns...).
		From(r.table).
		Where(sq.Eq{"username": username}).
		Where(notDeleted()))
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *userRepo) Create(ctx context.Context, u *model.User) (*model.User, error) {
	now := time.Now().UTC()
	id, err := r.insertID(ctx, r.sb.Insert(r.table).
		Columns("created_at", "updated_at", "username", "nickname", "email",
			"password_hash", "avatar_url", "role", "status", "last_login_at").
		Values(now, now, u.Username, u.Nickname, u.Email,
			u.PasswordHash, u.AvatarURL, u.Role, u.Status, nullTime(u.LastLoginAt)))
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *userRepo) Update(ctx context.Context, u *model.User) (*model.User, error) {
	if err := r.guardedUpdate(ctx, []uint{u.ID}, map[string]interface{}{
		"username":      u.Username,
		"nickname":      u.Nickname,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"avatar_url":    u.AvatarURL,
		"role":          u.Role,
		"status":        u.Status,
		"updated_at":    time.Now().UTC(),
	}); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, u.ID)
}

func (r *userRepo) Delete(ctx context.Context, id uint) error {
	return r.softDelete(ctx, []uint{id})
}

func (r *userRepo) BatchDelete(ctx context.Context, ids []uint) error {
	return r.softDelete(ctx, ids)
}

func (r *userRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.setStatus(ctx, []uint{id}, status)
}

func (r *userRepo) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	return r.setStatus(ctx, ids, status)
}

// ExistsBySlug checks username availability.
func (r *userRepo) ExistsBySlug(ctx context.Context, username string, excludeID uint) (bool, error) {
	return r.existsBySlug(ctx, username, excludeID)
}

func (r *userRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.purgeBefore(ctx, cutoff)
}

func (r *userRepo) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.guardedUpdate(ctx, []uint{id}, map[string]interface{}{
		"last_login_at": at,
	})
}

func (r *userRepo) Stats(ctx context.Context) (*model.UserStats, error) {
	query, args, err := r.sb.Select(
		"COUNT(*) AS total",
		"COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0) AS active",
		"COALESCE(SUM(CASE WHEN status = 'disabled' THEN 1 ELSE 0 END), 0) AS disabled",
		"COALESCE(SUM(CASE WHEN role = 'admin' THEN 1 ELSE 0 END), 0) AS admins",
	).From(r.table).Where(notDeleted()).ToSql()
	if err != nil {
		return nil, err
	}
	var row struct {
		Total    int64 `db:"total"`
		Active   int64 `db:"active"`
		Disabled int64 `db:"disabled"`
		Admins   int64 `db:"admins"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, err
	}
	return &model.UserStats{
		Total:    row.Total,
		Active:   row.Active,
		Disabled: row.Disabled,
		Admins:   row.Admins,
	}, nil
}
