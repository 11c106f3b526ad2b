package sqldb

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/inkwell-cms/inkwell/pkg/domain/model"
	"github.com/inkwell-cms/inkwell/pkg/domain/repository"
)

var tagColumns = []string{
	"id", "created_at", "updated_at", "name", "slug", "color",
	"status", "article_count",
}

type tagRow struct {
	ID           uint      `db:"id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	Name         string    `db:"name"`
	Slug         string    `db:"slug"`
	Color        string    `db:"color"`
	Status       string    `db:"status"`
	ArticleCount int       `db:"article_count"`
}

func (r *tagRow) toModel() *model.Tag {
	return &model.Tag{
		ID:           r.ID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Name:         r.Name,
		Slug:         r.Slug,
		Color:        r.Color,
		Status:       r.Status,
		ArticleCount: r.ArticleCount,
	}
}

type tagRepo struct {
	base
}

// NewTagRepository builds the SQL-backed tag repository.
func NewTagRepository(db *sqlx.DB, driver string) repository.TagRepository {
	return &tagRepo{base: newBase(db, driver, "tags", "slug", map[string]string{
		"created_at":    "created_at",
		"updated_at":    "updated_at",
		"name":          "name",
		"article_count": "article_count",
	})}
}

func (r *tagRepo) List(ctx context.Context, options *model.ListTagsOptions) ([]*model.Tag, int64, error) {
	where := []sq.Sqlizer{notDeleted()}
	order := "created_at DESC"
	if options != nil {
		if options.Keyword != "" {
			where = append(where, likeContains("name", options.Keyword))
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

	query := r.sb.Select(tagColumns...).From(r.table).OrderBy(order)
	for _, w := range where {
		query = query.Where(w)
	}
	if options != nil {
		q := options.PageQuery
		q.Normalize()
		query = query.Limit(uint64(q.PageSize)).Offset(uint64((q.Page - 1) * q.PageSize))
	}

	var rows []tagRow
	if err := r.selectRows(ctx, &rows, query); err != nil {
		return nil, 0, err
	}
	out := make([]*model.Tag, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, total, nil
}

func (r *tagRepo) ListEnabled(ctx context.Context) ([]*model.Tag, error) {
	var rows []tagRow
	err := r.selectRows(ctx, &rows, r.sb.Select(tagColumns...).
		From(r.table).
		Where(sq.Eq{"status": model.TagStatusEnabled}).
		Where(notDeleted()).
		OrderBy("article_count DESC, name ASC"))
	if err != nil {
		return nil, err
	}
	out := make([]*model.Tag, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}

func (r *tagRepo) GetByID(ctx context.Context, id uint) (*model.Tag, error) {
	var row tagRow
	err := r.getRow(ctx, &row, r.sb.Select(tagColumns...).
		From(r.table).
		Where(sq.Eq{"id": id}).
		Where(notDeleted()))
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *tagRepo) GetBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	var row tagRow
	err := r.getRow(ctx, &row, r.sb.Select(tagColumns...).
		From(r.table).
		Where(sq.Eq{"slug": slug}).
		Where(notDeleted()))
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *tagRepo) Create(ctx context.Context, t *model.Tag) (*model.Tag, error) {
	now := time.Now().UTC()
	id, err := r.insertID(ctx, r.sb.Insert(r.table).
		Columns("created_at", "updated_at", "name", "slug", "color", "status", "article_count").
		Values(now, now, t.Name, t.Slug, t.Color, t.Status, t.ArticleCount))
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *tagRepo) Update(ctx context.Context, t *model.Tag) (*model.Tag, error) {
	if err := r.guardedUpdate(ctx, []uint{t.ID}, map[string]interface{}{
		"name":       t.Name,
		"slug":       t.Slug,
		"color":      t.Color,
		"status":     t.Status,
		"updated_at": time.Now().UTC(),
	}); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, t.ID)
}

func (r *tagRepo) Delete(ctx context.Context, id uint) error {
	return r.softDelete(ctx, []uint{id})
}

func (r *tagRepo) BatchDelete(ctx context.Context, ids []uint) error {
	return r.softDelete(ctx, ids)
}

func (r *tagRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.setStatus(ctx, []uint{id}, status)
}

func (r *tagRepo) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	return r.setStatus(ctx, ids, status)
}

func (r *tagRepo) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return r.existsBySlug(ctx, slug, excludeID)
}

func (r *tagRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.purgeBefore(ctx, cutoff)
}

func (r *tagRepo) Stats(ctx context.Context) (*model.TagStats, error) {
	query, args, err := r.sb.Select(
		"COUNT(*) AS total",
		"COALESCE(SUM(CASE WHEN status = 'enabled' THEN 1 ELSE 0 END), 0) AS enabled",
		"COALESCE(SUM(CASE WHEN status = 'disabled' THEN 1 ELSE 0 END), 0) AS disabled",
	).From(r.table).Where(notDeleted()).ToSql()
	if err != nil {
		return nil, err
	}
	var row struct {
		Total    int64 `db:"total"`
		Enabled  int64 `db:"enabled"`
		Disabled int64 `db:"disabled"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, err
	}
	return &model.TagStats{Total: row.Total, Enabled: row.Enabled, Disabled: row.Disabled}, nil
}
