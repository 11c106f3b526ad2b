package sqldb

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/inkwell-cms/inkwell/pkg/domain/model"
	"github.com/inkwell-cms/inkwell/pkg/domain/repository"
)

var categoryColumns = []string{
	"id", "created_at", "updated_at", "name", "slug", "description",
	"status", "sort", "article_count",
}

type categoryRow struct {
	ID           uint      `db:"id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	Name         string    `db:"name"`
	Slug         string    `db:"slug"`
	Description  string    `db:"description"`
	Status       string    `db:"status"`
	Sort         int       `db:"sort"`
	ArticleCount int       `db:"article_count"`
}

func (r *categoryRow) toModel() *model.Category {
	return &model.Category{
		ID:           r.ID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Name:         r.Name,
		Slug:         r.Slug,
		Description:  r.Description,
		Status:       r.Status,
		Sort:         r.Sort,
		ArticleCount: r.ArticleCount,
	}
}

type categoryRepo struct {
	base
}

// NewCategoryRepository builds the SQL-backed category repository.
func NewCategoryRepository(db *sqlx.DB, driver string) repository.CategoryRepository {
	return &categoryRepo{base: newBase(db, driver, "categories", "slug", map[string]string{
		"created_at":    "created_at",
		"updated_at":    "updated_at",
		"name":          "name",
		"sort":          "sort",
		"article_count": "article_count",
	})}
}

func (r *categoryRepo) filters(options *model.ListCategoriesOptions) []sq.Sqlizer {
	where := []sq.Sqlizer{notDeleted()}
	if options == nil {
		return where
	}
	if options.Keyword != "" {
		where = append(where, sq.Or{
			likeContains("name", options.Keyword),
			likeContains("description", options.Keyword),
		})
	}
	if options.Status != "" {
		where = append(where, sq.Eq{"status": options.Status})
	}
	return where
}

func (r *categoryRepo) List(ctx context.Context, options *model.ListCategoriesOptions) ([]*model.Category, int64, error) {
	where := r.filters(options)
	total, err := r.count(ctx, where...)
	if err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	query := r.sb.Select(categoryColumns...).From(r.table)
	for _, w := range where {
		query = query.Where(w)
	}
	if options != nil {
		order = r.orderClause(options.SortBy, options.SortOrder)
		q := options.PageQuery
		q.Normalize()
		query = query.Limit(uint64(q.PageSize)).Offset(uint64((q.Page - 1) * q.PageSize))
	}
	query = query.OrderBy(order)

	var rows []categoryRow
	if err := r.selectRows(ctx, &rows, query); err != nil {
		return nil, 0, err
	}
	out := make([]*model.Category, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, total, nil
}

func (r *categoryRepo) ListEnabled(ctx context.Context) ([]*model.Category, error) {
	var rows []categoryRow
	err := r.selectRows(ctx, &rows, r.sb.Select(categoryColumns...).
		From(r.table).
		Where(sq.Eq{"status": model.CategoryStatusEnabled}).
		Where(notDeleted()).
		OrderBy("sort ASC, name ASC"))
	if err != nil {
		return nil, err
	}
	out := make([]*model.Category, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	var row categoryRow
	err := r.getRow(ctx, &row, r.sb.Select(categoryColumns...).
		From(r.table).
		Where(sq.Eq{"id": id}).
		Where(notDeleted()))
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *categoryRepo) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var row categoryRow
	err := r.getRow(ctx, &row, r.sb.Select(categoryColumns...).
		From(r.table).
		Where(sq.Eq{"slug": slug}).
		Where(notDeleted()))
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) (*model.Category, error) {
	now := time.Now().UTC()
	id, err := r.insertID(ctx, r.sb.Insert(r.table).
		Columns("created_at", "updated_at", "name", "slug", "description",
			"status", "sort", "article_count").
		Values(now, now, c.Name, c.Slug, c.Description,
			c.Status, c.Sort, c.ArticleCount))
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *categoryRepo) Update(ctx context.Context, c *model.Category) (*model.Category, error) {
	if err := r.guardedUpdate(ctx, []uint{c.ID}, map[string]interface{}{
		"name":        c.Name,
		"slug":        c.Slug,
		"description": c.Description,
		"status":      c.Status,
		"sort":        c.Sort,
		"updated_at":  time.Now().UTC(),
	}); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, c.ID)
}

func (r *categoryRepo) Delete(ctx context.Context, id uint) error {
	return r.softDelete(ctx, []uint{id})
}

func (r *categoryRepo) BatchDelete(ctx context.Context, ids []uint) error {
	return r.softDelete(ctx, ids)
}

func (r *categoryRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.setStatus(ctx, []uint{id}, status)
}

func (r *categoryRepo) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	return r.setStatus(ctx, ids, status)
}

func (r *categoryRepo) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return r.existsBySlug(ctx, slug, excludeID)
}

func (r *categoryRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.purgeBefore(ctx, cutoff)
}

func (r *categoryRepo) SetArticleCount(ctx context.Context, id uint, count int64) error {
	return r.guardedUpdate(ctx, []uint{id}, map[string]interface{}{
		"article_count": count,
		"updated_at":    time.Now().UTC(),
	})
}

func (r *categoryRepo) Stats(ctx context.Context) (*model.CategoryStats, error) {
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
	return &model.CategoryStats{Total: row.Total, Enabled: row.Enabled, Disabled: row.Disabled}, nil
}
