package sqldb

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/inkwell-cms/inkwell/internal/pkg/types"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
	"github.com/inkwell-cms/inkwell/pkg/domain/repository"
)

var thoughtColumns = []string{
	"id", "created_at", "updated_at", "slug", "content", "images",
	"mood", "location", "status",
}

type thoughtRow struct {
	ID        uint              `db:"id"`
	CreatedAt time.Time         `db:"created_at"`
	UpdatedAt time.Time         `db:"updated_at"`
	Slug      string            `db:"slug"`
	Content   string            `db:"content"`
	Images    types.JSONStrings `db:"images"`
	Mood      string            `db:"mood"`
	Location  string            `db:"location"`
	Status    string            `db:"status"`
}

func (r *thoughtRow) toModel() *model.Thought {
	return &model.Thought{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Slug:      r.Slug,
		Content:   r.Content,
		Images:    r.Images,
		Mood:      r.Mood,
		Location:  r.Location,
		Status:    r.Status,
	}
}

type thoughtRepo struct {
	base
}

// NewThoughtRepository builds the SQL-backed thought repository.
func NewThoughtRepository(db *sqlx.DB, driver string) repository.ThoughtRepository {
	return &thoughtRepo{base: newBase(db, driver, "thoughts", "slug", map[string]string{
		"created_at": "created_at",
		"updated_at": "updated_at",
	})}
}

func (r *thoughtRepo) filters(options *model.ListThoughtsOptions) []sq.Sqlizer {
	where := []sq.Sqlizer{notDeleted()}
	if options == nil {
		return where
	}
	if options.Keyword != "" {
		where = append(where, likeContains("content", options.Keyword))
	}
	if options.Mood != "" {
		where = append(where, sq.Eq{"mood": options.Mood})
	}
	if options.Status != "" {
		where = append(where, sq.Eq{"status": options.Status})
	}
	if options.DateFrom != nil {
		where = append(where, sq.GtOrEq{"created_at": *options.DateFrom})
	}
	if options.DateTo != nil {
		where = append(where, sq.Lt{"created_at": options.DateTo.AddDate(0, 0, 1)})
	}
	return where
}

func (r *thoughtRepo) list(ctx context.Context, options *model.ListThoughtsOptions, where []sq.Sqlizer) ([]*model.Thought, int64, error) {
	total, err := r.count(ctx, where...)
	if err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if options != nil {
		order = r.orderClause(options.SortBy, options.SortOrder)
	}
	query := r.sb.Select(thoughtColumns...).From(r.table).OrderBy(order)
	for _, w := range where {
		query = query.Where(w)
	}
	if options != nil {
		q := options.PageQuery
		q.Normalize()
		query = query.Limit(uint64(q.PageSize)).Offset(uint64((q.Page - 1) * q.PageSize))
	}

	var rows []thoughtRow
	if err := r.selectRows(ctx, &rows, query); err != nil {
		return nil, 0, err
	}
	out := make([]*model.Thought, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, total, nil
}

func (r *thoughtRepo) List(ctx context.Context, options *model.ListThoughtsOptions) ([]*model.Thought, int64, error) {
	return r.list(ctx, options, r.filters(options))
}

func (r *thoughtRepo) ListPublic(ctx context.Context, options *model.ListThoughtsOptions) ([]*model.Thought, int64, error) {
	opts := &model.ListThoughtsOptions{}
	if options != nil {
		opts = options
	}
	opts.Status = model.ThoughtStatusPublic
	return r.list(ctx, opts, r.filters(opts))
}

func (r *thoughtRepo) GetByID(ctx context.Context, id uint) (*model.Thought, error) {
	var row thoughtRow
	err := r.getRow(ctx, &row, r.sb.Select(thoughtColumns...).
		From(r.table).
		Where(sq.Eq{"id": id}).
		Where(notDeleted()))
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *thoughtRepo) GetBySlug(ctx context.Context, slug string) (*model.Thought, error) {
	var row thoughtRow
	err := r.getRow(ctx, &row, r.sb.Select(thoughtColumns...).
		From(r.table).
		Where(sq.Eq{"slug": slug}).
		Where(notDeleted()))
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *thoughtRepo) Create(ctx context.Context, t *model.Thought) (*model.Thought, error) {
	now := time.Now().UTC()
	id, err := r.insertID(ctx, r.sb.Insert(r.table).
		Columns("created_at", "updated_at", "slug", "content", "images",
			"mood", "location", "status").
		Values(now, now, t.Slug, t.Content, types.JSONStrings(t.Images),
			t.Mood, t.Location, t.Status))
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *thoughtRepo) Update(ctx context.Context, t *model.Thought) (*model.Thought, error) {
	if err := r.guardedUpdate(ctx, []uint{t.ID}, map[string]interface{}{
		"slug":       t.Slug,
		"content":    t.Content,
		"images":     types.JSONStrings(t.Images),
		"mood":       t.Mood,
		"location":   t.Location,
		"status":     t.Status,
		"updated_at": time.Now().UTC(),
	}); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, t.ID)
}

func (r *thoughtRepo) Delete(ctx context.Context, id uint) error {
	return r.softDelete(ctx, []uint{id})
}

func (r *thoughtRepo) BatchDelete(ctx context.Context, ids []uint) error {
	return r.softDelete(ctx, ids)
}

func (r *thoughtRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.setStatus(ctx, []uint{id}, status)
}

func (r *thoughtRepo) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	return r.setStatus(ctx, ids, status)
}

func (r *thoughtRepo) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return r.existsBySlug(ctx, slug, excludeID)
}

func (r *thoughtRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.purgeBefore(ctx, cutoff)
}

func (r *thoughtRepo) Stats(ctx context.Context) (*model.ThoughtStats, error) {
	query, args, err := r.sb.Select(
		"COUNT(*) AS total",
		"COALESCE(SUM(CASE WHEN status = 'public' THEN 1 ELSE 0 END), 0) AS pub",
		"COALESCE(SUM(CASE WHEN status = 'private' THEN 1 ELSE 0 END), 0) AS priv",
	).From(r.table).Where(notDeleted()).ToSql()
	if err != nil {
		return nil, err
	}
	var row struct {
		Total   int64 `db:"total"`
		Public  int64 `db:"pub"`
		Private int64 `db:"priv"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, err
	}
	return &model.ThoughtStats{Total: row.Total, Public: row.Public, Private: row.Private}, nil
}
