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

// grp instead of group because GROUP is reserved in every supported dialect.
var techStackColumns = []string{
	"id", "created_at", "updated_at", "name", "slug", "icon_url",
	"grp", "proficiency", "years", "sort", "highlights", "status",
}

type techStackRow struct {
	ID          uint              `db:"id"`
	CreatedAt   time.Time         `db:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at"`
	Name        string            `db:"name"`
	Slug        string            `db:"slug"`
	IconURL     string            `db:"icon_url"`
	Group       string            `db:"grp"`
	Proficiency int               `db:"proficiency"`
	Years       int               `db:"years"`
	Sort        int               `db:"sort"`
	Highlights  types.JSONStrings `db:"highlights"`
	Status      string            `db:"status"`
}

func (r *techStackRow) toModel() *model.TechStack {
	return &model.TechStack{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Name:        r.Name,
		Slug:        r.Slug,
		IconURL:     r.IconURL,
		Group:       r.Group,
		Proficiency: r.Proficiency,
		Years:       r.Years,
		Sort:        r.Sort,
		Highlights:  r.Highlights,
		Status:      r.Status,
	}
}

type techStackRepo struct {
	base
}

// NewTechStackRepository builds the SQL-backed tech stack repository.
func NewTechStackRepository(db *sqlx.DB, driver string) repository.TechStackRepository {
	return &techStackRepo{base: newBase(db, driver, "tech_stacks", "slug", map[string]string{
		"created_at":  "created_at",
		"updated_at":  "updated_at",
		"name":        "name",
		"proficiency": "proficiency",
		"years":       "years",
		"sort":        "sort",
	})}
}

func (r *techStackRepo) List(ctx context.Context, options *model.ListTechStacksOptions) ([]*model.TechStack, int64, error) {
	where := []sq.Sqlizer{notDeleted()}
	order := "created_at DESC"
	if options != nil {
		if options.Keyword != "" {
			where = append(where, likeContains("name", options.Keyword))
		}
		if options.Group != "" {
			where = append(where, sq.Eq{"grp": options.Group})
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

	query := r.sb.Select(techStackColumns...).From(r.table).OrderBy(order)
	for _, w := range where {
		query = query.Where(w)
	}
	if options != nil {
		q := options.PageQuery
		q.Normalize()
		query = query.Limit(uint64(q.PageSize)).Offset(uint64((q.Page - 1) * q.PageSize))
	}

	var rows []techStackRow
	if err := r.selectRows(ctx, &rows, query); err != nil {
		return nil, 0, err
	}
	out := make([]*model.TechStack, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, total, nil
}

func (r *techStackRepo) ListEnabled(ctx context.Context) ([]*model.TechStack, error) {
	var rows []techStackRow
	err := r.selectRows(ctx, &rows, r.sb.Select(techStackColumns...).
		From(r.table).
		Where(sq.Eq{"status": model.TechStackStatusEnabled}).
		Where(notDeleted()).
		OrderBy("sort ASC, name ASC"))
	if err != nil {
		return nil, err
	}
	out := make([]*model.TechStack, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}

func (r *techStackRepo) GetByID(ctx context.Context, id uint) (*model.TechStack, error) {
	var row techStackRow
	err := r.getRow(ctx, &row, r.sb.Select(techStackColumns...).
		From(r.table).
		Where(sq.Eq{"id": id}).
		Where(notDeleted()))
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *techStackRepo) GetBySlug(ctx context.Context, slug string) (*model.TechStack, error) {
	var row techStackRow
	err := r.getRow(ctx, &row, r.sb.Select(techStackColumns...).
		From(r.table).
		Where(sq.Eq{"slug": slug}).
		Where(notDeleted()))
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *techStackRepo) Create(ctx context.Context, t *model.TechStack) (*model.TechStack, error) {
	now := time.Now().UTC()
	id, err := r.insertID(ctx, r.sb.Insert(r.table).
		Columns("created_at", "updated_at", "name", "slug", "icon_url",
			"grp", "proficiency", "years", "sort", "highlights", "status").
		Values(now, now, t.Name, t.Slug, t.IconURL,
			t.Group, t.Proficiency, t.Years, t.Sort, types.JSONStrings(t.Highlights), t.Status))
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *techStackRepo) Update(ctx context.Context, t *model.TechStack) (*model.TechStack, error) {
	if err := r.guardedUpdate(ctx, []uint{t.ID}, map[string]interface{}{
		"name":        t.Name,
		"slug":        t.Slug,
		"icon_url":    t.IconURL,
		"grp":         t.Group,
		"proficiency": t.Proficiency,
		"years":       t.Years,
		"sort":        t.Sort,
		"highlights":  types.JSONStrings(t.Highlights),
		"status":      t.Status,
		"updated_at":  time.Now().UTC(),
	}); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, t.ID)
}

func (r *techStackRepo) Delete(ctx context.Context, id uint) error {
	return r.softDelete(ctx, []uint{id})
}

func (r *techStackRepo) BatchDelete(ctx context.Context, ids []uint) error {
	return r.softDelete(ctx, ids)
}

func (r *techStackRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.setStatus(ctx, []uint{id}, status)
}

func (r *techStackRepo) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	return r.setStatus(ctx, ids, status)
}

func (r *techStackRepo) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return r.existsBySlug(ctx, slug, excludeID)
}

func (r *techStackRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.purgeBefore(ctx, cutoff)
}

func (r *techStackRepo) Stats(ctx context.Context) (*model.TechStackStats, error) {
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
	return &model.TechStackStats{Total: row.Total, Enabled: row.Enabled, Disabled: row.Disabled}, nil
}
