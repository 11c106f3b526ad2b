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

var projectColumns = []string{
	"id", "created_at", "updated_at", "name", "slug", "description",
	"repo_url", "demo_url", "cover_url", "tech_stack", "highlights",
	"featured", "sort", "status",
}

type projectRow struct {
	ID          uint              `db:"id"`
	CreatedAt   time.Time         `db:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at"`
	Name        string            `db:"name"`
	Slug        string            `db:"slug"`
	Description string            `db:"description"`
	RepoURL     string            `db:"repo_url"`
	DemoURL     string            `db:"demo_url"`
	CoverURL    string            `db:"cover_url"`
	TechStack   types.JSONStrings `db:"tech_stack"`
	Highlights  types.JSONStrings `db:"highlights"`
	Featured    bool              `db:"featured"`
	Sort        int               `db:"sort"`
	Status      string            `db:"status"`
}

func (r *projectRow) toModel() *model.Project {
	return &model.Project{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		RepoURL:     r.RepoURL,
		DemoURL:     r.DemoURL,
		CoverURL:    r.CoverURL,
		TechStack:   r.TechStack,
		Highlights:  r.Highlights,
		Featured:    r.Featured,
		Sort:        r.Sort,
		Status:      r.Status,
	}
}

type projectRepo struct {
	base
}

// NewProjectRepository builds the SQL-backed project repository.
func NewProjectRepository(db *sqlx.DB, driver string) repository.ProjectRepository {
	return &projectRepo{base: newBase(db, driver, "projects", "slug", map[string]string{
		"created_at": "created_at",
		"updated_at": "updated_at",
		"name":       "name",
		"sort":       "sort",
	})}
}

func (r *projectRepo) List(ctx context.Context, options *model.ListProjectsOptions) ([]*model.Project, int64, error) {
	where := []sq.Sqlizer{notDeleted()}
	order := "created_at DESC"
	if options != nil {
		if options.Keyword != "" {
			where = append(where, sq.Or{
				likeContains("name", options.Keyword),
				likeContains("description", options.Keyword),
			})
		}
		if options.Status != "" {
			where = append(where, sq.Eq{"status": options.Status})
		}
		if options.Featured != nil {
			where = append(where, sq.Eq{"featured": *options.Featured})
		}
		order = r.orderClause(options.SortBy, options.SortOrder)
	}

	total, err := r.count(ctx, where...)
	if err != nil {
		return nil, 0, err
	}

	query := r.sb.Select(projectColumns...).From(r.table).OrderBy(order)
	for _, w := range where {
		query = query.Where(w)
	}
	if options != nil {
		q := options.PageQuery
		q.Normalize()
		query = query.Limit(uint64(q.PageSize)).Offset(uint64((q.Page - 1) * q.PageSize))
	}

	var rows []projectRow
	if err := r.selectRows(ctx, &rows, query); err != nil {
		return nil, 0, err
	}
	out := make([]*model.Project, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, total, nil
}

func (r *projectRepo) ListPublished(ctx context.Context) ([]*model.Project, error) {
	var rows []projectRow
	err := r.selectRows(ctx, &rows, r.sb.Select(projectColumns...).
		From(r.table).
		Where(sq.Eq{"status": model.ProjectStatusPublished}).
		Where(notDeleted()).
		OrderBy("featured DESC, sort ASC, created_at DESC"))
	if err != nil {
		return nil, err
	}
	out := make([]*model.Project, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}

func (r *projectRepo) GetByID(ctx context.Context, id uint) (*model.Project, error) {
	var row projectRow
	err := r.getRow(ctx, &row, r.sb.Select(projectColumns...).
		From(r.table).
		Where(sq.Eq{"id": id}).
		Where(notDeleted()))
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *projectRepo) GetBySlug(ctx context.Context, slug string) (*model.Project, error) {
	var row projectRow
	err := r.getRow(ctx, &row, r.sb.Select(projectColumns...).
		From(r.table).
		Where(sq.Eq{"slug": slug}).
		Where(notDeleted()))
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	now := time.Now().UTC()
	id, err := r.insertID(ctx, r.sb.Insert(r.table).
		Columns("created_at", "updated_at", "name", "slug", "description",
			"repo_url", "demo_url", "cover_url", "tech_stack", "highlights",
			"featured", "sort", "status").
		Values(now, now, p.Name, p.Slug, p.Description,
			p.RepoURL, p.DemoURL, p.CoverURL, types.JSONStrings(p.TechStack), types.JSONStrings(p.Highlights),
			p.Featured, p.Sort, p.Status))
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *projectRepo) Update(ctx context.Context, p *model.Project) (*model.Project, error) {
	if err := r.guardedUpdate(ctx, []uint{p.ID}, map[string]interface{}{
		"name":        p.Name,
		"slug":        p.Slug,
		"description": p.Description,
		"repo_url":    p.RepoURL,
		"demo_url":    p.DemoURL,
		"cover_url":   p.CoverURL,
		"tech_stack":  types.JSONStrings(p.TechStack),
		"highlights":  types.JSONStrings(p.Highlights),
		"featured":    p.Featured,
		"sort":        p.Sort,
		"status":      p.Status,
		"updated_at":  time.Now().UTC(),
	}); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, p.ID)
}

func (r *projectRepo) Delete(ctx context.Context, id uint) error {
	return r.softDelete(ctx, []uint{id})
}

func (r *projectRepo) BatchDelete(ctx context.Context, ids []uint) error {
	return r.softDelete(ctx, ids)
}

func (r *projectRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.setStatus(ctx, []uint{id}, status)
}

func (r *projectRepo) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	return r.setStatus(ctx, ids, status)
}

func (r *projectRepo) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return r.existsBySlug(ctx, slug, excludeID)
}

func (r *projectRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.purgeBefore(ctx, cutoff)
}

func (r *projectRepo) Stats(ctx context.Context) (*model.ProjectStats, error) {
	query, args, err := r.sb.Select(
		"COUNT(*) AS total",
		"COALESCE(SUM(CASE WHEN status = 'draft' THEN 1 ELSE 0 END), 0) AS draft",
		"COALESCE(SUM(CASE WHEN status = 'published' THEN 1 ELSE 0 END), 0) AS published",
		"COALESCE(SUM(CASE WHEN status = 'archived' THEN 1 ELSE 0 END), 0) AS archived",
		"COALESCE(SUM(CASE WHEN featured THEN 1 ELSE 0 END), 0) AS featured",
	).From(r.table).Where(notDeleted()).ToSql()
	if err != nil {
		return nil, err
	}
	var row struct {
		Total     int64 `db:"total"`
		Draft     int64 `db:"draft"`
		Published int64 `db:"published"`
		Archived  int64 `db:"archived"`
		Featured  int64 `db:"featured"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, err
	}
	return &model.ProjectStats{
		Total:     row.Total,
		Draft:     row.Draft,
		Published: row.Published,
		Archived:  row.Archived,
		Featured:  row.Featured,
	}, nil
}
