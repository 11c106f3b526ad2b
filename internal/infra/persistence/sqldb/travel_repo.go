package sqldb

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/inkwell-cms/inkwell/internal/pkg/types"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
	"github.com/inkwell-cms/inkwell/pkg/domain/repository"
)

var travelColumns = []string{
	"id", "created_at", "updated_at", "title", "slug", "country", "city",
	"description", "start_date", "end_date", "images", "highlights", "status",
}

type travelRow struct {
	ID          uint              `db:"id"`
	CreatedAt   time.Time         `db:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at"`
	Title       string            `db:"title"`
	Slug        string            `db:"slug"`
	Country     string            `db:"country"`
	City        string            `db:"city"`
	Description string            `db:"description"`
	StartDate   sql.NullTime      `db:"start_date"`
	EndDate     sql.NullTime      `db:"end_date"`
	Images      types.JSONStrings `db:"images"`
	Highlights  types.JSONStrings `db:"highlights"`
	Status      string            `db:"status"`
}

func (r *travelRow) toModel() *model.Travel {
	return &model.Travel{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Title:       r.Title,
		Slug:        r.Slug,
		Country:     r.Country,
		City:        r.City,
		Description: r.Description,
		StartDate:   timePtr(r.StartDate),
		EndDate:     timePtr(r.EndDate),
		Images:      r.Images,
		Highlights:  r.Highlights,
		Status:      r.Status,
	}
}

type travelRepo struct {
	base
}

// NewTravelRepository builds the SQL-backed travel repository.
func NewTravelRepository(db *sqlx.DB, driver string) repository.TravelRepository {
	return &travelRepo{base: newBase(db, driver, "travels", "slug", map[string]string{
		"created_at": "created_at",
		"updated_at": "updated_at",
		"title":      "title",
		"start_date": "start_date",
	})}
}

func (r *travelRepo) filters(options *model.ListTravelsOptions) []sq.Sqlizer {
	where := []sq.Sqlizer{notDeleted()}
	if options == nil {
		return where
	}
	if options.Keyword != "" {
		where = append(where, sq.Or{
			likeContains("title", options.Keyword),
			likeContains("description", options.Keyword),
			likeContains("city", options.Keyword),
		})
	}
	if options.Country != "" {
		where = append(where, sq.Eq{"country": options.Country})
	}
	if options.Status != "" {
		where = append(where, sq.Eq{"status": options.Status})
	}
	if options.DateFrom != nil {
		where = append(where, sq.GtOrEq{"start_date": *options.DateFrom})
	}
	if options.DateTo != nil {
		where = append(where, sq.Lt{"start_date": options.DateTo.AddDate(0, 0, 1)})
	}
	return where
}

func (r *travelRepo) list(ctx context.Context, options *model.ListTravelsOptions, where []sq.Sqlizer) ([]*model.Travel, int64, error) {
	total, err := r.count(ctx, where...)
	if err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if options != nil {
		order = r.orderClause(options.SortBy, options.SortOrder)
	}
	query := r.sb.Select(travelColumns...).From(r.table).OrderBy(order)
	for _, w := range where {
		query = query.Where(w)
	}
	if options != nil {
		q := options.PageQuery
		q.Normalize()
		query = query.Limit(uint64(q.PageSize)).Offset(uint64((q.Page - 1) * q.PageSize))
	}

	var rows []travelRow
	if err := r.selectRows(ctx, &rows, query); err != nil {
		return nil, 0, err
	}
	out := make([]*model.Travel, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, total, nil
}

func (r *travelRepo) List(ctx context.Context, options *model.ListTravelsOptions) ([]*model.Travel, int64, error) {
	return r.list(ctx, options, r.filters(options))
}

func (r *travelRepo) ListPublic(ctx context.Context, options *model.ListTravelsOptions) ([]*model.Travel, int64, error) {
	opts := &model.ListTravelsOptions{}
	if options != nil {
		opts = options
	}
	opts.Status = model.TravelStatusPublic
	return r.list(ctx, opts, r.filters(opts))
}

func (r *travelRepo) GetByID(ctx context.Context, id uint) (*model.Travel, error) {
	var row travelRow
	err := r.getRow(ctx, &row, r.sb.Select(travelColumns...).
		From(r.table).
		Where(sq.Eq{"id": id}).
		Where(notDeleted()))
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *travelRepo) GetBySlug(ctx context.Context, slug string) (*model.Travel, error) {
	var row travelRow
	err := r.getRow(ctx, &row, r.sb.Select(travelColumns...).
		From(r.table).
		Where(sq.Eq{"slug": slug}).
		Where(notDeleted()))
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *travelRepo) Create(ctx context.Context, t *model.Travel) (*model.Travel, error) {
	now := time.Now().UTC()
	id, err := r.insertID(ctx, r.sb.Insert(r.table).
		Columns("created_at", "updated_at", "title", "slug", "country", "city",
			"description", "start_date", "end_date", "images", "highlights", "status").
		Values(now, now, t.Title, t.Slug, t.Country, t.City,
			t.Description, nullTime(t.StartDate), nullTime(t.EndDate),
			types.JSONStrings(t.Images), types.JSONStrings(t.Highlights), t.Status))
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *travelRepo) Update(ctx context.Context, t *model.Travel) (*model.Travel, error) {
	if err := r.guardedUpdate(ctx, []uint{t.ID}, map[string]interface{}{
		"title":       t.Title,
		"slug":        t.Slug,
		"country":     t.Country,
		"city":        t.City,
		"description": t.Description,
		"start_date":  nullTime(t.StartDate),
		"end_date":    nullTime(t.EndDate),
		"images":      types.JSONStrings(t.Images),
		"highlights":  types.JSONStrings(t.Highlights),
		"status":      t.Status,
		"updated_at":  time.Now().UTC(),
	}); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, t.ID)
}

func (r *travelRepo) Delete(ctx context.Context, id uint) error {
	return r.softDelete(ctx, []uint{id})
}

func (r *travelRepo) BatchDelete(ctx context.Context, ids []uint) error {
	return r.softDelete(ctx, ids)
}

func (r *travelRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.setStatus(ctx, []uint{id}, status)
}

func (r *travelRepo) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	return r.setStatus(ctx, ids, status)
}

func (r *travelRepo) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return r.existsBySlug(ctx, slug, excludeID)
}

func (r *travelRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.purgeBefore(ctx, cutoff)
}

func (r *travelRepo) Stats(ctx context.Context) (*model.TravelStats, error) {
	query, args, err := r.sb.Select(
		"COUNT(*) AS total",
		"COALESCE(SUM(CASE WHEN status = 'public' THEN 1 ELSE 0 END), 0) AS pub",
		"COALESCE(SUM(CASE WHEN status = 'private' THEN 1 ELSE 0 END), 0) AS priv",
		"COUNT(DISTINCT CASE WHEN country <> '' THEN country END) AS countries",
	).From(r.table).Where(notDeleted()).ToSql()
	if err != nil {
		return nil, err
	}
	var row struct {
		Total     int64 `db:"total"`
		Public    int64 `db:"pub"`
		Private   int64 `db:"priv"`
		Countries int64 `db:"countries"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, err
	}
	return &model.TravelStats{
		Total:     row.Total,
		Public:    row.Public,
		Private:   row.Private,
		Countries: row.Countries,
	}, nil
}
