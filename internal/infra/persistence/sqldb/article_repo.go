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

var articleColumns = []string{
	"id", "created_at", "updated_at", "title", "slug", "summary",
	"content_md", "content_html", "cover_url", "category_id", "category_name",
	"author_id", "author_name", "tags", "status", "is_top", "is_featured",
	"view_count", "word_count", "scheduled_at", "published_at",
}

type articleRow struct {
	ID           uint              `db:"id"`
	CreatedAt    time.Time         `db:"created_at"`
	UpdatedAt    time.Time         `db:"updated_at"`
	Title        string            `db:"title"`
	Slug         string            `db:"slug"`
	Summary      string            `db:"summary"`
	ContentMD    string            `db:"content_md"`
	ContentHTML  string            `db:"content_html"`
	CoverURL     string            `db:"cover_url"`
	CategoryID   uint              `db:"category_id"`
	CategoryName string            `db:"category_name"`
	AuthorID     uint              `db:"author_id"`
	AuthorName   string            `db:"author_name"`
	Tags         types.JSONStrings `db:"tags"`
	Status       string            `db:"status"`
	IsTop        bool              `db:"is_top"`
	IsFeatured   bool              `db:"is_featured"`
	ViewCount    int               `db:"view_count"`
	WordCount    int               `db:"word_count"`
	ScheduledAt  sql.NullTime      `db:"scheduled_at"`
	PublishedAt  sql.NullTime      `db:"published_at"`
}

func (r *articleRow) toModel() *model.Article {
	return &model.Article{
		ID:           r.ID,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Title:        r.Title,
		Slug:         r.Slug,
		Summary:      r.Summary,
		ContentMD:    r.ContentMD,
		ContentHTML:  r.ContentHTML,
		CoverURL:     r.CoverURL,
		CategoryID:   r.CategoryID,
		CategoryName: r.CategoryName,
		AuthorID:     r.AuthorID,
		AuthorName:   r.AuthorName,
		Tags:         r.Tags,
		Status:       r.Status,
		IsTop:        r.IsTop,
		IsFeatured:   r.IsFeatured,
		ViewCount:    r.ViewCount,
		WordCount:    r.WordCount,
		ScheduledAt:  timePtr(r.ScheduledAt),
		PublishedAt:  timePtr(r.PublishedAt),
	}
}

type articleRepo struct {
	base
}

// NewArticleRepository builds the SQL-backed article repository.
func NewArticleRepository(db *sqlx.DB, driver string) repository.ArticleRepository {
	return &articleRepo{base: newBase(db, driver, "articles", "slug", map[string]string{
		"created_at": "created_at",
		"updated_at": "updated_at",
		"title":      "title",
		"view_count": "view_count",
		"word_count": "word_count",
	})}
}

func (r *articleRepo) filters(options *model.ListArticlesOptions) []sq.Sqlizer {
	where := []sq.Sqlizer{notDeleted()}
	if options == nil {
		return where
	}
	if options.Keyword != "" {
		where = append(where, sq.Or{
			likeContains("title", options.Keyword),
			likeContains("summary", options.Keyword),
		})
	}
	if options.CategoryID != 0 {
		where = append(where, sq.Eq{"category_id": options.CategoryID})
	}
	if options.Tag != "" {
		// Tags live in a JSON array column; a quoted substring match is
		// exact enough because tag names cannot contain quotes.
		where = append(where, likeContains("tags", `"`+options.Tag+`"`))
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

func (r *articleRepo) list(ctx context.Context, options *model.ListArticlesOptions, where []sq.Sqlizer, order string) ([]*model.Article, int64, error) {
	total, err := r.count(ctx, where...)
	if err != nil {
		return nil, 0, err
	}

	query := r.sb.Select(articleColumns...).From(r.table).OrderBy(order)
	for _, w := range where {
		query = query.Where(w)
	}
	if options != nil {
		q := options.PageQuery
		q.Normalize()
		query = query.
			Limit(uint64(q.PageSize)).
			Offset(uint64((q.Page - 1) * q.PageSize))
	}

	var rows []articleRow
	if err := r.selectRows(ctx, &rows, query); err != nil {
		return nil, 0, err
	}
	articles := make([]*model.Article, 0, len(rows))
	for i := range rows {
		articles = append(articles, rows[i].toModel())
	}
	return articles, total, nil
}

func (r *articleRepo) List(ctx context.Context, options *model.ListArticlesOptions) ([]*model.Article, int64, error) {
	order := "created_at DESC"
	if options != nil {
		order = r.orderClause(options.SortBy, options.SortOrder)
	}
	return r.list(ctx, options, r.filters(options), order)
}

func (r *articleRepo) ListPublished(ctx context.Context, options *model.ListArticlesOptions) ([]*model.Article, int64, error) {
	opts := &model.ListArticlesOptions{}
	if options != nil {
		opts = options
	}
	opts.Status = model.ArticleStatusPublished
	// Pinned articles come first on the public feed.
	return r.list(ctx, opts, r.filters(opts), "is_top DESC, published_at DESC")
}

func (r *articleRepo) GetByID(ctx context.Context, id uint) (*model.Article, error) {
	var row articleRow
	err := r.getRow(ctx, &row, r.sb.Select(articleColumns...).
		From(r.table).
		Where(sq.Eq{"id": id}).
		Where(notDeleted()))
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *articleRepo) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	var row articleRow
	err := r.getRow(ctx, &row, r.sb.Select(articleColumns...).
		From(r.table).
		Where(sq.Eq{"slug": slug}).
		Where(notDeleted()))
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *articleRepo) GetPublishedBySlug(ctx context.Context, slug string) (*model.Article, error) {
	var row articleRow
	err := r.getRow(ctx, &row, r.sb.Select(articleColumns...).
		From(r.table).
		Where(sq.Eq{"slug": slug, "status": model.ArticleStatusPublished}).
		Where(notDeleted()))
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (r *articleRepo) Create(ctx context.Context, a *model.Article) (*model.Article, error) {
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	id, err := r.insertID(ctx, r.sb.Insert(r.table).
		Columns("created_at", "updated_at", "title", "slug", "summary",
			"content_md", "content_html", "cover_url", "category_id", "category_name",
			"author_id", "author_name", "tags", "status", "is_top", "is_featured",
			"view_count", "word_count", "scheduled_at", "published_at").
		Values(a.CreatedAt, a.UpdatedAt, a.Title, a.Slug, a.Summary,
			a.ContentMD, a.ContentHTML, a.CoverURL, a.CategoryID, a.CategoryName,
			a.AuthorID, a.AuthorName, types.JSONStrings(a.Tags), a.Status, a.IsTop, a.IsFeatured,
			a.ViewCount, a.WordCount, nullTime(a.ScheduledAt), nullTime(a.PublishedAt)))
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *articleRepo) Update(ctx context.Context, a *model.Article) (*model.Article, error) {
	if err := r.guardedUpdate(ctx, []uint{a.ID}, map[string]interface{}{
		"title":         a.Title,
		"slug":          a.Slug,
		"summary":       a.Summary,
		"content_md":    a.ContentMD,
		"content_html":  a.ContentHTML,
		"cover_url":     a.CoverURL,
		"category_id":   a.CategoryID,
		"category_name": a.CategoryName,
		"tags":          types.JSONStrings(a.Tags),
		"status":        a.Status,
		"is_top":        a.IsTop,
		"is_featured":   a.IsFeatured,
		"word_count":    a.WordCount,
		"scheduled_at":  nullTime(a.ScheduledAt),
		"published_at":  nullTime(a.PublishedAt),
		"updated_at":    time.Now().UTC(),
	}); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, a.ID)
}

func (r *articleRepo) Delete(ctx context.Context, id uint) error {
	return r.softDelete(ctx, []uint{id})
}

func (r *articleRepo) BatchDelete(ctx context.Context, ids []uint) error {
	return r.softDelete(ctx, ids)
}

func (r *articleRepo) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.setStatus(ctx, []uint{id}, status)
}

func (r *articleRepo) BatchUpdateStatus(ctx context.Context, ids []uint, status string) error {
	return r.setStatus(ctx, ids, status)
}

func (r *articleRepo) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return r.existsBySlug(ctx, slug, excludeID)
}

func (r *articleRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.purgeBefore(ctx, cutoff)
}

func (r *articleRepo) Stats(ctx context.Context) (*model.ArticleStats, error) {
	query, args, err := r.sb.Select(
		"COUNT(*) AS total",
		"COALESCE(SUM(CASE WHEN status = 'draft' THEN 1 ELSE 0 END), 0) AS draft",
		"COALESCE(SUM(CASE WHEN status = 'published' THEN 1 ELSE 0 END), 0) AS published",
		"COALESCE(SUM(CASE WHEN status = 'offline' THEN 1 ELSE 0 END), 0) AS offline",
		"COALESCE(SUM(view_count), 0) AS total_views",
	).From(r.table).Where(notDeleted()).ToSql()
	if err != nil {
		return nil, err
	}
	var row struct {
		Total      int64 `db:"total"`
		Draft      int64 `db:"draft"`
		Published  int64 `db:"published"`
		Offline    int64 `db:"offline"`
		TotalViews int64 `db:"total_views"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, err
	}
	return &model.ArticleStats{
		Total:      row.Total,
		Draft:      row.Draft,
		Published:  row.Published,
		Offline:    row.Offline,
		TotalViews: row.TotalViews,
	}, nil
}

func (r *articleRepo) FindDueScheduled(ctx context.Context, now time.Time) ([]*model.Article, error) {
	var rows []articleRow
	err := r.selectRows(ctx, &rows, r.sb.Select(articleColumns...).
		From(r.table).
		Where(sq.Eq{"status": model.ArticleStatusDraft}).
		Where(sq.NotEq{"scheduled_at": nil}).
		Where(sq.LtOrEq{"scheduled_at": now}).
		Where(notDeleted()))
	if err != nil {
		return nil, err
	}
	articles := make([]*model.Article, 0, len(rows))
	for i := range rows {
		articles = append(articles, rows[i].toModel())
	}
	return articles, nil
}

func (r *articleRepo) AddViews(ctx context.Context, deltas map[uint]int) error {
	if len(deltas) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for id, delta := range deltas {
		if delta == 0 {
			continue
		}
		query, args, err := r.sb.Update(r.table).
			Set("view_count", sq.Expr("view_count + ?", delta)).
			Where(sq.Eq{"id": id}).
			Where(notDeleted()).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *articleRepo) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	return r.count(ctx, sq.Eq{"category_id": categoryID}, notDeleted())
}

func (r *articleRepo) SumWords(ctx context.Context) (int64, error) {
	query, args, err := r.sb.Select("COALESCE(SUM(word_count), 0)").
		From(r.table).
		Where(sq.Eq{"status": model.ArticleStatusPublished}).
		Where(notDeleted()).
		ToSql()
	if err != nil {
		return 0, err
	}
	var sum int64
	if err := r.db.GetContext(ctx, &sum, query, args...); err != nil {
		return 0, err
	}
	return sum, nil
}
