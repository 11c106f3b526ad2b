package repository

import (
	"context"
	"time"

	"github.com/inkwell-cms/inkwell/pkg/domain/model"
)

// ArticleRepository is the article persistence contract.
type ArticleRepository interface {
	BaseRepository[model.Article, model.ListArticlesOptions]

	// Stats aggregates per-status counts and total views.
	Stats(ctx context.Context) (*model.ArticleStats, error)

	// ListPublished serves the public front-end: published, not deleted.
	ListPublished(ctx context.Context, options *model.ListArticlesOptions) ([]*model.Article, int64, error)

	// GetPublishedBySlug serves the public article detail page.
	GetPublishedBySlug(ctx context.Context, slug string) (*model.Article, error)

	// FindDueScheduled returns drafts whose scheduled_at has passed.
	FindDueScheduled(ctx context.Context, now time.Time) ([]*model.Article, error)

	// AddViews applies buffered view-counter deltas in one statement batch.
	AddViews(ctx context.Context, deltas map[uint]int) error

	// CountByCategory backs the category article_count denormalization.
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)

	// SumWords backs the public site stats.
	SumWords(ctx context.Context) (int64, error)
}
