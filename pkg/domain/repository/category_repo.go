package repository

import (
	"context"

	"github.com/inkwell-cms/inkwell/pkg/domain/model"
)

// CategoryRepository is the category persistence contract.
type CategoryRepository interface {
	BaseRepository[model.Category, model.ListCategoriesOptions]

	Stats(ctx context.Context) (*model.CategoryStats, error)

	// SetArticleCount overwrites the denormalized counter.
	SetArticleCount(ctx context.Context, id uint, count int64) error

	// ListEnabled serves the public front-end.
	ListEnabled(ctx context.Context) ([]*model.Category, error)
}
