package repository

import (
	"context"

	"github.com/inkwell-cms/inkwell/pkg/domain/model"
)

// TagRepository is the tag persistence contract.
type TagRepository interface {
	BaseRepository[model.Tag, model.ListTagsOptions]

	Stats(ctx context.Context) (*model.TagStats, error)

	// ListEnabled serves the public front-end.
	ListEnabled(ctx context.Context) ([]*model.Tag, error)
}
