package repository

import (
	"context"

	"github.com/inkwell-cms/inkwell/pkg/domain/model"
)

// ThoughtRepository is the thought persistence contract.
type ThoughtRepository interface {
	BaseRepository[model.Thought, model.ListThoughtsOptions]

	Stats(ctx context.Context) (*model.ThoughtStats, error)

	// ListPublic serves the public front-end.
	ListPublic(ctx context.Context, options *model.ListThoughtsOptions) ([]*model.Thought, int64, error)
}
