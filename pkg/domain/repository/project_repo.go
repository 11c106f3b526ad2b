package repository

import (
	"context"

	"github.com/inkwell-cms/inkwell/pkg/domain/model"
)

// ProjectRepository is the project persistence contract.
type ProjectRepository interface {
	BaseRepository[model.Project, model.ListProjectsOptions]

	Stats(ctx context.Context) (*model.ProjectStats, error)

	// ListPublished serves the public front-end, featured first.
	ListPublished(ctx context.Context) ([]*model.Project, error)
}
