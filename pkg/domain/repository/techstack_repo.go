package repository

import (
	"context"

	"github.com/inkwell-cms/inkwell/pkg/domain/model"
)

// TechStackRepository is the tech stack persistence contract.
type TechStackRepository interface {
	BaseRepository[model.TechStack, model.ListTechStacksOptions]

	Stats(ctx context.Context) (*model.TechStackStats, error)

	// ListEnabled serves the public front-end, ordered by Sort.
	ListEnabled(ctx context.Context) ([]*model.TechStack, error)
}
