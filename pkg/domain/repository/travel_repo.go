package repository

import (
	"context"

	"github.com/inkwell-cms/inkwell/pkg/domain/model"
)

// TravelRepository is the travel record persistence contract.
type TravelRepository interface {
	BaseRepository[model.Travel, model.ListTravelsOptions]

	Stats(ctx context.Context) (*model.TravelStats, error)

	// ListPublic serves the public front-end.
	ListPublic(ctx context.Context, options *model.ListTravelsOptions) ([]*model.Travel, int64, error)
}
