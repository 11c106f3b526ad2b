package repository

import (
	"context"
	"time"
)

// BaseRepository is the uniform persistence contract shared by every
// entity. T is the domain model, O the entity's list-options struct.
//
// Deletion is always logical: Delete and BatchDelete set the deleted_at
// marker, and every read excludes marked rows. BatchDelete and
// BatchUpdateStatus run in a single transaction and fail as a unit when any
// id is missing.
// Purger is the slice of the contract the cleanup job needs; every entity
// repository satisfies it.
type Purger interface {
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type BaseRepository[T any, O any] interface {
	// List returns one page of entities plus the total match count.
	List(ctx context.Context, options *O) ([]*T, int64, error)

	// GetByID returns constant.ErrNotFound for missing or soft-deleted rows.
	GetByID(ctx context.Context, id uint) (*T, error)

	// GetBySlug looks up by the entity's natural key.
	GetBySlug(ctx context.Context, slug string) (*T, error)

	// Create inserts the entity and returns it with id and timestamps set.
	Create(ctx context.Context, entity *T) (*T, error)

	// Update writes the full row and returns the stored entity.
	Update(ctx context.Context, entity *T) (*T, error)

	// Delete soft-deletes one row.
	Delete(ctx context.Context, id uint) error

	// BatchDelete soft-deletes all ids atomically, all-or-nothing.
	BatchDelete(ctx context.Context, ids []uint) error

	// UpdateStatus toggles the status field of one row.
	UpdateStatus(ctx context.Context, id uint, status string) error

	// BatchUpdateStatus toggles the status of all ids atomically.
	BatchUpdateStatus(ctx context.Context, ids []uint, status string) error

	// ExistsBySlug reports a natural-key collision, ignoring excludeID
	// (0 means no exclusion) and soft-deleted rows.
	ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error)

	// PurgeDeletedBefore hard-deletes rows soft-deleted before the cutoff.
	// Only the cleanup job calls this; clients never un-delete or purge.
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
