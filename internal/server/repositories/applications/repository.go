package applications

import (
	"context"

	"github.com/dmitrijs2005/jobassist/internal/server/models"
)

// Repository persists application records. Versions come from the record
// store and drive optimistic concurrency.
type Repository interface {
	Create(ctx context.Context, app *models.Application) error
	Get(ctx context.Context, id string) (*models.Application, int64, error)
	// Update fails with common.ErrVersionConflict when version is stale.
	Update(ctx context.Context, app *models.Application, version int64) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Application, error)
}

// IndexRepository persists the per-user application index.
type IndexRepository interface {
	// GetIndex returns an empty index with version 0 when none is stored yet.
	GetIndex(ctx context.Context, userID string) (*models.ApplicationIndex, int64, error)
	// SaveIndex fails with common.ErrVersionConflict when version is stale.
	SaveIndex(ctx context.Context, idx *models.ApplicationIndex, version int64) (int64, error)
}
