package resumes

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/server/models"
	"github.com/dmitrijs2005/jobassist/internal/server/store"
)

// Repository keeps uploaded resumes, file content included.
type Repository interface {
	Get(ctx context.Context, id string) (*models.Resume, error)
	Save(ctx context.Context, r *models.Resume) error
}

type StoreRepository struct {
	c *store.Collection[models.Resume]
}

func NewStoreRepository(s store.Store) *StoreRepository {
	return &StoreRepository{c: store.NewCollection[models.Resume](s, store.CollectionResumes)}
}

func (r *StoreRepository) Get(ctx context.Context, id string) (*models.Resume, error) {
	res, _, err := r.c.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("store error: %w", err)
	}
	return res, nil
}

func (r *StoreRepository) Save(ctx context.Context, res *models.Resume) error {
	if _, err := r.c.Set(ctx, res.ID, res); err != nil {
		return fmt.Errorf("store error: %w", err)
	}
	return nil
}
