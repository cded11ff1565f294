package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/server/models"
	"github.com/dmitrijs2005/jobassist/internal/server/store"
)

// Repository caches jobs seen in search results so later calls can snapshot them.
type Repository interface {
	Get(ctx context.Context, id string) (*models.Job, error)
	SaveAll(ctx context.Context, jobs []*models.Job) error
	List(ctx context.Context) ([]*models.Job, error)
}

type StoreRepository struct {
	c *store.Collection[models.Job]
}

func NewStoreRepository(s store.Store) *StoreRepository {
	return &StoreRepository{c: store.NewCollection[models.Job](s, store.CollectionJobs)}
}

func (r *StoreRepository) Get(ctx context.Context, id string) (*models.Job, error) {
	j, _, err := r.c.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("store error: %w", err)
	}
	return j, nil
}

func (r *StoreRepository) SaveAll(ctx context.Context, jobs []*models.Job) error {
	for _, j := range jobs {
		if _, err := r.c.Set(ctx, j.ID, j); err != nil {
			return fmt.Errorf("store error: %w", err)
		}
	}
	return nil
}

func (r *StoreRepository) List(ctx context.Context) ([]*models.Job, error) {
	out, err := r.c.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("store error: %w", err)
	}
	return out, nil
}
