package applications

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/server/models"
	"github.com/dmitrijs2005/jobassist/internal/server/store"
)

type StoreRepository struct {
	apps    *store.Collection[models.Application]
	indexes *store.Collection[models.ApplicationIndex]
}

func NewStoreRepository(s store.Store) *StoreRepository {
	return &StoreRepository{
		apps:    store.NewCollection[models.Application](s, store.CollectionApplications),
		indexes: store.NewCollection[models.ApplicationIndex](s, store.CollectionApplicationIndexes),
	}
}

func wrap(err error) error {
	if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrVersionConflict) {
		return err
	}
	return fmt.Errorf("store error: %w", err)
}

func (r *StoreRepository) Create(ctx context.Context, app *models.Application) error {
	if _, err := r.apps.CompareAndSet(ctx, app.ID, app, 0); err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			return common.ErrorAlreadyExists
		}
		return wrap(err)
	}
	return nil
}

func (r *StoreRepository) Get(ctx context.Context, id string) (*models.Application, int64, error) {
	app, v, err := r.apps.Get(ctx, id)
	if err != nil {
		return nil, 0, wrap(err)
	}
	return app, v, nil
}

func (r *StoreRepository) Update(ctx context.Context, app *models.Application, version int64) (int64, error) {
	v, err := r.apps.CompareAndSet(ctx, app.ID, app, version)
	if err != nil {
		return 0, wrap(err)
	}
	return v, nil
}

func (r *StoreRepository) ListByUser(ctx context.Context, userID string) ([]*models.Application, error) {
	out, err := r.apps.Filter(ctx, func(a *models.Application) bool { return a.UserID == userID })
	if err != nil {
		return nil, wrap(err)
	}
	return out, nil
}

func (r *StoreRepository) GetIndex(ctx context.Context, userID string) (*models.ApplicationIndex, int64, error) {
	idx, v, err := r.indexes.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.NewApplicationIndex(userID), 0, nil
		}
		return nil, 0, wrap(err)
	}
	if idx.ApplicationIDs == nil {
		idx.ApplicationIDs = []string{}
	}
	if idx.Statuses == nil {
		idx.Statuses = map[string]models.Status{}
	}
	return idx, v, nil
}

func (r *StoreRepository) SaveIndex(ctx context.Context, idx *models.ApplicationIndex, version int64) (int64, error) {
	v, err := r.indexes.CompareAndSet(ctx, idx.UserID, idx, version)
	if err != nil {
		return 0, wrap(err)
	}
	return v, nil
}
