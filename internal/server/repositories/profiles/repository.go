package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/server/models"
	"github.com/dmitrijs2005/jobassist/internal/server/store"
)

type Repository interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Save(ctx context.Context, p *models.Profile) error
}

type StoreRepository struct {
	c *store.Collection[models.Profile]
}

func NewStoreRepository(s store.Store) *StoreRepository {
	return &StoreRepository{c: store.NewCollection[models.Profile](s, store.CollectionProfiles)}
}

func (r *StoreRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	p, _, err := r.c.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("store error: %w", err)
	}
	return p, nil
}

func (r *StoreRepository) Save(ctx context.Context, p *models.Profile) error {
	if _, err := r.c.Set(ctx, p.UserID, p); err != nil {
		return fmt.Errorf("store error: %w", err)
	}
	return nil
}
