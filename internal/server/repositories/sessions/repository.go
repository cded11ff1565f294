package sessions

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/server/models"
	"github.com/dmitrijs2005/jobassist/internal/server/store"
)

type Repository interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

type StoreRepository struct {
	c *store.Collection[models.Session]
}

func NewStoreRepository(s store.Store) *StoreRepository {
	return &StoreRepository{c: store.NewCollection[models.Session](s, store.CollectionSessions)}
}

func (r *StoreRepository) Create(ctx context.Context, s *models.Session) error {
	if _, err := r.c.CompareAndSet(ctx, s.ID, s, 0); err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("store error: %w", err)
	}
	return nil
}

func (r *StoreRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	s, _, err := r.c.Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("store error: %w", err)
	}
	return s, nil
}

func (r *StoreRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.c.Delete(ctx, id); err != nil {
		return fmt.Errorf("store error: %w", err)
	}
	return nil
}
