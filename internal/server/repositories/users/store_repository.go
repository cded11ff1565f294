package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/server/models"
	"github.com/dmitrijs2005/jobassist/internal/server/store"
)

// StoreRepository keeps users in the users collection keyed by lower-cased email.
type StoreRepository struct {
	c *store.Collection[models.User]
}

func NewStoreRepository(s store.Store) *StoreRepository {
	return &StoreRepository{c: store.NewCollection[models.User](s, store.CollectionUsers)}
}

func key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *StoreRepository) Create(ctx context.Context, user *models.User) error {
	if _, err := r.c.CompareAndSet(ctx, key(user.Email), user, 0); err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("store error: %w", err)
	}
	return nil
}

func (r *StoreRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, _, err := r.c.Get(ctx, key(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("store error: %w", err)
	}
	return u, nil
}
