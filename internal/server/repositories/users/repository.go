package users

import (
	"context"

	"github.com/dmitrijs2005/jobassist/internal/server/models"
)

type Repository interface {
	// Create fails with common.ErrorAlreadyExists when the email is taken.
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
