package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/server/models"
	"github.com/dmitrijs2005/jobassist/internal/server/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	repo := NewStoreRepository(store.NewMemory())
	ctx := context.Background()
	now := time.Now().UTC()

	s := &models.Session{ID: "s1", UserID: "u1", Email: "a@example.com", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, s))
	require.ErrorIs(t, repo.Create(ctx, s), common.ErrorAlreadyExists)

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Get(ctx, "s1")
	require.ErrorIs(t, err, common.ErrorNotFound)

	assert.NoError(t, repo.Delete(ctx, "s1"), "deleting twice is fine")
}
