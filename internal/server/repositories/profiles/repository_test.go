package profiles

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/server/models"
	"github.com/dmitrijs2005/jobassist/internal/server/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndGet(t *testing.T) {
	repo := NewStoreRepository(store.NewMemory())
	ctx := context.Background()

	_, err := repo.Get(ctx, "u1")
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, repo.Save(ctx, &models.Profile{UserID: "u1", Skills: []string{"go"}}))
	require.NoError(t, repo.Save(ctx, &models.Profile{UserID: "u1", Skills: []string{"go", "sql"}}))

	p, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql"}, p.Skills)
}
