package resumes

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

func TestSaveAndGet(t *testing.T) {
	repo := NewStoreRepository(store.NewMemory())
	ctx := context.Background()

	_, err := repo.Get(ctx, "r1")
	require.ErrorIs(t, err, common.ErrorNotFound)

	in := &models.Resume{
		ID:         "r1",
		UserID:     "u1",
		FileName:   "cv.pdf",
		FileType:   models.ResumeTypePDF,
		FileSize:   9,
		Content:    []byte("%PDF-1.7\n"),
		Status:     models.ResumeStatusUploaded,
		UploadedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(ctx, in))

	got, err := repo.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, in, got)
}
