package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore fails the first n calls of every operation with a transient error.
type flakyStore struct {
	Store
	failures int
	calls    int
	err      error
}

func (f *flakyStore) Get(ctx context.Context, collection, key string) (*Record, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return f.Store.Get(ctx, collection, key)
}

func (f *flakyStore) CompareAndSet(ctx context.Context, collection, key string, value []byte, expected int64) (int64, error) {
	f.calls++
	if f.calls <= f.failures {
		return 0, f.err
	}
	return f.Store.CompareAndSet(ctx, collection, key, value, expected)
}

func TestWithRetry_RetriesTransientErrors(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	_, err := mem.Set(ctx, "c", "k", []byte("v"))
	require.NoError(t, err)

	f := &flakyStore{Store: mem, failures: 2, err: errors.New("connection reset")}
	s := WithRetry(f, 3, time.Millisecond, nil)

	r, err := s.Get(ctx, "c", "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(r.Value))
	assert.Equal(t, 3, f.calls)
}

func TestWithRetry_GivesUp(t *testing.T) {
	f := &flakyStore{Store: NewMemory(), failures: 10, err: errors.New("io timeout")}
	s := WithRetry(f, 2, time.Millisecond, nil)

	_, err := s.Get(context.Background(), "c", "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "io timeout")
	assert.Equal(t, 3, f.calls)
}

func TestWithRetry_DoesNotRetryPermanentErrors(t *testing.T) {
	ctx := context.Background()

	f := &flakyStore{Store: NewMemory()}
	s := WithRetry(f, 5, time.Millisecond, nil)

	_, err := s.Get(ctx, "c", "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, 1, f.calls)

	f.calls = 0
	_, err = s.CompareAndSet(ctx, "c", "k", []byte("v"), 3)
	require.ErrorIs(t, err, common.ErrVersionConflict)
	assert.Equal(t, 1, f.calls)
}

func TestWithRetry_CloseDelegates(t *testing.T) {
	s := WithRetry(NewMemory(), 1, 0, nil)
	assert.NoError(t, s.Close())
	assert.IsType(t, &Memory{}, s.Unwrap())
}
