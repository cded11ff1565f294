// Package storetest holds the behavioural checks every store backend must pass.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/server/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises a fresh store from newStore against the Store contract.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(context.Background(), "c", "nope")
		require.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		v, err := s.Set(ctx, "c", "k", []byte(`{"a":1}`))
		require.NoError(t, err)
		assert.EqualValues(t, 1, v)

		r, err := s.Get(ctx, "c", "k")
		require.NoError(t, err)
		assert.Equal(t, "k", r.Key)
		assert.JSONEq(t, `{"a":1}`, string(r.Value))
		assert.EqualValues(t, 1, r.Version)

		v, err = s.Set(ctx, "c", "k", []byte(`{"a":2}`))
		require.NoError(t, err)
		assert.EqualValues(t, 2, v)

		r, err = s.Get(ctx, "c", "k")
		require.NoError(t, err)
		assert.JSONEq(t, `{"a":2}`, string(r.Value))
	})

	t.Run("collections are isolated", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Set(ctx, "a", "k", []byte(`1`))
		require.NoError(t, err)

		_, err = s.Get(ctx, "b", "k")
		require.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("compare and set", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		v, err := s.CompareAndSet(ctx, "c", "k", []byte(`1`), 0)
		require.NoError(t, err)
		assert.EqualValues(t, 1, v)

		_, err = s.CompareAndSet(ctx, "c", "k", []byte(`2`), 0)
		require.ErrorIs(t, err, common.ErrVersionConflict, "create must fail when key exists")

		_, err = s.CompareAndSet(ctx, "c", "k", []byte(`2`), 5)
		require.ErrorIs(t, err, common.ErrVersionConflict)

		v, err = s.CompareAndSet(ctx, "c", "k", []byte(`2`), 1)
		require.NoError(t, err)
		assert.EqualValues(t, 2, v)

		_, err = s.CompareAndSet(ctx, "c", "missing", []byte(`2`), 1)
		require.ErrorIs(t, err, common.ErrVersionConflict)

		r, err := s.Get(ctx, "c", "k")
		require.NoError(t, err)
		assert.Equal(t, "2", string(r.Value))
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Set(ctx, "c", "k", []byte(`1`))
		require.NoError(t, err)

		ok, err := s.Delete(ctx, "c", "k")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.Delete(ctx, "c", "k")
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = s.Get(ctx, "c", "k")
		require.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("list sorted by key", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, k := range []string{"b", "a@example.com", "c"} {
			_, err := s.Set(ctx, "c", k, []byte(`"`+k+`"`))
			require.NoError(t, err)
		}
		_, err := s.Set(ctx, "other", "z", []byte(`0`))
		require.NoError(t, err)

		recs, err := s.List(ctx, "c")
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, "a@example.com", recs[0].Key)
		assert.Equal(t, "b", recs[1].Key)
		assert.Equal(t, "c", recs[2].Key)

		empty, err := s.List(ctx, "nothing")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("concurrent compare and set has one winner per version", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Set(ctx, "c", "k", []byte(`0`))
		require.NoError(t, err)

		const n = 8
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := s.CompareAndSet(ctx, "c", "k", []byte(fmt.Sprint(i)), 1)
				if err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, wins)
	})
}
