package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/jobassist/internal/server/ai"
	"github.com/dmitrijs2005/jobassist/internal/server/models"
	"github.com/dmitrijs2005/jobassist/internal/server/repositories/applications"
	"github.com/dmitrijs2005/jobassist/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/jobassist/internal/server/store"
)

var errConnReset = errors.New("connection reset by peer")

// lostAckStore commits compare-and-set writes to one collection but reports
// the next failures of them as I/O errors.
type lostAckStore struct {
	store.Store
	collection string
	failures   atomic.Int32
}

func (s *lostAckStore) CompareAndSet(ctx context.Context, collection, key string, value []byte, expectedVersion int64) (int64, error) {
	v, err := s.Store.CompareAndSet(ctx, collection, key, value, expectedVersion)
	if err == nil && collection == s.collection && s.failures.Add(-1) >= 0 {
		return 0, errConnReset
	}
	return v, err
}

func newLostAckFixture(t *testing.T, collection string) (*fixture, *lostAckStore) {
	t.Helper()
	flaky := &lostAckStore{Store: store.NewMemory(), collection: collection}
	f := newFixtureOn(t, testConfig(), store.WithRetry(flaky, 3, time.Millisecond, nil), nil)
	return f, flaky
}

func TestTransition_LostAckIsAppliedOnce(t *testing.T) {
	for _, collection := range []string{store.CollectionApplications, store.CollectionApplicationIndexes} {
		t.Run(collection, func(t *testing.T) {
			f, flaky := newLostAckFixture(t, collection)
			ctx := context.Background()
			p := f.signUp(t, "u1@example.com")
			app := f.create(t, p, "j1", models.StatusApplied)

			flaky.failures.Store(1)
			f.transition(t, p, app.ID, models.StatusInterview)

			got, err := f.apps.Get(ctx, p, app.ID)
			require.NoError(t, err)
			assert.Equal(t, models.StatusInterview, got.Status)
			assert.Len(t, got.StatusHistory, 1)

			stats, err := f.apps.Stats(ctx, p)
			require.NoError(t, err)
			assert.Equal(t, models.ApplicationStats{Total: 1, Interview: 1}, stats)
			assert.Equal(t, f.recordCounts(t, p.UserID), stats)
		})
	}
}

func TestTransition_LostAckOnSelfLoop(t *testing.T) {
	f, flaky := newLostAckFixture(t, store.CollectionApplications)
	ctx := context.Background()
	p := f.signUp(t, "u1@example.com")
	app := f.create(t, p, "j1", models.StatusApplied)
	f.transition(t, p, app.ID, models.StatusInterview)

	flaky.failures.Store(1)
	f.transition(t, p, app.ID, models.StatusInterview)

	got, err := f.apps.Get(ctx, p, app.ID)
	require.NoError(t, err)
	assert.Len(t, got.StatusHistory, 2)
}

func TestCreate_LostAckIsAppliedOnce(t *testing.T) {
	for _, collection := range []string{store.CollectionApplications, store.CollectionApplicationIndexes} {
		t.Run(collection, func(t *testing.T) {
			f, flaky := newLostAckFixture(t, collection)
			ctx := context.Background()
			p := f.signUp(t, "u1@example.com")

			flaky.failures.Store(1)
			f.create(t, p, "j1", models.StatusApplied)

			list, err := f.apps.List(ctx, p, "")
			require.NoError(t, err)
			assert.Len(t, list, 1)

			stats, err := f.apps.Stats(ctx, p)
			require.NoError(t, err)
			assert.Equal(t, models.ApplicationStats{Total: 1, Applied: 1}, stats)
		})
	}
}

// gatedIndexes parks the first index read after being armed until released.
type gatedIndexes struct {
	applications.IndexRepository
	armed   atomic.Bool
	reached chan struct{}
	release chan struct{}
}

func (g *gatedIndexes) GetIndex(ctx context.Context, userID string) (*models.ApplicationIndex, int64, error) {
	if g.armed.CompareAndSwap(true, false) {
		close(g.reached)
		<-g.release
	}
	return g.IndexRepository.GetIndex(ctx, userID)
}

func TestTransition_TwoProcessesConverge(t *testing.T) {
	gate := &gatedIndexes{reached: make(chan struct{}), release: make(chan struct{})}
	f := newFixtureWith(t, testConfig(), func(m *repomanager.StoreRepositoryManager) repomanager.RepositoryManager {
		gate.IndexRepository = m.ApplicationIndexes()
		return &overrideIndexes{StoreRepositoryManager: m, indexes: gate}
	})
	ctx := context.Background()
	p := f.signUp(t, "u1@example.com")
	app := f.create(t, p, "j1", models.StatusApplied)

	// Same store, separate locks: another server instance.
	other := NewApplicationService(f.store, ai.New(nil, nil), testConfig(), nil)
	other.now = f.clock.Now

	gate.armed.Store(true)
	done := make(chan error, 1)
	go func() {
		_, err := f.apps.TransitionStatus(ctx, p, TransitionInput{ApplicationID: app.ID, Status: "interview"})
		done <- err
	}()

	select {
	case <-gate.reached:
	case <-time.After(5 * time.Second):
		t.Fatal("first transition never reached the index")
	}

	_, err := other.TransitionStatus(ctx, p, TransitionInput{ApplicationID: app.ID, Status: "offer"})
	require.NoError(t, err)

	close(gate.release)
	require.NoError(t, <-done)

	got, err := f.apps.Get(ctx, p, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOffer, got.Status)

	stats, err := f.apps.Stats(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStats{Total: 1, Offer: 1}, stats)
}
