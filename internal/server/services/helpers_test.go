package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/jobassist/internal/server/ai"
	"github.com/dmitrijs2005/jobassist/internal/server/config"
	"github.com/dmitrijs2005/jobassist/internal/server/jobsource"
	"github.com/dmitrijs2005/jobassist/internal/server/models"
	"github.com/dmitrijs2005/jobassist/internal/server/repositories/applications"
	"github.com/dmitrijs2005/jobassist/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/jobassist/internal/server/store"
)

// stepClock returns strictly increasing times so creation order is total.
type stepClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC), step: time.Millisecond}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(c.step)
	return c.t
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// overrideIndexes swaps the index repository of a store-backed manager.
type overrideIndexes struct {
	*repomanager.StoreRepositoryManager
	indexes applications.IndexRepository
}

func (m *overrideIndexes) ApplicationIndexes() applications.IndexRepository {
	return m.indexes
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	return cfg
}

type fixture struct {
	manager  repomanager.RepositoryManager
	store    *repomanager.StoreRepositoryManager
	clock    *stepClock
	users    *UserService
	profiles *ProfileService
	jobs     *JobService
	apps     *ApplicationService
	board    *DashboardService
}

func newFixtureWith(t *testing.T, cfg *config.Config, wrap func(*repomanager.StoreRepositoryManager) repomanager.RepositoryManager) *fixture {
	t.Helper()
	return newFixtureOn(t, cfg, store.NewMemory(), wrap)
}

func newFixtureOn(t *testing.T, cfg *config.Config, s store.Store, wrap func(*repomanager.StoreRepositoryManager) repomanager.RepositoryManager) *fixture {
	t.Helper()

	base := repomanager.NewStoreRepositoryManager(s)
	var m repomanager.RepositoryManager = base
	if wrap != nil {
		m = wrap(base)
	}

	clock := newStepClock()
	assistant := ai.New(nil, nil)

	users := NewUserService(m, cfg, nil)
	users.now = clock.Now
	profiles := NewProfileService(m, nil)
	profiles.now = clock.Now
	apps := NewApplicationService(m, assistant, cfg, nil)
	apps.now = clock.Now

	return &fixture{
		manager:  m,
		store:    base,
		clock:    clock,
		users:    users,
		profiles: profiles,
		jobs:     NewJobService(m, jobsource.NewCatalog(), assistant, profiles, nil),
		apps:     apps,
		board:    NewDashboardService(m, users, apps, nil),
	}
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWith(t, testConfig(), nil)
}

// signUp registers a user and authenticates the returned token.
func (f *fixture) signUp(t *testing.T, email string) *models.Principal {
	t.Helper()
	ctx := context.Background()
	res, err := f.users.Register(ctx, email, "password123", "Test User")
	require.NoError(t, err)
	p, err := f.users.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	return p
}

func (f *fixture) create(t *testing.T, p *models.Principal, jobID string, initial models.Status) *models.Application {
	t.Helper()
	res, err := f.apps.Create(context.Background(), p, CreateInput{JobID: jobID, InitialStatus: string(initial)})
	require.NoError(t, err)
	return res.Application
}

func (f *fixture) transition(t *testing.T, p *models.Principal, id string, next models.Status) *models.Application {
	t.Helper()
	app, err := f.apps.TransitionStatus(context.Background(), p, TransitionInput{ApplicationID: id, Status: string(next)})
	require.NoError(t, err)
	return app
}

// recordCounts counts a user's records per status straight from the store.
func (f *fixture) recordCounts(t *testing.T, userID string) models.ApplicationStats {
	t.Helper()
	apps, err := f.store.Applications().ListByUser(context.Background(), userID)
	require.NoError(t, err)
	var s models.ApplicationStats
	for _, a := range apps {
		s.Inc(a.Status)
	}
	return s
}
