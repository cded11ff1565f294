// Package repomanager vends the repositories over one record store and
// opens that store from configuration.
package repomanager

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/filex"
	"github.com/dmitrijs2005/jobassist/internal/logging"
	"github.com/dmitrijs2005/jobassist/internal/server/config"
	"github.com/dmitrijs2005/jobassist/internal/server/repositories/applications"
	"github.com/dmitrijs2005/jobassist/internal/server/repositories/jobs"
	"github.com/dmitrijs2005/jobassist/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/jobassist/internal/server/repositories/resumes"
	"github.com/dmitrijs2005/jobassist/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/jobassist/internal/server/repositories/users"
	"github.com/dmitrijs2005/jobassist/internal/server/store"
	"github.com/dmitrijs2005/jobassist/internal/server/store/s3store"
	"github.com/dmitrijs2005/jobassist/internal/server/store/sqlstore"
)

type RepositoryManager interface {
	Users() users.Repository
	Sessions() sessions.Repository
	Profiles() profiles.Repository
	Resumes() resumes.Repository
	Jobs() jobs.Repository
	Applications() applications.Repository
	ApplicationIndexes() applications.IndexRepository
	Ping(ctx context.Context) error
	Close() error
}

// StoreRepositoryManager backs every repository with the same store.Store.
type StoreRepositoryManager struct {
	store store.Store
	apps  *applications.StoreRepository
}

func NewStoreRepositoryManager(s store.Store) *StoreRepositoryManager {
	return &StoreRepositoryManager{store: s, apps: applications.NewStoreRepository(s)}
}

func (m *StoreRepositoryManager) Users() users.Repository {
	return users.NewStoreRepository(m.store)
}

func (m *StoreRepositoryManager) Sessions() sessions.Repository {
	return sessions.NewStoreRepository(m.store)
}

func (m *StoreRepositoryManager) Profiles() profiles.Repository {
	return profiles.NewStoreRepository(m.store)
}

func (m *StoreRepositoryManager) Resumes() resumes.Repository {
	return resumes.NewStoreRepository(m.store)
}

func (m *StoreRepositoryManager) Jobs() jobs.Repository {
	return jobs.NewStoreRepository(m.store)
}

func (m *StoreRepositoryManager) Applications() applications.Repository {
	return m.apps
}

func (m *StoreRepositoryManager) ApplicationIndexes() applications.IndexRepository {
	return m.apps
}

// Store exposes the underlying store.
func (m *StoreRepositoryManager) Store() store.Store {
	return m.store
}

// Ping reads a key that never exists; only not-found counts as healthy.
func (m *StoreRepositoryManager) Ping(ctx context.Context) error {
	_, err := m.store.Get(ctx, "health", "probe")
	if err == nil || errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	return err
}

func (m *StoreRepositoryManager) Close() error {
	if c, ok := m.store.(store.Closer); ok {
		return c.Close()
	}
	return nil
}

// Seams for tests.
var (
	openSQL = func(ctx context.Context, d sqlstore.Dialect, dsn string) (store.Store, error) {
		return sqlstore.Open(ctx, d, dsn)
	}
	openS3 = func(ctx context.Context, o s3store.Options) (store.Store, error) {
		return s3store.NewFromOptions(ctx, o)
	}
)

// OpenStore builds the configured backend wrapped in the retry decorator.
func OpenStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (store.Store, error) {
	var (
		s   store.Store
		err error
	)

	switch cfg.StoreBackend {
	case config.BackendMemory:
		s = store.NewMemory()
	case config.BackendPostgres:
		s, err = openSQL(ctx, sqlstore.Postgres, cfg.DatabaseDSN)
	case config.BackendSQLite:
		if _, err = filex.EnsureParentDir(cfg.SQLitePath); err == nil {
			s, err = openSQL(ctx, sqlstore.SQLite, "file:"+filepath.Clean(cfg.SQLitePath))
		}
	case config.BackendS3:
		s, err = openS3(ctx, s3store.Options{
			AccessKey: cfg.S3RootUser,
			SecretKey: cfg.S3RootPassword,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3BaseEndpoint,
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("%s store: %w", cfg.StoreBackend, err)
	}

	logger.Info(ctx, "store opened", "backend", cfg.StoreBackend)

	return store.WithRetry(s, uint64(cfg.StoreRetryAttempts), cfg.StoreRetryBaseDelay, logger.With("module", "store")), nil
}

// NewFromConfig opens the configured store and returns a manager over it.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger logging.Logger) (RepositoryManager, error) {
	s, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewStoreRepositoryManager(s), nil
}
