package repomanager

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/jobassist/internal/logging"
	"github.com/dmitrijs2005/jobassist/internal/server/config"
	"github.com/dmitrijs2005/jobassist/internal/server/store"
	"github.com/dmitrijs2005/jobassist/internal/server/store/s3store"
	"github.com/dmitrijs2005/jobassist/internal/server/store/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(backend string) *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.StoreBackend = backend
	return c
}

func TestFactories_ReturnRepos(t *testing.T) {
	m := NewStoreRepositoryManager(store.NewMemory())
	var _ RepositoryManager = m

	assert.NotNil(t, m.Users())
	assert.NotNil(t, m.Sessions())
	assert.NotNil(t, m.Profiles())
	assert.NotNil(t, m.Resumes())
	assert.NotNil(t, m.Jobs())
	assert.NotNil(t, m.Applications())
	assert.NotNil(t, m.ApplicationIndexes())
	assert.NoError(t, m.Close())
}

func TestOpenStore_Memory(t *testing.T) {
	s, err := OpenStore(context.Background(), testConfig(config.BackendMemory), logging.Nop{})
	require.NoError(t, err)

	rs, ok := s.(*store.RetryStore)
	require.True(t, ok, "backends are wrapped with retries")
	assert.IsType(t, &store.Memory{}, rs.Unwrap())
}

func TestOpenStore_SQLite(t *testing.T) {
	cfg := testConfig(config.BackendSQLite)
	cfg.SQLitePath = filepath.Join(t.TempDir(), "data", "jobassist.db")

	m, err := NewFromConfig(context.Background(), cfg, logging.Nop{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	_, err = m.Sessions().Get(context.Background(), "missing")
	require.Error(t, err)
}

func TestOpenStore_DispatchesByBackend(t *testing.T) {
	origSQL, origS3 := openSQL, openS3
	t.Cleanup(func() { openSQL, openS3 = origSQL, origS3 })

	var gotDialect sqlstore.Dialect
	var gotDSN string
	openSQL = func(ctx context.Context, d sqlstore.Dialect, dsn string) (store.Store, error) {
		gotDialect, gotDSN = d, dsn
		return store.NewMemory(), nil
	}
	var gotS3 s3store.Options
	openS3 = func(ctx context.Context, o s3store.Options) (store.Store, error) {
		gotS3 = o
		return store.NewMemory(), nil
	}

	cfg := testConfig(config.BackendPostgres)
	cfg.DatabaseDSN = "postgres://db"
	_, err := OpenStore(context.Background(), cfg, logging.Nop{})
	require.NoError(t, err)
	assert.Equal(t, sqlstore.Postgres, gotDialect)
	assert.Equal(t, "postgres://db", gotDSN)

	cfg = testConfig(config.BackendS3)
	cfg.S3Bucket = "b"
	cfg.S3Prefix = "p"
	_, err = OpenStore(context.Background(), cfg, logging.Nop{})
	require.NoError(t, err)
	assert.Equal(t, "b", gotS3.Bucket)
	assert.Equal(t, "p", gotS3.Prefix)
	assert.Equal(t, cfg.S3RootUser, gotS3.AccessKey)
}

func TestOpenStore_Errors(t *testing.T) {
	origSQL := openSQL
	t.Cleanup(func() { openSQL = origSQL })
	openSQL = func(ctx context.Context, d sqlstore.Dialect, dsn string) (store.Store, error) {
		return nil, errors.New("connection refused")
	}

	_, err := OpenStore(context.Background(), testConfig(config.BackendPostgres), logging.Nop{})
	require.ErrorContains(t, err, "connection refused")

	_, err = OpenStore(context.Background(), testConfig("etcd"), logging.Nop{})
	require.Error(t, err)
}

func TestPing(t *testing.T) {
	m := NewStoreRepositoryManager(store.NewMemory())
	assert.NoError(t, m.Ping(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Ping(ctx), context.Canceled)
}
