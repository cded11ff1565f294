// Package sqlstore implements store.Store on a single "records" table in
// PostgreSQL (pgx) or SQLite (modernc), with schema managed by goose.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/dbx"
	"github.com/dmitrijs2005/jobassist/internal/server/store"
	"github.com/dmitrijs2005/jobassist/internal/server/store/sqlstore/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

type Store struct {
	db      *sql.DB
	dialect Dialect
	q       queries
}

var _ store.Store = (*Store)(nil)

// New wraps an already opened database.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect, q: dialect.queries()}
}

// Open connects with the dialect's driver and applies migrations.
func Open(ctx context.Context, dialect Dialect, dsn string) (*Store, error) {
	db, err := sql.Open(dialect.driver(), dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if dialect == SQLite {
		// SQLite serializes writers; one connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	s := New(db, dialect)
	if err := s.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}
	return s, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations for the store's dialect.
func (s *Store) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(s.dialect.gooseDialect()); err != nil {
		return err
	}
	return gooseUpContext(ctx, s.db, s.dialect.migrationsDir())
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, collection, key string) (*store.Record, error) {
	r := &store.Record{Key: key}
	err := s.db.QueryRowContext(ctx, s.q.get, collection, key).Scan(&r.Value, &r.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return r, nil
}

func (s *Store) Set(ctx context.Context, collection, key string, value []byte) (int64, error) {
	var version int64
	if err := s.db.QueryRowContext(ctx, s.q.set, collection, key, value).Scan(&version); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return version, nil
}

func (s *Store) CompareAndSet(ctx context.Context, collection, key string, value []byte, expectedVersion int64) (int64, error) {
	if expectedVersion == 0 {
		n, err := dbx.ExecAffected(ctx, s.db, s.q.insertNew, collection, key, value)
		if err != nil {
			return 0, fmt.Errorf("db error: %w", err)
		}
		if n == 0 {
			return 0, common.ErrVersionConflict
		}
		return 1, nil
	}

	var version int64
	err := s.db.QueryRowContext(ctx, s.q.update, collection, key, value, expectedVersion).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrVersionConflict
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return version, nil
}

func (s *Store) Delete(ctx context.Context, collection, key string) (bool, error) {
	n, err := dbx.ExecAffected(ctx, s.db, s.q.del, collection, key)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (s *Store) List(ctx context.Context, collection string) ([]*store.Record, error) {
	rows, err := s.db.QueryContext(ctx, s.q.list, collection)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*store.Record, 0)
	for rows.Next() {
		r := &store.Record{}
		if err := rows.Scan(&r.Key, &r.Value, &r.Version); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
