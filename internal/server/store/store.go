// Package store defines the versioned key-value Record Store that every
// jobassist service persists through, plus an in-memory backend, a typed
// collection wrapper and a retrying decorator.
//
// Each value lives under (collection, key). Writes bump a per-record version
// starting at 1, which CompareAndSet uses for optimistic concurrency. There
// is no atomicity across keys.
package store

import "context"

// Collection names used by the services.
const (
	CollectionUsers              = "users"
	CollectionSessions           = "sessions"
	CollectionProfiles           = "user_profiles"
	CollectionResumes            = "resumes"
	CollectionJobs               = "jobs"
	CollectionApplications       = "applications"
	CollectionApplicationIndexes = "user_applications_index"
)

// Record is one stored value with its version.
type Record struct {
	Key     string
	Value   []byte
	Version int64
}

// Store is implemented by every backend.
//
// Get returns common.ErrorNotFound for a missing key. CompareAndSet returns
// common.ErrVersionConflict when the stored version differs from
// expectedVersion; expectedVersion 0 means the key must not exist yet.
type Store interface {
	Get(ctx context.Context, collection, key string) (*Record, error)
	Set(ctx context.Context, collection, key string, value []byte) (int64, error)
	CompareAndSet(ctx context.Context, collection, key string, value []byte, expectedVersion int64) (int64, error)
	Delete(ctx context.Context, collection, key string) (bool, error)
	List(ctx context.Context, collection string) ([]*Record, error)
}

// Closer is implemented by backends that hold connections.
type Closer interface {
	Close() error
}
