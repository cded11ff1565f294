package store

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/logging"
	"github.com/sethvargo/go-retry"
)

// RetryStore retries transient backend failures with exponential backoff.
// Not-found, version conflicts and context errors are returned immediately.
type RetryStore struct {
	next      Store
	attempts  uint64
	baseDelay time.Duration
	logger    logging.Logger
}

// WithRetry wraps s. attempts is the number of retries after the first try.
func WithRetry(s Store, attempts uint64, baseDelay time.Duration, logger logging.Logger) *RetryStore {
	if logger == nil {
		logger = logging.Nop{}
	}
	if baseDelay <= 0 {
		baseDelay = 50 * time.Millisecond
	}
	return &RetryStore{next: s, attempts: attempts, baseDelay: baseDelay, logger: logger}
}

// Unwrap returns the decorated backend.
func (s *RetryStore) Unwrap() Store { return s.next }

func permanent(err error) bool {
	return errors.Is(err, common.ErrorNotFound) ||
		errors.Is(err, common.ErrVersionConflict) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func (s *RetryStore) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	b := retry.WithMaxRetries(s.attempts, retry.NewExponential(s.baseDelay))
	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err == nil || permanent(err) {
			return err
		}
		s.logger.Warn(ctx, "store operation failed, retrying", "op", op, "attempt", attempt, "error", err)
		return retry.RetryableError(err)
	})
}

func (s *RetryStore) Get(ctx context.Context, collection, key string) (*Record, error) {
	var r *Record
	err := s.do(ctx, "get", func(ctx context.Context) error {
		var err error
		r, err = s.next.Get(ctx, collection, key)
		return err
	})
	return r, err
}

func (s *RetryStore) Set(ctx context.Context, collection, key string, value []byte) (int64, error) {
	var v int64
	err := s.do(ctx, "set", func(ctx context.Context) error {
		var err error
		v, err = s.next.Set(ctx, collection, key, value)
		return err
	})
	return v, err
}

// CompareAndSet is retried only for I/O failures. A retry after an ambiguous
// failure may surface as a version conflict if the first attempt landed, so
// callers reload and check whether the stored value is already theirs.
func (s *RetryStore) CompareAndSet(ctx context.Context, collection, key string, value []byte, expectedVersion int64) (int64, error) {
	var v int64
	err := s.do(ctx, "compare_and_set", func(ctx context.Context) error {
		var err error
		v, err = s.next.CompareAndSet(ctx, collection, key, value, expectedVersion)
		return err
	})
	return v, err
}

func (s *RetryStore) Delete(ctx context.Context, collection, key string) (bool, error) {
	var ok bool
	err := s.do(ctx, "delete", func(ctx context.Context) error {
		var err error
		ok, err = s.next.Delete(ctx, collection, key)
		return err
	})
	return ok, err
}

func (s *RetryStore) List(ctx context.Context, collection string) ([]*Record, error) {
	var out []*Record
	err := s.do(ctx, "list", func(ctx context.Context) error {
		var err error
		out, err = s.next.List(ctx, collection)
		return err
	})
	return out, err
}

func (s *RetryStore) Close() error {
	if c, ok := s.next.(Closer); ok {
		return c.Close()
	}
	return nil
}
