package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collection is a typed, JSON-encoded view over one store collection.
type Collection[T any] struct {
	store Store
	name  string
}

func NewCollection[T any](s Store, name string) *Collection[T] {
	return &Collection[T]{store: s, name: name}
}

func (c *Collection[T]) Name() string { return c.name }

// Get decodes the value under key and returns it with its version.
func (c *Collection[T]) Get(ctx context.Context, key string) (*T, int64, error) {
	r, err := c.store.Get(ctx, c.name, key)
	if err != nil {
		return nil, 0, err
	}
	v, err := c.decode(r)
	if err != nil {
		return nil, 0, err
	}
	return v, r.Version, nil
}

func (c *Collection[T]) Set(ctx context.Context, key string, v *T) (int64, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("encode %s/%s: %w", c.name, key, err)
	}
	return c.store.Set(ctx, c.name, key, b)
}

func (c *Collection[T]) CompareAndSet(ctx context.Context, key string, v *T, expectedVersion int64) (int64, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("encode %s/%s: %w", c.name, key, err)
	}
	return c.store.CompareAndSet(ctx, c.name, key, b, expectedVersion)
}

func (c *Collection[T]) Delete(ctx context.Context, key string) (bool, error) {
	return c.store.Delete(ctx, c.name, key)
}

// All returns every value in key order.
func (c *Collection[T]) All(ctx context.Context) ([]*T, error) {
	return c.Filter(ctx, nil)
}

// Filter returns the values for which pred is true, in key order.
// A nil pred matches everything.
func (c *Collection[T]) Filter(ctx context.Context, pred func(*T) bool) ([]*T, error) {
	recs, err := c.store.List(ctx, c.name)
	if err != nil {
		return nil, err
	}

	out := make([]*T, 0, len(recs))
	for _, r := range recs {
		v, err := c.decode(r)
		if err != nil {
			return nil, err
		}
		if pred == nil || pred(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Find returns the first value (in key order) matching pred, or nil.
func (c *Collection[T]) Find(ctx context.Context, pred func(*T) bool) (*T, error) {
	recs, err := c.store.List(ctx, c.name)
	if err != nil {
		return nil, err
	}
	for _, r := range recs {
		v, err := c.decode(r)
		if err != nil {
			return nil, err
		}
		if pred(v) {
			return v, nil
		}
	}
	return nil, nil
}

func (c *Collection[T]) decode(r *Record) (*T, error) {
	v := new(T)
	if err := json.Unmarshal(r.Value, v); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", c.name, r.Key, err)
	}
	return v, nil
}
