package store

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/jobassist/internal/common"
)

// Memory is a process-local Store. Values are copied in and out so callers
// never share buffers with the map.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]*Record
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]*Record)}
}

func cloneRecord(r *Record) *Record {
	v := make([]byte, len(r.Value))
	copy(v, r.Value)
	return &Record{Key: r.Key, Value: v, Version: r.Version}
}

func (m *Memory) Get(ctx context.Context, collection, key string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.data[collection][key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneRecord(r), nil
}

func (m *Memory) Set(ctx context.Context, collection, key string, value []byte) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.put(collection, key, value), nil
}

func (m *Memory) CompareAndSet(ctx context.Context, collection, key string, value []byte, expectedVersion int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var current int64
	if r, ok := m.data[collection][key]; ok {
		current = r.Version
	}
	if current != expectedVersion {
		return 0, common.ErrVersionConflict
	}
	return m.put(collection, key, value), nil
}

// put must be called with mu held.
func (m *Memory) put(collection, key string, value []byte) int64 {
	c, ok := m.data[collection]
	if !ok {
		c = make(map[string]*Record)
		m.data[collection] = c
	}

	var version int64 = 1
	if old, ok := c[key]; ok {
		version = old.Version + 1
	}
	c[key] = cloneRecord(&Record{Key: key, Value: value, Version: version})
	return version
}

func (m *Memory) Delete(ctx context.Context, collection, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.data[collection][key]; !ok {
		return false, nil
	}
	delete(m.data[collection], key)
	return true, nil
}

func (m *Memory) List(ctx context.Context, collection string) ([]*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Record, 0, len(m.data[collection]))
	for _, r := range m.data[collection] {
		out = append(out, cloneRecord(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
