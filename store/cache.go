// Package store persists conversation state between turns. A Cache is a raw
// keyed backend; a Store namespaces one value type on top of it. The memory
// backend serves tests and single-process runs, the Redis backend shared
// deployments.
package store

import (
	"context"
	"sync"
	"time"
)

type Cache[S any] interface {
	Set(ctx context.Context, key string, val S) error
	Get(ctx context.Context, key string) (S, bool, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

type memoryEntry[S any] struct {
	val     S
	expires time.Time
}

func (e memoryEntry[S]) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// MemoryCache keeps entries in process memory with the same TTL semantics as
// the Redis backend: a zero TTL keeps entries until they are deleted. Expired
// entries are dropped lazily on access.
type MemoryCache[S any] struct {
	mu  sync.Mutex
	m   map[string]memoryEntry[S]
	ttl time.Duration
	now func() time.Time
}

func NewMemoryCache[S any](ttl time.Duration) *MemoryCache[S] {
	return &MemoryCache[S]{m: map[string]memoryEntry[S]{}, ttl: ttl, now: time.Now}
}

func (m *MemoryCache[S]) Set(ctx context.Context, key string, val S) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry := memoryEntry[S]{val: val}
	if m.ttl > 0 {
		entry.expires = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.m[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache[S]) Get(ctx context.Context, key string) (S, bool, error) {
	var zero S
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.m[key]
	if !ok {
		return zero, false, nil
	}
	if entry.expired(m.now()) {
		delete(m.m, key)
		return zero, false, nil
	}
	return entry.val, true, nil
}

func (m *MemoryCache[S]) Del(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.m, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache[S]) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.m[key]
	if ok && entry.expired(m.now()) {
		delete(m.m, key)
		return false, nil
	}
	return ok, nil
}
