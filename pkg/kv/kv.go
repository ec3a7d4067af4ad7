// Package kv is the key-value substrate behind the review snapshots.
//
// Values are whole documents addressed by fixed keys: readers get the entire
// value, writers replace it. Drivers: Memory (this package), the Redis client
// in pkg/redis and the embedded store in pkg/kv/badgerkv.
package kv

import (
	"context"
	"errors"
	"sync"
)

// Fixed snapshot keys.
const (
	KeyApplicants = "applicants"
	KeyUsers      = "users"
	KeyCourses    = "courses"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Store is a full-document key-value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Memory is an in-process Store. Values are copied on the way in and out.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Close() error { return nil }
