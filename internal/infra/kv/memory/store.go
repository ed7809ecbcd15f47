// Package memory implements an in-process slot Store for tests and
// ephemeral sessions.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"trackcore/internal/kv/core"
)

// Store implements core.Store backed by process memory.
type Store struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// New returns an empty in-memory slot store.
func New() *Store { return &Store{slots: make(map[string][]byte)} }

// Driver returns the slot driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Get returns a copy of the slot contents.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	v, ok := s.slots[key]
	s.mu.RUnlock()
	if !ok {
		return nil, core.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set replaces the slot contents.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.slots[key] = append([]byte(nil), value...)
	s.mu.Unlock()
	return nil
}

// Delete removes the slot returning true if it existed.
func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.slots[key]
	if ok {
		delete(s.slots, key)
	}
	return ok, nil
}

// Keys returns all slot names matching prefix.
func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.slots))
	for k := range s.slots {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
