// Package memory implements storage.Port in process memory.
package memory

import (
	"context"
	"sync"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Store is a mutex-guarded map of records.
type Store struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// New creates an empty Store.
func New() *Store {
	return &Store{records: make(map[string][]byte)}
}

// Read returns a copy of the record under key.
func (s *Store) Read(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.records[key]
	if !ok {
		return nil, apperrors.NotFound("record", key)
	}
	return append([]byte(nil), data...), nil
}

// Write stores a copy of data under key.
func (s *Store) Write(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = append([]byte(nil), data...)
	return nil
}

// Remove deletes the record under key.
func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
