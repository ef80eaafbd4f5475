// Package securestore provides SecureStorage backends for session data.
package securestore

import (
	"context"
	"sync"

	"ciquest/internal/domain/service"
)

// memoryStore keeps items in process memory. Nothing survives a restart,
// which matches the behavior of a device with secure storage unavailable.
type memoryStore struct {
	mu    sync.Mutex
	items map[string]string
}

// NewMemoryStore creates an in-memory SecureStorage.
func NewMemoryStore() service.SecureStorage {
	return &memoryStore{items: map[string]string{}}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.items[key]
	if !ok {
		return "", service.ErrItemNotFound
	}

	return value, nil
}

func (s *memoryStore) Set(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value

	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)

	return nil
}
