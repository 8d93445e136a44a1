package settings

import (
	"context"
	"encoding/json"
	"sync"
)

type memoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore returns a Store backed by process memory. Used by tests and
// ephemeral runs; values do not survive a restart.
func NewMemoryStore() Store {
	return &memoryStore{values: make(map[string][]byte)}
}

func storeKey(scope, key string) string {
	return scope + "\x00" + key
}

func (s *memoryStore) Get(ctx context.Context, scope, key string, dest interface{}) error {
	s.mu.RLock()
	raw, ok := s.values[storeKey(scope, key)]
	s.mu.RUnlock()

	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, dest)
}

func (s *memoryStore) Set(ctx context.Context, scope, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.values[storeKey(scope, key)] = raw
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, scope, key string) error {
	s.mu.Lock()
	delete(s.values, storeKey(scope, key))
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}
