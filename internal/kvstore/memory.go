package kvstore

import (
	"context"

	"github.com/puzpuzpuz/xsync/v3"
)

// MemoryStore is an in-process Store. It is the default driver and the
// fixture the test suites run against.
type MemoryStore struct {
	data *xsync.MapOf[string, string]
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: xsync.NewMapOf[string, string]()}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	value, found := s.data.Load(key)
	return value, found, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.data.Store(key, value)
	return nil
}
