package secretstore

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/seedkeeper/internal/common"
)

// MemoryStore keeps entries in process memory. Used for tests and for
// throwaway sessions.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, storageErr("get", errClosed)
	}
	v, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", key, common.ErrorNotFound)
	}
	return bytes.Clone(v), nil
}

func (s *MemoryStore) PutAll(ctx context.Context, entries ...Entry) error {
	if err := validateEntries(entries); err != nil {
		return storageErr("put", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storageErr("put", errClosed)
	}
	for _, e := range entries {
		if _, ok := s.data[e.Key]; ok {
			return storageErr("put", fmt.Errorf("key %s: %w", e.Key, common.ErrAlreadyExists))
		}
	}
	for _, e := range entries {
		s.data[e.Key] = bytes.Clone(e.Value)
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storageErr("delete", errClosed)
	}
	for _, k := range keys {
		common.WipeByteArray(s.data[k])
		delete(s.data, k)
	}
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range s.data {
		common.WipeByteArray(v)
		delete(s.data, k)
	}
	s.closed = true
	return nil
}
