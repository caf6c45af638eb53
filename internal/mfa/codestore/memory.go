package codestore

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	codeHash  string
	expiresAt time.Time
}

// MemoryStore is an in-memory Store for tests and single-process deployments.
type MemoryStore struct {
	mu   sync.RWMutex
	m    map[string]entry
	nowF func() time.Time
}

// NewMemoryStore returns an empty in-memory store. now supplies the clock
// expiry is judged against; it must be the same clock that computed the
// expiresAt values handed to Put. nil means time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &MemoryStore{
		m:    make(map[string]entry),
		nowF: now,
	}
}

func (s *MemoryStore) Put(ctx context.Context, userID, method, codeHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key(userID, method)] = entry{codeHash: codeHash, expiresAt: expiresAt}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, userID, method string) (string, bool, error) {
	s.mu.RLock()
	e, ok := s.m[key(userID, method)]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.After(s.nowF()) {
		s.mu.Lock()
		delete(s.m, key(userID, method))
		s.mu.Unlock()
		return "", false, nil
	}
	return e.codeHash, true, nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID, method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key(userID, method))
	return nil
}
