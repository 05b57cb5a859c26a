package lockout

import (
	"context"
	"sync"
	"time"
)

type failures struct {
	count     int
	expiresAt time.Time
}

// InMemoryStore mirrors RedisStore for single-process use.
type InMemoryStore struct {
	mu       sync.Mutex
	failures map[string]failures
	locked   map[string]time.Time
	now      func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		failures: make(map[string]failures),
		locked:   make(map[string]time.Time),
		now:      time.Now,
	}
}

func (s *InMemoryStore) RecordFailure(_ context.Context, identifier string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	f, ok := s.failures[identifier]
	if !ok || !now.Before(f.expiresAt) {
		f = failures{expiresAt: now.Add(window)}
	}
	f.count++
	s.failures[identifier] = f
	return f.count, nil
}

func (s *InMemoryStore) Lock(_ context.Context, identifier string, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.locked[identifier] = s.now().Add(d)
	delete(s.failures, identifier)
	return nil
}

func (s *InMemoryStore) IsLocked(_ context.Context, identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.locked[identifier]
	if !ok {
		return false, nil
	}
	if !s.now().Before(until) {
		delete(s.locked, identifier)
		return false, nil
	}
	return true, nil
}

func (s *InMemoryStore) Clear(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.failures, identifier)
	return nil
}
