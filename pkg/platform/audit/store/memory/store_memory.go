// Package memory keeps audit events in process for tests and single-node
// runs without Postgres.
package memory

import (
	"context"
	"sync"

	id "anonmsg/pkg/domain"
	audit "anonmsg/pkg/platform/audit"
)

// InMemoryStore is an append-only event log indexed by user, mirroring the
// outbox table's ordering.
type InMemoryStore struct {
	mu     sync.RWMutex
	log    []audit.Event
	byUser map[id.UserID][]int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byUser: make(map[id.UserID][]int)}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[event.UserID] = append(s.byUser[event.UserID], len(s.log))
	s.log = append(s.log, event)
	return nil
}

// ListByUser returns a user's events in insertion order.
func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	positions := s.byUser[userID]
	events := make([]audit.Event, 0, len(positions))
	for _, pos := range positions {
		events = append(events, s.log[pos])
	}
	return events, nil
}

// Len reports how many events have been appended across all users.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.log)
}
