package credential

import (
	"context"
	"fmt"
	"sync"

	"anonmsg/internal/auth/models"
	"anonmsg/pkg/platform/sentinel"
)

// InMemoryStore keeps credentials keyed by email.
type InMemoryStore struct {
	mu      sync.RWMutex
	byEmail map[string]models.Credential
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byEmail: make(map[string]models.Credential)}
}

func (s *InMemoryStore) Create(_ context.Context, cred *models.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[cred.Email]; taken {
		return fmt.Errorf("create credential: %w", sentinel.ErrConflict)
	}
	c := *cred
	c.PasswordHash = append([]byte(nil), cred.PasswordHash...)
	s.byEmail[cred.Email] = c
	return nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("credential: %w", sentinel.ErrNotFound)
	}
	c.PasswordHash = append([]byte(nil), c.PasswordHash...)
	return &c, nil
}
