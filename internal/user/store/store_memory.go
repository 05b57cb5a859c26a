package store

import (
	"context"
	"fmt"
	"sync"

	"anonmsg/internal/user/models"
	id "anonmsg/pkg/domain"
	"anonmsg/pkg/platform/sentinel"
	"anonmsg/pkg/requestcontext"
)

// InMemoryStore keeps users in a map with secondary indexes on email and
// link token. Emails are matched exactly.
type InMemoryStore struct {
	mu      sync.RWMutex
	users   map[id.UserID]models.User
	byEmail map[string]id.UserID
	byToken map[string]id.UserID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:   make(map[id.UserID]models.User),
		byEmail: make(map[string]id.UserID),
		byToken: make(map[string]id.UserID),
	}
}

// CreateUser registers a new account. A taken email or link token reports
// sentinel.ErrConflict.
func (s *InMemoryStore) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[user.Email]; taken {
		return nil, fmt.Errorf("create user: email: %w", sentinel.ErrConflict)
	}
	if _, taken := s.byToken[user.PersonalLink.Token]; taken {
		return nil, fmt.Errorf("create user: link token: %w", sentinel.ErrConflict)
	}
	s.users[user.ID] = *user
	s.byEmail[user.Email] = user.ID
	s.byToken[user.PersonalLink.Token] = user.ID
	saved := *user
	return &saved, nil
}

// FetchCurrentUser returns the user whose ID the request context carries.
func (s *InMemoryStore) FetchCurrentUser(ctx context.Context) (*models.User, error) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		return nil, models.ErrUserNotFound
	}
	return s.FetchUser(ctx, userID)
}

func (s *InMemoryStore) FetchUser(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &u, nil
}

func (s *InMemoryStore) FetchUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.byEmail[email]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	u := s.users[userID]
	return &u, nil
}

func (s *InMemoryStore) FetchUserByPersonalLink(_ context.Context, token string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.byToken[token]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	u := s.users[userID]
	return &u, nil
}

// UpdateUser writes the mutable profile fields. ID, email, link and creation
// time keep their stored values.
func (s *InMemoryStore) UpdateUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	existing.Username = user.Username
	existing.ProfileImageURL = user.ProfileImageURL
	s.users[user.ID] = existing
	return &existing, nil
}
