package store

import (
	"context"
	"sync"

	"anonmsg/internal/contact/models"
	id "anonmsg/pkg/domain"
)

// InMemoryStore keeps contacts in a map. Name uniqueness per owner is
// checked under the write lock.
type InMemoryStore struct {
	mu       sync.RWMutex
	contacts map[id.ContactID]models.Contact
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{contacts: make(map[id.ContactID]models.Contact)}
}

func (s *InMemoryStore) FetchContacts(_ context.Context, ownerID id.UserID) ([]*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Contact, 0)
	for _, c := range s.contacts {
		if c.OwnerUserID == ownerID {
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *InMemoryStore) FetchContact(_ context.Context, contactID id.ContactID) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contacts[contactID]
	if !ok {
		return nil, models.ErrContactNotFound
	}
	return &c, nil
}

func (s *InMemoryStore) AddContact(_ context.Context, contact *models.Contact) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nameTakenLocked(contact.OwnerUserID, contact.Name, contact.ID) {
		return nil, models.ErrDuplicateName
	}
	s.contacts[contact.ID] = *contact
	saved := *contact
	return &saved, nil
}

func (s *InMemoryStore) DeleteContact(_ context.Context, contactID id.ContactID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contacts[contactID]; !ok {
		return models.ErrContactNotFound
	}
	delete(s.contacts, contactID)
	return nil
}

// UpdateContact replaces the mutable fields. ID, owner and registration time
// come from the stored record.
func (s *InMemoryStore) UpdateContact(_ context.Context, contact *models.Contact) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.contacts[contact.ID]
	if !ok {
		return nil, models.ErrContactNotFound
	}
	if s.nameTakenLocked(current.OwnerUserID, contact.Name, current.ID) {
		return nil, models.ErrDuplicateName
	}
	current.Name = contact.Name
	current.Relationship = contact.Relationship
	current.Memo = contact.Memo
	s.contacts[current.ID] = current
	return &current, nil
}

func (s *InMemoryStore) nameTakenLocked(owner id.UserID, name string, except id.ContactID) bool {
	for _, c := range s.contacts {
		if c.OwnerUserID == owner && c.Name == name && c.ID != except {
			return true
		}
	}
	return false
}
