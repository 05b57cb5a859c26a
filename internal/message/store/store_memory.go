package store

import (
	"context"
	"sync"

	"anonmsg/internal/message/models"
	id "anonmsg/pkg/domain"
)

// InMemoryStore keeps messages in a map. AnswerMessage checks and sets the
// answer under the write lock so a message is answered at most once.
type InMemoryStore struct {
	mu       sync.RWMutex
	messages map[id.MessageID]models.Message
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{messages: make(map[id.MessageID]models.Message)}
}

func (s *InMemoryStore) SendMessage(_ context.Context, message *models.Message) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cloneMessage(*message)
	s.messages[message.ID] = stored
	out := cloneMessage(stored)
	return &out, nil
}

func (s *InMemoryStore) FetchSentMessages(_ context.Context, userID id.UserID) ([]*models.Message, error) {
	return s.collect(func(m models.Message) bool { return m.SenderID == userID }), nil
}

func (s *InMemoryStore) FetchReceivedMessages(_ context.Context, userID id.UserID) ([]*models.Message, error) {
	return s.collect(func(m models.Message) bool { return m.ReceiverID == userID }), nil
}

func (s *InMemoryStore) FetchMessagesForContact(_ context.Context, contactID id.ContactID) ([]*models.Message, error) {
	return s.collect(func(m models.Message) bool {
		return m.ContactID != nil && *m.ContactID == contactID
	}), nil
}

func (s *InMemoryStore) FetchMessage(_ context.Context, messageID id.MessageID) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.messages[messageID]
	if !ok {
		return nil, models.ErrMessageNotFound
	}
	out := cloneMessage(m)
	return &out, nil
}

func (s *InMemoryStore) AnswerMessage(_ context.Context, messageID id.MessageID, answer *models.Answer) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[messageID]
	if !ok {
		return nil, models.ErrMessageNotFound
	}
	if m.IsAnswered() {
		return nil, models.ErrAlreadyAnswered
	}
	a := *answer
	m.Answer = &a
	s.messages[messageID] = m

	out := cloneMessage(m)
	return &out, nil
}

func (s *InMemoryStore) collect(keep func(models.Message) bool) []*models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Message, 0)
	for _, m := range s.messages {
		if keep(m) {
			c := cloneMessage(m)
			out = append(out, &c)
		}
	}
	return out
}

func cloneMessage(m models.Message) models.Message {
	if m.ContactID != nil {
		contactID := *m.ContactID
		m.ContactID = &contactID
	}
	if m.Answer != nil {
		a := *m.Answer
		m.Answer = &a
	}
	return m
}
