//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"anonmsg/internal/message/models"
	"anonmsg/internal/message/store"
	id "anonmsg/pkg/domain"
	"anonmsg/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	store     *store.PostgresStore
	sender    id.UserID
	receiver  id.UserID
	contactID id.ContactID
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "messages", "contacts", "users"))

	s.sender = s.insertUser(ctx, "sender")
	s.receiver = s.insertUser(ctx, "receiver")
	s.contactID = id.NewContactID()
	_, err := s.postgres.DB.ExecContext(ctx,
		`INSERT INTO contacts (id, owner_user_id, name, registered_at) VALUES ($1, $2, $3, $4)`,
		uuid.UUID(s.contactID), uuid.UUID(s.sender), "Mina", time.Now())
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) insertUser(ctx context.Context, username string) id.UserID {
	userID := id.NewUserID()
	_, err := s.postgres.DB.ExecContext(ctx,
		`INSERT INTO users (id, username, email, link_token, created_at) VALUES ($1, $2, $3, $4, $5)`,
		uuid.UUID(userID), username, uuid.NewString()+"@example.com", uuid.NewString(), time.Now())
	s.Require().NoError(err)
	return userID
}

func (s *PostgresStoreSuite) send(sentAt time.Time) *models.Message {
	contactID := s.contactID
	m := &models.Message{
		ID:         id.NewMessageID(),
		SenderID:   s.sender,
		ReceiverID: s.receiver,
		ContactID:  &contactID,
		Content:    "Hello, this is a question.",
		SentAt:     sentAt.UTC().Truncate(time.Microsecond),
	}
	_, err := s.store.SendMessage(context.Background(), m)
	s.Require().NoError(err)
	return m
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	m := s.send(time.Now())

	got, err := s.store.FetchMessage(context.Background(), m.ID)
	s.Require().NoError(err)
	s.Equal(m, got)
}

func (s *PostgresStoreSuite) TestHistoryQueries() {
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	older := s.send(base)
	newer := s.send(base.Add(time.Minute))

	sent, err := s.store.FetchSentMessages(ctx, s.sender)
	s.Require().NoError(err)
	s.Require().Len(sent, 2)
	s.Equal(newer.ID, sent[0].ID)
	s.Equal(older.ID, sent[1].ID)

	received, err := s.store.FetchReceivedMessages(ctx, s.receiver)
	s.Require().NoError(err)
	s.Len(received, 2)

	forContact, err := s.store.FetchMessagesForContact(ctx, s.contactID)
	s.Require().NoError(err)
	s.Len(forContact, 2)
}

func (s *PostgresStoreSuite) TestContactDeletionKeepsMessages() {
	ctx := context.Background()
	m := s.send(time.Now())

	_, err := s.postgres.DB.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, uuid.UUID(s.contactID))
	s.Require().NoError(err)

	got, err := s.store.FetchMessage(ctx, m.ID)
	s.Require().NoError(err)
	s.Nil(got.ContactID)
}

// TestConcurrentAnswers verifies the conditional update lets exactly one
// answer through.
func (s *PostgresStoreSuite) TestConcurrentAnswers() {
	ctx := context.Background()
	m := s.send(time.Now())
	const goroutines = 10

	var wg sync.WaitGroup
	var successes, rejected atomic.Int32
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.AnswerMessage(ctx, m.ID, &models.Answer{
				ID:         id.NewAnswerID(),
				MessageID:  m.ID,
				Content:    "Thanks!",
				AnsweredAt: time.Now(),
			})
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, models.ErrAlreadyAnswered):
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successes.Load())
	s.Equal(int32(goroutines-1), rejected.Load())

	_, err := s.store.AnswerMessage(ctx, id.NewMessageID(), &models.Answer{ID: id.NewAnswerID(), Content: "Thanks!", AnsweredAt: time.Now()})
	s.ErrorIs(err, models.ErrMessageNotFound)
}
