package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonmsg/internal/message/models"
	id "anonmsg/pkg/domain"
)

var columns = []string{
	"id", "sender_id", "receiver_id", "contact_id", "content", "is_anonymous", "sent_at",
	"answer_id", "answer_content", "answered_at",
}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgres(db), mock
}

func TestPostgresStore_SendMessage(t *testing.T) {
	store, mock := newMockStore(t)
	contactID := id.NewContactID()
	m := &models.Message{
		ID:          id.NewMessageID(),
		SenderID:    id.NewUserID(),
		ReceiverID:  id.NewUserID(),
		ContactID:   &contactID,
		Content:     "Hello, this is a question.",
		IsAnonymous: true,
		SentAt:      time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO messages")).
		WithArgs(m.ID.String(), m.SenderID.String(), m.ReceiverID.String(), contactID.String(),
			m.Content, true, m.SentAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	saved, err := store.SendMessage(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, m, saved)
	require.NoError(t, mock.ExpectationsWereMet())

	t.Run("driver failure is a send failure", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO messages")).WillReturnError(errors.New("connection reset"))

		_, err := store.SendMessage(context.Background(), m)
		require.ErrorIs(t, err, models.ErrSendFailed)
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestPostgresStore_FetchReceivedMessages(t *testing.T) {
	store, mock := newMockStore(t)
	receiver := id.NewUserID()
	sender := id.NewUserID()
	pendingID := id.NewMessageID()
	answeredID := id.NewMessageID()
	answerID := id.NewAnswerID()
	sent := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	answeredAt := sent.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("FROM messages WHERE receiver_id = $1 ORDER BY sent_at DESC")).
		WithArgs(receiver.String()).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(answeredID.String(), sender.String(), receiver.String(), nil, "second question", false, sent,
				answerID.String(), "Thanks!", answeredAt).
			AddRow(pendingID.String(), sender.String(), receiver.String(), nil, "first question", true, sent.Add(-time.Hour),
				nil, nil, nil))

	got, err := store.FetchReceivedMessages(context.Background(), receiver)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, answeredID, got[0].ID)
	require.NotNil(t, got[0].Answer)
	assert.Equal(t, answerID, got[0].Answer.ID)
	assert.Equal(t, answeredID, got[0].Answer.MessageID)
	assert.Equal(t, "Thanks!", got[0].Answer.Content)
	assert.Equal(t, answeredAt, got[0].Answer.AnsweredAt)

	assert.Nil(t, got[1].Answer)
	assert.Nil(t, got[1].ContactID)
	assert.True(t, got[1].IsAnonymous)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FetchMessageNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	messageID := id.NewMessageID()

	mock.ExpectQuery(regexp.QuoteMeta("FROM messages WHERE id = $1")).
		WithArgs(messageID.String()).
		WillReturnError(sql.ErrNoRows)

	_, err := store.FetchMessage(context.Background(), messageID)
	require.ErrorIs(t, err, models.ErrMessageNotFound)
}

func TestPostgresStore_AnswerMessage(t *testing.T) {
	messageID := id.NewMessageID()
	answer := &models.Answer{
		ID:         id.NewAnswerID(),
		MessageID:  messageID,
		Content:    "  Thanks!  ",
		AnsweredAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	update := regexp.QuoteMeta("UPDATE messages SET answer_id = $2, answer_content = $3, answered_at = $4")
	exists := regexp.QuoteMeta("SELECT EXISTS")

	t.Run("sets the answer on a pending message", func(t *testing.T) {
		store, mock := newMockStore(t)
		sender, receiver := id.NewUserID(), id.NewUserID()
		mock.ExpectQuery(update).
			WithArgs(messageID.String(), answer.ID.String(), answer.Content, answer.AnsweredAt).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(messageID.String(), sender.String(), receiver.String(), nil, "question here", false,
					answer.AnsweredAt.Add(-time.Hour), answer.ID.String(), answer.Content, answer.AnsweredAt))

		got, err := store.AnswerMessage(context.Background(), messageID, answer)
		require.NoError(t, err)
		assert.Equal(t, answer, got.Answer)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already answered", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(update).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(exists).
			WithArgs(messageID.String()).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		_, err := store.AnswerMessage(context.Background(), messageID, answer)
		require.ErrorIs(t, err, models.ErrAlreadyAnswered)
	})

	t.Run("missing message", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(update).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(exists).
			WithArgs(messageID.String()).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		_, err := store.AnswerMessage(context.Background(), messageID, answer)
		require.ErrorIs(t, err, models.ErrMessageNotFound)
	})

	t.Run("driver failure is wrapped", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(update).WillReturnError(errors.New("connection reset"))

		_, err := store.AnswerMessage(context.Background(), messageID, answer)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "answer message")
		assert.ErrorIs(t, err, models.ErrAnswerFailed)
		assert.NotErrorIs(t, err, models.ErrAlreadyAnswered)
	})
}
