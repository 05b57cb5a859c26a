package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"anonmsg/internal/message/models"
	id "anonmsg/pkg/domain"
	dErrors "anonmsg/pkg/domain-errors"
	txcontext "anonmsg/pkg/platform/tx"
)

const messageColumns = `id, sender_id, receiver_id, contact_id, content, is_anonymous, sent_at, answer_id, answer_content, answered_at`

// PostgresStore persists messages with their answer inlined on the row. The
// conditional update in AnswerMessage is what keeps answers single.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) SendMessage(ctx context.Context, message *models.Message) (*models.Message, error) {
	var contactID uuid.NullUUID
	if message.ContactID != nil {
		contactID = uuid.NullUUID{UUID: uuid.UUID(*message.ContactID), Valid: true}
	}
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO messages (id, sender_id, receiver_id, contact_id, content, is_anonymous, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(message.ID),
		uuid.UUID(message.SenderID),
		uuid.UUID(message.ReceiverID),
		contactID,
		message.Content,
		message.IsAnonymous,
		message.SentAt,
	)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", dErrors.WrapKind(models.ErrSendFailed, err))
	}
	saved := *message
	saved.Answer = nil
	return &saved, nil
}

func (s *PostgresStore) FetchSentMessages(ctx context.Context, userID id.UserID) ([]*models.Message, error) {
	return s.query(ctx, "fetch sent messages",
		`SELECT `+messageColumns+` FROM messages WHERE sender_id = $1 ORDER BY sent_at DESC`,
		uuid.UUID(userID))
}

func (s *PostgresStore) FetchReceivedMessages(ctx context.Context, userID id.UserID) ([]*models.Message, error) {
	return s.query(ctx, "fetch received messages",
		`SELECT `+messageColumns+` FROM messages WHERE receiver_id = $1 ORDER BY sent_at DESC`,
		uuid.UUID(userID))
}

func (s *PostgresStore) FetchMessagesForContact(ctx context.Context, contactID id.ContactID) ([]*models.Message, error) {
	return s.query(ctx, "fetch contact messages",
		`SELECT `+messageColumns+` FROM messages WHERE contact_id = $1 ORDER BY sent_at DESC`,
		uuid.UUID(contactID))
}

func (s *PostgresStore) FetchMessage(ctx context.Context, messageID id.MessageID) (*models.Message, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = $1`,
		uuid.UUID(messageID),
	)
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrMessageNotFound
	}
	return m, err
}

// AnswerMessage sets the answer columns only while they are still empty. When
// no row matches, a follow-up lookup tells a missing message apart from one
// that was answered first by someone else.
func (s *PostgresStore) AnswerMessage(ctx context.Context, messageID id.MessageID, answer *models.Answer) (*models.Message, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`UPDATE messages SET answer_id = $2, answer_content = $3, answered_at = $4
		 WHERE id = $1 AND answer_id IS NULL
		 RETURNING `+messageColumns,
		uuid.UUID(messageID),
		uuid.UUID(answer.ID),
		answer.Content,
		answer.AnsweredAt,
	)
	m, err := scanMessage(row)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("answer message: %w", dErrors.WrapKind(models.ErrAnswerFailed, err))
	}

	var exists bool
	if err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM messages WHERE id = $1)`,
		uuid.UUID(messageID),
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("answer message: %w", err)
	}
	if !exists {
		return nil, models.ErrMessageNotFound
	}
	return nil, models.ErrAlreadyAnswered
}

func (s *PostgresStore) query(ctx context.Context, op, query string, args ...any) ([]*models.Message, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	messages := make([]*models.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return messages, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(row scanner) (*models.Message, error) {
	var (
		m             models.Message
		messageID     uuid.UUID
		sender        uuid.UUID
		receiver      uuid.UUID
		contactID     uuid.NullUUID
		answerID      uuid.NullUUID
		answerContent sql.NullString
		answeredAt    sql.NullTime
	)
	err := row.Scan(&messageID, &sender, &receiver, &contactID, &m.Content, &m.IsAnonymous, &m.SentAt,
		&answerID, &answerContent, &answeredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan message: %w", err)
	}

	m.ID = id.MessageID(messageID)
	m.SenderID = id.UserID(sender)
	m.ReceiverID = id.UserID(receiver)
	m.SentAt = m.SentAt.UTC()
	if contactID.Valid {
		c := id.ContactID(contactID.UUID)
		m.ContactID = &c
	}
	if answerID.Valid {
		m.Answer = &models.Answer{
			ID:         id.AnswerID(answerID.UUID),
			MessageID:  m.ID,
			Content:    answerContent.String,
			AnsweredAt: answeredAt.Time.UTC(),
		}
	}
	return &m, nil
}
