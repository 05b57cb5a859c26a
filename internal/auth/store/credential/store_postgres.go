package credential

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"anonmsg/internal/auth/models"
	"anonmsg/internal/platform/postgres"
	id "anonmsg/pkg/domain"
	"anonmsg/pkg/platform/sentinel"
	txcontext "anonmsg/pkg/platform/tx"
)

// PostgresStore persists bcrypt hashes in the credentials table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, cred *models.Credential) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO credentials (user_id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		uuid.UUID(cred.UserID),
		cred.Email,
		cred.PasswordHash,
		cred.CreatedAt,
	)
	if err != nil {
		if constraint, ok := postgres.UniqueViolation(err); ok {
			return fmt.Errorf("create credential: %s: %w", constraint, sentinel.ErrConflict)
		}
		return fmt.Errorf("create credential: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Credential, error) {
	var (
		c      models.Credential
		userID uuid.UUID
	)
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT user_id, email, password_hash, created_at FROM credentials WHERE email = $1`,
		email,
	).Scan(&userID, &c.Email, &c.PasswordHash, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("credential: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find credential: %w", err)
	}
	c.UserID = id.UserID(userID)
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}
