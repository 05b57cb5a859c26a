package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"anonmsg/internal/platform/postgres"
	"anonmsg/internal/user/models"
	id "anonmsg/pkg/domain"
	dErrors "anonmsg/pkg/domain-errors"
	"anonmsg/pkg/platform/sentinel"
	txcontext "anonmsg/pkg/platform/tx"
	"anonmsg/pkg/requestcontext"
)

const userColumns = `id, username, email, profile_image_url, link_token, created_at`

// PostgresStore persists users. Emails are matched exactly; callers
// normalise them before writing.
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

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(user.ID),
		user.Username,
		user.Email,
		user.ProfileImageURL,
		user.PersonalLink.Token,
		user.CreatedAt,
	)
	if err != nil {
		if constraint, ok := postgres.UniqueViolation(err); ok {
			return nil, fmt.Errorf("create user: %s: %w", constraint, sentinel.ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	saved := *user
	return &saved, nil
}

func (s *PostgresStore) FetchCurrentUser(ctx context.Context) (*models.User, error) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		return nil, models.ErrUserNotFound
	}
	return s.FetchUser(ctx, userID)
}

func (s *PostgresStore) FetchUser(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.fetchOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, uuid.UUID(userID))
}

func (s *PostgresStore) FetchUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.fetchOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *PostgresStore) FetchUserByPersonalLink(ctx context.Context, token string) (*models.User, error) {
	return s.fetchOne(ctx, `SELECT `+userColumns+` FROM users WHERE link_token = $1`, token)
}

// UpdateUser writes username and image; identity columns are left alone.
func (s *PostgresStore) UpdateUser(ctx context.Context, user *models.User) (*models.User, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`UPDATE users SET username = $2, profile_image_url = $3
		 WHERE id = $1
		 RETURNING `+userColumns,
		uuid.UUID(user.ID),
		user.Username,
		user.ProfileImageURL,
	)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", dErrors.WrapKind(models.ErrUpdateFailed, err))
	}
	return u, nil
}

func (s *PostgresStore) fetchOne(ctx context.Context, query string, arg any) (*models.User, error) {
	u, err := scanUser(s.execer(ctx).QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	return u, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	var (
		u      models.User
		userID uuid.UUID
		token  string
	)
	err := row.Scan(&userID, &u.Username, &u.Email, &u.ProfileImageURL, &token, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.ID = id.UserID(userID)
	u.PersonalLink = models.PersonalLink{UserID: u.ID, Token: token}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
