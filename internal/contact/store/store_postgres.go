package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"anonmsg/internal/contact/models"
	"anonmsg/internal/platform/postgres"
	id "anonmsg/pkg/domain"
	dErrors "anonmsg/pkg/domain-errors"
	txcontext "anonmsg/pkg/platform/tx"
)

const contactColumns = `id, owner_user_id, name, relationship, memo, registered_at`

// PostgresStore persists contacts in PostgreSQL. The
// contacts_owner_name_key constraint backs the duplicate-name rule.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed contact store.
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

func (s *PostgresStore) FetchContacts(ctx context.Context, ownerID id.UserID) ([]*models.Contact, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE owner_user_id = $1 ORDER BY registered_at DESC`,
		uuid.UUID(ownerID),
	)
	if err != nil {
		return nil, fmt.Errorf("fetch contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]*models.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

func (s *PostgresStore) FetchContact(ctx context.Context, contactID id.ContactID) (*models.Contact, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1`,
		uuid.UUID(contactID),
	)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrContactNotFound
	}
	return c, err
}

func (s *PostgresStore) AddContact(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO contacts (`+contactColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(contact.ID),
		uuid.UUID(contact.OwnerUserID),
		contact.Name,
		contact.Relationship,
		contact.Memo,
		contact.RegisteredAt,
	)
	if err != nil {
		return nil, translateWriteErr("add contact", err)
	}
	saved := *contact
	return &saved, nil
}

func (s *PostgresStore) DeleteContact(ctx context.Context, contactID id.ContactID) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, uuid.UUID(contactID))
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return requireRow(res, "delete contact")
}

// UpdateContact writes the mutable fields and returns the stored row.
func (s *PostgresStore) UpdateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`UPDATE contacts SET name = $2, relationship = $3, memo = $4
		 WHERE id = $1
		 RETURNING `+contactColumns,
		uuid.UUID(contact.ID),
		contact.Name,
		contact.Relationship,
		contact.Memo,
	)
	updated, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrContactNotFound
	}
	if _, ok := postgres.UniqueViolation(err); ok {
		return nil, models.ErrDuplicateName
	}
	if err != nil {
		return nil, fmt.Errorf("update contact: %w", dErrors.WrapKind(models.ErrUpdateFailed, err))
	}
	return updated, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContact(row scanner) (*models.Contact, error) {
	var (
		c       models.Contact
		contact uuid.UUID
		owner   uuid.UUID
	)
	err := row.Scan(&contact, &owner, &c.Name, &c.Relationship, &c.Memo, &c.RegisteredAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan contact: %w", err)
	}
	c.ID = id.ContactID(contact)
	c.OwnerUserID = id.UserID(owner)
	c.RegisteredAt = c.RegisteredAt.UTC()
	return &c, nil
}

func translateWriteErr(op string, err error) error {
	if _, ok := postgres.UniqueViolation(err); ok {
		return models.ErrDuplicateName
	}
	return fmt.Errorf("%s: %w", op, err)
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return models.ErrContactNotFound
	}
	return nil
}
