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

	"anonmsg/internal/contact/models"
	"anonmsg/internal/contact/store"
	id "anonmsg/pkg/domain"
	"anonmsg/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	owner    id.UserID
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

	s.owner = id.NewUserID()
	_, err := s.postgres.DB.ExecContext(ctx,
		`INSERT INTO users (id, username, email, link_token, created_at) VALUES ($1, $2, $3, $4, $5)`,
		uuid.UUID(s.owner), "owner", uuid.NewString()+"@example.com", uuid.NewString(), time.Now())
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) newContact(name string, registered time.Time) *models.Contact {
	return &models.Contact{
		ID:           id.NewContactID(),
		OwnerUserID:  s.owner,
		Name:         name,
		RegisteredAt: registered.UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	c := s.newContact("Mina", time.Now())
	c.Relationship = "friend"

	_, err := s.store.AddContact(ctx, c)
	s.Require().NoError(err)

	got, err := s.store.FetchContact(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(c, got)
}

func (s *PostgresStoreSuite) TestFetchContactsNewestFirst() {
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"a", "b", "c"} {
		_, err := s.store.AddContact(ctx, s.newContact(name, base.Add(time.Duration(i)*time.Minute)))
		s.Require().NoError(err)
	}

	got, err := s.store.FetchContacts(ctx, s.owner)
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Equal("c", got[0].Name)
	s.Equal("a", got[2].Name)
}

// TestConcurrentDuplicateName verifies the unique index lets exactly one
// concurrent insert of the same name through.
func (s *PostgresStoreSuite) TestConcurrentDuplicateName() {
	ctx := context.Background()
	const goroutines = 20

	var wg sync.WaitGroup
	var successes, duplicates atomic.Int32
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.AddContact(ctx, s.newContact("Mina", time.Now()))
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, models.ErrDuplicateName):
				duplicates.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successes.Load())
	s.Equal(int32(goroutines-1), duplicates.Load())
}

func (s *PostgresStoreSuite) TestUpdateAndDelete() {
	ctx := context.Background()
	c := s.newContact("Mina", time.Now())
	_, err := s.store.AddContact(ctx, c)
	s.Require().NoError(err)

	update := *c
	update.Name = "Mina Kim"
	update.Memo = "work"
	got, err := s.store.UpdateContact(ctx, &update)
	s.Require().NoError(err)
	s.Equal("Mina Kim", got.Name)
	s.Equal(c.RegisteredAt, got.RegisteredAt)

	s.Require().NoError(s.store.DeleteContact(ctx, c.ID))
	_, err = s.store.FetchContact(ctx, c.ID)
	s.ErrorIs(err, models.ErrContactNotFound)
}
