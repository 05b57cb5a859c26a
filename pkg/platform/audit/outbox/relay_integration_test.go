//go:build integration

package outbox_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	id "anonmsg/pkg/domain"
	audit "anonmsg/pkg/platform/audit"
	"anonmsg/pkg/platform/audit/outbox"
	auditpostgres "anonmsg/pkg/platform/audit/store/postgres"
	"anonmsg/pkg/testutil/containers"
)

const topicPrefix = "anonmsg.audit.it"

type RelayIntegrationSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	broker   string
	client   *kgo.Client
	store    *auditpostgres.Store
	relay    *outbox.Relay
}

func TestRelayIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RelayIntegrationSuite))
}

func (s *RelayIntegrationSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.broker = mgr.GetRedpanda(s.T()).Broker

	client, err := kgo.NewClient(kgo.SeedBrokers(s.broker))
	s.Require().NoError(err)
	s.client = client

	ctx := context.Background()
	s.Require().NoError(outbox.EnsureTopics(ctx, kadm.NewClient(client), topicPrefix, 1, 1))
	// A second call finds the topics already present.
	s.Require().NoError(outbox.EnsureTopics(ctx, kadm.NewClient(client), topicPrefix, 1, 1))

	s.store = auditpostgres.New(s.postgres.DB)
	s.relay = outbox.NewRelay(s.postgres.DB, client, topicPrefix, outbox.WithBatchSize(10))
}

func (s *RelayIntegrationSuite) TearDownSuite() {
	if s.client != nil {
		s.client.Close()
	}
}

func (s *RelayIntegrationSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "audit_outbox"))
}

func (s *RelayIntegrationSuite) TestRelaysPendingEventsOnce() {
	ctx := context.Background()
	userID := id.NewUserID()

	s.Require().NoError(s.store.Append(ctx, audit.Event{
		UserID:    userID,
		Subject:   userID.String(),
		Action:    string(audit.EventMessageSent),
		Timestamp: time.Now(),
	}))

	n, err := s.relay.RelayBatch(ctx)
	s.Require().NoError(err)
	s.Equal(1, n)

	n, err = s.relay.RelayBatch(ctx)
	s.Require().NoError(err)
	s.Zero(n, "published rows are not relayed again")

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.broker),
		kgo.ConsumeTopics(outbox.Topic(topicPrefix, audit.CategoryActivity)),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	pollCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(pollCtx)
	s.Require().Empty(fetches.Errors())

	var values [][]byte
	fetches.EachRecord(func(r *kgo.Record) {
		values = append(values, r.Value)
	})
	s.Require().NotEmpty(values)
	s.Contains(string(values[len(values)-1]), string(audit.EventMessageSent))
}
