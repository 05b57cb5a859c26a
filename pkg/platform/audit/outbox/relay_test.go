package outbox

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "anonmsg/pkg/platform/audit"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (p *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	p.records = append(p.records, rs...)
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		results = append(results, kgo.ProduceResult{Record: r, Err: p.err})
	}
	return results
}

type RelaySuite struct {
	suite.Suite
	mock     sqlmock.Sqlmock
	producer *fakeProducer
	relay    *Relay
	now      time.Time
}

func TestRelaySuite(t *testing.T) {
	suite.Run(t, new(RelaySuite))
}

func (s *RelaySuite) SetupTest() {
	db, mock, err := sqlmock.New()
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = db.Close() })

	s.mock = mock
	s.producer = &fakeProducer{}
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.relay = NewRelay(db, s.producer, "anonmsg.audit",
		WithBatchSize(10),
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *RelaySuite) outboxRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "aggregate_id", "event_type", "category", "payload"}).
		AddRow("7f3d6c1e-0000-4000-8000-000000000001", "user-1", string(audit.EventMessageSent), string(audit.CategoryActivity), []byte(`{"action":"message_sent"}`)).
		AddRow("7f3d6c1e-0000-4000-8000-000000000002", "user-2", string(audit.EventUserLoggedIn), string(audit.CategorySecurity), []byte(`{"action":"user_logged_in"}`))
}

func (s *RelaySuite) TestRelayBatch() {
	s.Run("publishes and marks rows", func() {
		s.mock.ExpectBegin()
		s.mock.ExpectQuery(regexp.QuoteMeta("FROM audit_outbox")).
			WithArgs(10).
			WillReturnRows(s.outboxRows())
		s.mock.ExpectExec(regexp.QuoteMeta("UPDATE audit_outbox SET published_at")).
			WithArgs(s.now, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 2))
		s.mock.ExpectCommit()

		n, err := s.relay.RelayBatch(context.Background())
		s.Require().NoError(err)
		s.Equal(2, n)
		s.Require().Len(s.producer.records, 2)
		s.Equal("anonmsg.audit.activity", s.producer.records[0].Topic)
		s.Equal("anonmsg.audit.security", s.producer.records[1].Topic)
		s.Equal([]byte("user-1"), s.producer.records[0].Key)
		s.Require().NoError(s.mock.ExpectationsWereMet())
	})
}

func (s *RelaySuite) TestRelayBatch_Empty() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM audit_outbox")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "aggregate_id", "event_type", "category", "payload"}))
	s.mock.ExpectCommit()

	n, err := s.relay.RelayBatch(context.Background())
	s.Require().NoError(err)
	s.Zero(n)
	s.Empty(s.producer.records)
	s.Require().NoError(s.mock.ExpectationsWereMet())
}

func (s *RelaySuite) TestRelayBatch_ProduceFailureRollsBack() {
	s.producer.err = errors.New("broker down")
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM audit_outbox")).
		WillReturnRows(s.outboxRows())
	s.mock.ExpectRollback()

	n, err := s.relay.RelayBatch(context.Background())
	s.Require().Error(err)
	s.Contains(err.Error(), "broker down")
	s.Zero(n)
	s.Require().NoError(s.mock.ExpectationsWereMet())
}

func (s *RelaySuite) TestTopic() {
	s.Equal("p.account", Topic("p", audit.CategoryAccount))
}
