// Package outbox moves audit events from the audit_outbox table to Kafka.
package outbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "anonmsg/pkg/platform/audit"
	txcontext "anonmsg/pkg/platform/tx"
)

// Producer is the subset of *kgo.Client the relay needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Relay publishes unpublished outbox rows in batches. Rows are locked with
// FOR UPDATE SKIP LOCKED so several relays can run side by side; a row is
// marked published only after Kafka acknowledged it.
type Relay struct {
	db          *sql.DB
	producer    Producer
	topicPrefix string
	batchSize   int
	logger      *slog.Logger
	now         func() time.Time
}

type Option func(*Relay)

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Relay) {
		r.now = now
	}
}

func NewRelay(db *sql.DB, producer Producer, topicPrefix string, opts ...Option) *Relay {
	r := &Relay{
		db:          db,
		producer:    producer,
		topicPrefix: topicPrefix,
		batchSize:   100,
		logger:      slog.New(slog.DiscardHandler),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Topic returns the Kafka topic for a category.
func Topic(prefix string, category audit.EventCategory) string {
	return prefix + "." + string(category)
}

type row struct {
	id          string
	aggregateID string
	eventType   string
	category    string
	payload     []byte
}

// RelayBatch publishes up to one batch and returns how many rows it marked.
func (r *Relay) RelayBatch(ctx context.Context) (int, error) {
	var published int
	err := txcontext.Run(ctx, r.db, func(ctx context.Context) error {
		tx, _ := txcontext.From(ctx)

		rows, err := r.claim(ctx, tx)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		records := make([]*kgo.Record, 0, len(rows))
		ids := make([]string, 0, len(rows))
		for _, row := range rows {
			records = append(records, &kgo.Record{
				Topic: Topic(r.topicPrefix, audit.EventCategory(row.category)),
				Key:   []byte(row.aggregateID),
				Value: row.payload,
				Headers: []kgo.RecordHeader{
					{Key: "event_type", Value: []byte(row.eventType)},
				},
			})
			ids = append(ids, row.id)
		}

		if err := r.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
			return fmt.Errorf("produce audit batch: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE audit_outbox SET published_at = $1 WHERE id = ANY($2::uuid[])`,
			r.now(), pq.Array(ids))
		if err != nil {
			return fmt.Errorf("mark outbox published: %w", err)
		}
		published = len(rows)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if published > 0 {
		r.logger.DebugContext(ctx, "relayed audit events", "count", published)
	}
	return published, nil
}

func (r *Relay) claim(ctx context.Context, tx *sql.Tx) ([]row, error) {
	query := `
		SELECT id, aggregate_id, event_type, category, payload
		FROM audit_outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`
	rs, err := tx.QueryContext(ctx, query, r.batchSize)
	if err != nil {
		return nil, fmt.Errorf("select outbox batch: %w", err)
	}
	defer rs.Close()

	var out []row
	for rs.Next() {
		var rw row
		if err := rs.Scan(&rw.id, &rw.aggregateID, &rw.eventType, &rw.category, &rw.payload); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		out = append(out, rw)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox rows: %w", err)
	}
	return out, nil
}

// EnsureTopics creates one topic per audit category, ignoring topics that
// already exist.
func EnsureTopics(ctx context.Context, admin *kadm.Client, prefix string, partitions int32, replication int16) error {
	topics := []string{
		Topic(prefix, audit.CategoryAccount),
		Topic(prefix, audit.CategorySecurity),
		Topic(prefix, audit.CategoryActivity),
	}
	resp, err := admin.CreateTopics(ctx, partitions, replication, nil, topics...)
	if err != nil {
		return fmt.Errorf("create audit topics: %w", err)
	}
	for _, t := range resp.Sorted() {
		if t.Err != nil && !errors.Is(t.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", t.Topic, t.Err)
		}
	}
	return nil
}
