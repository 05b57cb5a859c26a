// Command worker relays audit events from the Postgres outbox to Kafka and
// serves Prometheus metrics.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"anonmsg/internal/platform/config"
	"anonmsg/internal/platform/httpserver"
	"anonmsg/internal/platform/logger"
	"anonmsg/internal/platform/postgres"
	"anonmsg/pkg/platform/audit/outbox"
	"anonmsg/pkg/platform/audit/worker"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	if !cfg.UsesPostgres() || len(cfg.Kafka.Brokers) == 0 {
		log.Error("worker needs postgres.dsn and kafka.brokers")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		log.Error("failed to open postgres", logger.Err(err))
		os.Exit(1)
	}
	defer db.Close()

	kafka, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Kafka.Brokers...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		log.Error("failed to create kafka client", logger.Err(err))
		os.Exit(1)
	}
	defer kafka.Close()

	if err := outbox.EnsureTopics(ctx, kadm.NewClient(kafka), cfg.Kafka.TopicPrefix, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor); err != nil {
		log.Error("failed to ensure audit topics", logger.Err(err))
		os.Exit(1)
	}

	relay := outbox.NewRelay(db, kafka, cfg.Kafka.TopicPrefix,
		outbox.WithBatchSize(cfg.Kafka.RelayBatchSize),
		outbox.WithLogger(log),
	)
	relayWorker := worker.NewWorker(relay, cfg.Kafka.RelayInterval, cfg.Kafka.RelayBatchSize, log)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := httpserver.New(cfg.Metrics.Addr, mux)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := relayWorker.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		log.Info("serving metrics", "addr", cfg.Metrics.Addr)
		return httpserver.Serve(gctx, srv)
	})

	if err := g.Wait(); err != nil {
		log.Error("worker stopped", logger.Err(err))
		os.Exit(1)
	}
	log.Info("worker stopped")
}
