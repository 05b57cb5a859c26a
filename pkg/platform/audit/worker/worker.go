package worker

import (
	"context"
	"log/slog"
	"time"
)

// Relayer publishes one batch of pending audit events.
type Relayer interface {
	RelayBatch(ctx context.Context) (int, error)
}

// Worker drives a Relayer on a fixed interval. A full batch is followed
// immediately by another attempt so a backlog drains without waiting.
type Worker struct {
	relay     Relayer
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

func NewWorker(relay Relayer, interval time.Duration, batchSize int, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Worker{relay: relay, interval: interval, batchSize: batchSize, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		w.drain(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *Worker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		n, err := w.relay.RelayBatch(ctx)
		if err != nil {
			w.logger.ErrorContext(ctx, "audit relay failed", "error", err)
			return
		}
		if n < w.batchSize {
			return
		}
	}
}
