package sync

import (
	"context"
	"log/slog"
	"time"
)

// Worker polls the task queue and runs claimed tasks. It is the only
// claimer: the queue assumes a single consumer.
type Worker struct {
	runner       *Runner
	pollInterval time.Duration
}

// WorkerConfig holds configuration for the sync worker.
type WorkerConfig struct {
	PollInterval time.Duration
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{PollInterval: 10 * time.Second}
}

// NewWorker creates a new sync worker.
func NewWorker(runner *Runner, config WorkerConfig) *Worker {
	return &Worker{runner: runner, pollInterval: config.PollInterval}
}

// Start begins the worker loop. It blocks until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Sync worker started", "poll_interval", w.pollInterval)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	// Drain immediately on start, then on ticker.
	w.drain(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Sync worker shutting down")
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// drain runs pending tasks until the queue is empty or a task fails. A
// failed task aborts the pass; the remaining pending tasks wait for the
// next tick.
func (w *Worker) drain(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		claimed, err := w.runner.RunPending(ctx)
		if err != nil {
			slog.Error("Sync pass aborted", "error", err)
			return
		}
		if !claimed {
			return
		}
	}
}
