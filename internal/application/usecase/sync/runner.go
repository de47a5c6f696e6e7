package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/adapter"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
	domainerror "github.com/bartlangelaan/slicing-pie-sub000/internal/domain/error"
)

// Runner executes claimed synchronization tasks: fetch every page of a
// resource from the accounting API, replace the local mirror under a new
// sync version, and finish the task.
type Runner struct {
	tasks   adapter.SyncTaskRepository
	gateway adapter.AccountingGateway
	writer  adapter.RecordWriter
}

// NewRunner creates a new Runner instance.
func NewRunner(
	tasks adapter.SyncTaskRepository,
	gateway adapter.AccountingGateway,
	writer adapter.RecordWriter,
) *Runner {
	return &Runner{tasks: tasks, gateway: gateway, writer: writer}
}

// RunPending claims and runs one pending task. It reports whether a task was
// claimed. On failure the error is recorded on the task and the task stays
// in the running state: there is no retry, the next trigger enqueues fresh
// work instead.
func (r *Runner) RunPending(ctx context.Context) (bool, error) {
	task, err := r.tasks.ClaimPending(ctx)
	if err != nil {
		if errors.Is(err, domainerror.ErrNoPendingTasks) {
			return false, nil
		}
		return false, fmt.Errorf("failed to claim sync task: %w", err)
	}

	slog.Info("Running sync task", "task_id", task.ID, "resources", task.Resources)

	for _, resource := range task.Resources {
		docs, err := r.gateway.FetchAll(ctx, resource)
		if err != nil {
			r.recordFailure(ctx, task.ID, resource, err)
			return true, domainerror.NewSyncError(
				domainerror.ErrCodeUpstreamFailure,
				fmt.Sprintf("failed to fetch %s", resource),
				err,
			)
		}

		if err := r.writer.ReplaceAll(ctx, resource, docs); err != nil {
			r.recordFailure(ctx, task.ID, resource, err)
			return true, domainerror.NewSyncError(
				domainerror.ErrCodeSyncInternalError,
				fmt.Sprintf("failed to store %s", resource),
				err,
			)
		}

		slog.Info("Resource mirrored", "resource", resource, "documents", len(docs))
	}

	if err := r.tasks.MarkDone(ctx, task.ID); err != nil {
		return true, fmt.Errorf("failed to finish sync task: %w", err)
	}

	return true, nil
}

func (r *Runner) recordFailure(ctx context.Context, id uuid.UUID, resource entity.Resource, cause error) {
	message := fmt.Sprintf("%s: %s", resource, cause)
	if err := r.tasks.RecordError(ctx, id, message); err != nil {
		slog.Error("Failed to record sync task error", "task_id", id, "error", err)
	}
	slog.Error("Sync task failed", "task_id", id, "resource", resource, "error", cause)
}
