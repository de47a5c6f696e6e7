package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
)

// SyncTaskRepository persists the synchronization task queue.
type SyncTaskRepository interface {
	// Create adds a new pending task to the queue.
	Create(ctx context.Context, task *entity.SyncTask) error

	// ClaimPending atomically moves the oldest pending task to running and
	// returns it. Returns domain ErrNoPendingTasks when the queue is empty.
	ClaimPending(ctx context.Context) (*entity.SyncTask, error)

	// MarkDone finishes a task.
	MarkDone(ctx context.Context, id uuid.UUID) error

	// RecordError stores the failure message on a task. The task stays
	// running: a failed task is never retried or reclaimed.
	RecordError(ctx context.Context, id uuid.UUID, message string) error

	// List returns the queue, newest first.
	List(ctx context.Context, limit int) ([]*entity.SyncTask, error)
}
