package sync

import (
	"context"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/adapter"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
	domainerror "github.com/bartlangelaan/slicing-pie-sub000/internal/domain/error"
)

// DefaultTaskListLimit bounds the queue inspection endpoint.
const DefaultTaskListLimit = 50

// ListTasksUseCase exposes the task queue for inspection.
type ListTasksUseCase struct {
	tasks adapter.SyncTaskRepository
}

// NewListTasksUseCase creates a new ListTasksUseCase instance.
func NewListTasksUseCase(tasks adapter.SyncTaskRepository) *ListTasksUseCase {
	return &ListTasksUseCase{tasks: tasks}
}

// Execute returns the most recent tasks, newest first.
func (uc *ListTasksUseCase) Execute(ctx context.Context, limit int) ([]*entity.SyncTask, error) {
	if limit <= 0 || limit > DefaultTaskListLimit {
		limit = DefaultTaskListLimit
	}

	tasks, err := uc.tasks.List(ctx, limit)
	if err != nil {
		return nil, domainerror.NewSyncError(
			domainerror.ErrCodeSyncInternalError,
			"failed to list sync tasks",
			err,
		)
	}
	return tasks, nil
}
