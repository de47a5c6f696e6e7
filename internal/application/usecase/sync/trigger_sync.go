// Package sync mirrors the external accounting administration into the
// local document store through a small poll-based task queue.
package sync

import (
	"context"
	"fmt"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/adapter"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
	domainerror "github.com/bartlangelaan/slicing-pie-sub000/internal/domain/error"
)

// TriggerSyncInput represents the input for triggering a synchronization.
type TriggerSyncInput struct {
	// Resources to refresh. Ignored when Full is set.
	Resources []string

	// Full refreshes every mirrored resource.
	Full bool
}

// TriggerSyncUseCase enqueues synchronization tasks. The actual work happens
// in the poll worker; the trigger only appends pending queue records.
type TriggerSyncUseCase struct {
	tasks adapter.SyncTaskRepository
}

// NewTriggerSyncUseCase creates a new TriggerSyncUseCase instance.
func NewTriggerSyncUseCase(tasks adapter.SyncTaskRepository) *TriggerSyncUseCase {
	return &TriggerSyncUseCase{tasks: tasks}
}

// Execute enqueues one task per requested resource and returns the created
// tasks.
func (uc *TriggerSyncUseCase) Execute(ctx context.Context, input TriggerSyncInput) ([]*entity.SyncTask, error) {
	var resources []entity.Resource
	if input.Full {
		resources = entity.AllResources
	} else {
		for _, name := range input.Resources {
			r, err := entity.ParseResource(name)
			if err != nil {
				return nil, domainerror.NewSyncError(
					domainerror.ErrCodeUnknownResource,
					fmt.Sprintf("unknown resource %q", name),
					domainerror.ErrUnknownResource,
				)
			}
			resources = append(resources, r)
		}
	}

	if len(resources) == 0 {
		return nil, domainerror.NewSyncError(
			domainerror.ErrCodeUnknownResource,
			"no resources requested",
			domainerror.ErrUnknownResource,
		)
	}

	created := make([]*entity.SyncTask, 0, len(resources))
	for _, r := range resources {
		task := entity.NewSyncTask(r)
		if err := uc.tasks.Create(ctx, task); err != nil {
			return nil, domainerror.NewSyncError(
				domainerror.ErrCodeSyncInternalError,
				"failed to enqueue sync task",
				err,
			)
		}
		created = append(created, task)
	}

	return created, nil
}
