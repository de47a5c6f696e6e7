package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/adapter"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
	domainerror "github.com/bartlangelaan/slicing-pie-sub000/internal/domain/error"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/integration/persistence/model"
)

// syncTaskRepository implements the adapter.SyncTaskRepository interface.
type syncTaskRepository struct {
	db *gorm.DB
}

// NewSyncTaskRepository creates a new sync task repository instance.
func NewSyncTaskRepository(db *gorm.DB) adapter.SyncTaskRepository {
	return &syncTaskRepository{
		db: db,
	}
}

// Create adds a new pending task to the queue.
func (r *syncTaskRepository) Create(ctx context.Context, task *entity.SyncTask) error {
	taskModel := model.SyncTaskFromEntity(task)
	result := r.db.WithContext(ctx).Create(taskModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// ClaimPending moves the oldest pending task to running and returns it. The
// conditional update keeps the claim atomic; the queue has a single consumer.
func (r *syncTaskRepository) ClaimPending(ctx context.Context) (*entity.SyncTask, error) {
	var claimed *entity.SyncTask

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taskModel model.SyncTaskModel
		result := tx.
			Where("status = ?", string(entity.SyncTaskPending)).
			Order("created_at ASC").
			First(&taskModel)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return domainerror.ErrNoPendingTasks
			}
			return result.Error
		}

		now := time.Now().UTC()
		update := tx.Model(&model.SyncTaskModel{}).
			Where("id = ? AND status = ?", taskModel.ID, string(entity.SyncTaskPending)).
			Updates(map[string]interface{}{
				"status":     string(entity.SyncTaskRunning),
				"started_at": now,
			})
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return domainerror.ErrNoPendingTasks
		}

		taskModel.Status = string(entity.SyncTaskRunning)
		taskModel.StartedAt = &now
		claimed = taskModel.ToEntity()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return claimed, nil
}

// MarkDone finishes a task.
func (r *syncTaskRepository) MarkDone(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&model.SyncTaskModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      string(entity.SyncTaskDone),
			"finished_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTaskNotFound
	}
	return nil
}

// RecordError stores a failure message on a task. The status is left
// untouched: a failed task stays running and is never reclaimed.
func (r *syncTaskRepository) RecordError(ctx context.Context, id uuid.UUID, message string) error {
	result := r.db.WithContext(ctx).
		Model(&model.SyncTaskModel{}).
		Where("id = ?", id).
		Update("last_error", message)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTaskNotFound
	}
	return nil
}

// List returns the queue, newest first.
func (r *syncTaskRepository) List(ctx context.Context, limit int) ([]*entity.SyncTask, error) {
	var models []model.SyncTaskModel
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	tasks := make([]*entity.SyncTask, len(models))
	for i, m := range models {
		tasks[i] = m.ToEntity()
	}
	return tasks, nil
}
