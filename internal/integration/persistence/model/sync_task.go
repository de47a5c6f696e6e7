package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
)

// SyncTaskModel represents the sync_tasks table in the database.
type SyncTaskModel struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Resources  pq.StringArray `gorm:"type:text[];not null"`
	Status     string         `gorm:"type:varchar(10);not null;index"`
	LastError  string         `gorm:"type:text"`
	CreatedAt  time.Time      `gorm:"not null;index"`
	StartedAt  *time.Time     `gorm:"type:timestamp"`
	FinishedAt *time.Time     `gorm:"type:timestamp"`
}

// TableName returns the table name for the SyncTaskModel.
func (SyncTaskModel) TableName() string {
	return "sync_tasks"
}

// ToEntity converts a SyncTaskModel to a domain SyncTask entity.
func (m *SyncTaskModel) ToEntity() *entity.SyncTask {
	resources := make([]entity.Resource, len(m.Resources))
	for i, r := range m.Resources {
		resources[i] = entity.Resource(r)
	}

	return &entity.SyncTask{
		ID:         m.ID,
		Resources:  resources,
		Status:     entity.SyncTaskStatus(m.Status),
		Error:      m.LastError,
		CreatedAt:  m.CreatedAt,
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
	}
}

// SyncTaskFromEntity creates a SyncTaskModel from a domain SyncTask entity.
func SyncTaskFromEntity(task *entity.SyncTask) *SyncTaskModel {
	resources := make(pq.StringArray, len(task.Resources))
	for i, r := range task.Resources {
		resources[i] = string(r)
	}

	return &SyncTaskModel{
		ID:         task.ID,
		Resources:  resources,
		Status:     string(task.Status),
		LastError:  task.Error,
		CreatedAt:  task.CreatedAt,
		StartedAt:  task.StartedAt,
		FinishedAt: task.FinishedAt,
	}
}
