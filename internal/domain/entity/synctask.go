package entity

import (
	"time"

	"github.com/google/uuid"
)

// SyncTaskStatus is the lifecycle state of a synchronization task.
type SyncTaskStatus string

const (
	SyncTaskPending SyncTaskStatus = "pending"
	SyncTaskRunning SyncTaskStatus = "running"
	SyncTaskDone    SyncTaskStatus = "done"
)

// SyncTask is one unit of mirror work: refresh one or more resources. Tasks
// are claimed one at a time by the poll worker. A task that fails stays in
// the running state with its error recorded; there is no retry and no
// reclaim.
type SyncTask struct {
	ID         uuid.UUID
	Resources  []Resource
	Status     SyncTaskStatus
	Error      string
	CreatedAt  time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time
}

// NewSyncTask creates a pending task for the given resources.
func NewSyncTask(resources ...Resource) *SyncTask {
	return &SyncTask{
		ID:        uuid.New(),
		Resources: resources,
		Status:    SyncTaskPending,
		CreatedAt: time.Now().UTC(),
	}
}
