package dto

import (
	"time"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
)

// TriggerSyncRequest selects which resources to refresh. An empty body with
// full=true refreshes everything.
type TriggerSyncRequest struct {
	Resources []string `json:"resources"`
	Full      bool     `json:"full"`
}

// SyncTaskResponse is one queue entry.
type SyncTaskResponse struct {
	ID         string     `json:"id"`
	Resources  []string   `json:"resources"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	StartedAt  *time.Time `json:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// ToSyncTaskResponse converts a task to its response payload.
func ToSyncTaskResponse(task *entity.SyncTask) SyncTaskResponse {
	resources := make([]string, len(task.Resources))
	for i, r := range task.Resources {
		resources[i] = string(r)
	}
	return SyncTaskResponse{
		ID:         task.ID.String(),
		Resources:  resources,
		Status:     string(task.Status),
		Error:      task.Error,
		CreatedAt:  task.CreatedAt,
		StartedAt:  task.StartedAt,
		FinishedAt: task.FinishedAt,
	}
}

// ToSyncTaskResponses converts a task list.
func ToSyncTaskResponses(tasks []*entity.SyncTask) []SyncTaskResponse {
	out := make([]SyncTaskResponse, len(tasks))
	for i, task := range tasks {
		out[i] = ToSyncTaskResponse(task)
	}
	return out
}
