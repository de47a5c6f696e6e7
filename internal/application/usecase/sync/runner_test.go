package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/bartlangelaan/slicing-pie-sub000/internal/application/adapter"
	"github.com/bartlangelaan/slicing-pie-sub000/internal/domain/entity"
	domainerror "github.com/bartlangelaan/slicing-pie-sub000/internal/domain/error"
)

// memoryTaskRepo is an in-memory SyncTaskRepository.
type memoryTaskRepo struct {
	tasks []*entity.SyncTask
}

func (r *memoryTaskRepo) Create(ctx context.Context, task *entity.SyncTask) error {
	r.tasks = append(r.tasks, task)
	return nil
}

func (r *memoryTaskRepo) ClaimPending(ctx context.Context) (*entity.SyncTask, error) {
	for _, t := range r.tasks {
		if t.Status == entity.SyncTaskPending {
			t.Status = entity.SyncTaskRunning
			return t, nil
		}
	}
	return nil, domainerror.ErrNoPendingTasks
}

func (r *memoryTaskRepo) MarkDone(ctx context.Context, id uuid.UUID) error {
	for _, t := range r.tasks {
		if t.ID == id {
			t.Status = entity.SyncTaskDone
			return nil
		}
	}
	return domainerror.ErrTaskNotFound
}

func (r *memoryTaskRepo) RecordError(ctx context.Context, id uuid.UUID, message string) error {
	for _, t := range r.tasks {
		if t.ID == id {
			t.Error = message
			return nil
		}
	}
	return domainerror.ErrTaskNotFound
}

func (r *memoryTaskRepo) List(ctx context.Context, limit int) ([]*entity.SyncTask, error) {
	if len(r.tasks) > limit {
		return r.tasks[:limit], nil
	}
	return r.tasks, nil
}

// fakeGateway serves canned documents per resource.
type fakeGateway struct {
	docs map[entity.Resource][]adapter.StoredDocument
	errs map[entity.Resource]error
}

func (g *fakeGateway) FetchAll(ctx context.Context, resource entity.Resource) ([]adapter.StoredDocument, error) {
	if err := g.errs[resource]; err != nil {
		return nil, err
	}
	return g.docs[resource], nil
}

// fakeWriter records ReplaceAll calls.
type fakeWriter struct {
	replaced map[entity.Resource]int
	err      error
}

func (w *fakeWriter) ReplaceAll(ctx context.Context, resource entity.Resource, docs []adapter.StoredDocument) error {
	if w.err != nil {
		return w.err
	}
	if w.replaced == nil {
		w.replaced = make(map[entity.Resource]int)
	}
	w.replaced[resource] = len(docs)
	return nil
}

func TestTriggerSync(t *testing.T) {
	t.Run("full enqueues every resource", func(t *testing.T) {
		repo := &memoryTaskRepo{}
		uc := NewTriggerSyncUseCase(repo)

		created, err := uc.Execute(context.Background(), TriggerSyncInput{Full: true})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(created) != len(entity.AllResources) {
			t.Errorf("created %d tasks, want %d", len(created), len(entity.AllResources))
		}
	})

	t.Run("named resources enqueue one task each", func(t *testing.T) {
		repo := &memoryTaskRepo{}
		uc := NewTriggerSyncUseCase(repo)

		created, err := uc.Execute(context.Background(), TriggerSyncInput{
			Resources: []string{"contacts", "time_entries"},
		})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(created) != 2 {
			t.Fatalf("created %d tasks, want 2", len(created))
		}
		if created[0].Status != entity.SyncTaskPending {
			t.Errorf("task status = %s, want pending", created[0].Status)
		}
	})

	t.Run("unknown resource is rejected", func(t *testing.T) {
		uc := NewTriggerSyncUseCase(&memoryTaskRepo{})
		_, err := uc.Execute(context.Background(), TriggerSyncInput{Resources: []string{"nope"}})
		if err == nil {
			t.Fatal("Execute() error = nil, want unknown-resource error")
		}
		var syncErr *domainerror.SyncError
		if !errors.As(err, &syncErr) || syncErr.Code != domainerror.ErrCodeUnknownResource {
			t.Errorf("error = %v, want code %s", err, domainerror.ErrCodeUnknownResource)
		}
	})
}

func TestRunnerRunPending(t *testing.T) {
	t.Run("empty queue claims nothing", func(t *testing.T) {
		runner := NewRunner(&memoryTaskRepo{}, &fakeGateway{}, &fakeWriter{})
		claimed, err := runner.RunPending(context.Background())
		if err != nil {
			t.Fatalf("RunPending() error = %v", err)
		}
		if claimed {
			t.Error("claimed = true on empty queue")
		}
	})

	t.Run("successful run mirrors the resource and finishes the task", func(t *testing.T) {
		repo := &memoryTaskRepo{}
		task := entity.NewSyncTask(entity.ResourceContacts)
		_ = repo.Create(context.Background(), task)

		gateway := &fakeGateway{docs: map[entity.Resource][]adapter.StoredDocument{
			entity.ResourceContacts: {{ExternalID: "1"}, {ExternalID: "2"}},
		}}
		writer := &fakeWriter{}
		runner := NewRunner(repo, gateway, writer)

		claimed, err := runner.RunPending(context.Background())
		if err != nil {
			t.Fatalf("RunPending() error = %v", err)
		}
		if !claimed {
			t.Fatal("claimed = false, want true")
		}
		if writer.replaced[entity.ResourceContacts] != 2 {
			t.Errorf("replaced %d documents, want 2", writer.replaced[entity.ResourceContacts])
		}
		if task.Status != entity.SyncTaskDone {
			t.Errorf("task status = %s, want done", task.Status)
		}
	})

	t.Run("upstream failure leaves the task running with its error", func(t *testing.T) {
		repo := &memoryTaskRepo{}
		task := entity.NewSyncTask(entity.ResourceContacts)
		_ = repo.Create(context.Background(), task)

		gateway := &fakeGateway{errs: map[entity.Resource]error{
			entity.ResourceContacts: errors.New("upstream 502"),
		}}
		runner := NewRunner(repo, gateway, &fakeWriter{})

		claimed, err := runner.RunPending(context.Background())
		if !claimed {
			t.Fatal("claimed = false, want true")
		}
		if err == nil {
			t.Fatal("RunPending() error = nil, want upstream failure")
		}
		if task.Status != entity.SyncTaskRunning {
			t.Errorf("task status = %s, want running (never reclaimed)", task.Status)
		}
		if task.Error == "" {
			t.Error("task error not recorded")
		}
	})
}
