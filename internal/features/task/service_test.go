package task

import (
	"context"
	"testing"

	"go-taskhub/internal/features/notification"
	"go-taskhub/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fakeTaskRepo struct {
	tasks map[primitive.ObjectID]*Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[primitive.ObjectID]*Task{}}
}

func (f *fakeTaskRepo) Create(ctx context.Context, t *Task) error {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	if t.Status == "" {
		t.Status = StatusPending
	}
	stored := *t
	f.tasks[t.ID] = &stored
	return nil
}

func (f *fakeTaskRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTaskRepo) Find(ctx context.Context, filter TaskFilter) ([]Task, error) {
	var out []Task
	for _, t := range f.tasks {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, id primitive.ObjectID, t *Task) error {
	stored := *t
	f.tasks[id] = &stored
	return nil
}

func (f *fakeTaskRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	t, ok := f.tasks[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	t.Status = status
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(f.tasks, id)
	return nil
}

type fakeNotifier struct {
	events []notification.Event
}

func (f *fakeNotifier) Dispatch(ctx context.Context, ev notification.Event) {
	f.events = append(f.events, ev)
}

func TestCreateTaskDispatchesAssignment(t *testing.T) {
	repo := newFakeTaskRepo()
	notifier := &fakeNotifier{}
	service := NewTaskService(repo, notifier, zap.NewNop())

	actor := notification.Actor{ID: primitive.NewObjectID(), Name: "Ada", Role: utils.RoleAdmin}
	assignee := primitive.NewObjectID()

	err := service.CreateTask(context.Background(), actor, &Task{Title: "Ship it", Assignee: &assignee})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	if len(notifier.events) != 1 {
		t.Fatalf("dispatched %d events, want 1", len(notifier.events))
	}
	ev, ok := notifier.events[0].(notification.TaskAssigned)
	if !ok {
		t.Fatalf("dispatched %T, want TaskAssigned", notifier.events[0])
	}
	if ev.Assignee != assignee {
		t.Errorf("assignee = %v, want %v", ev.Assignee, assignee)
	}
}

func TestCreateTaskUnassignedIsQuiet(t *testing.T) {
	repo := newFakeTaskRepo()
	notifier := &fakeNotifier{}
	service := NewTaskService(repo, notifier, zap.NewNop())

	actor := notification.Actor{ID: primitive.NewObjectID(), Name: "Ada", Role: utils.RoleAdmin}
	if err := service.CreateTask(context.Background(), actor, &Task{Title: "Backlog item"}); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if len(notifier.events) != 0 {
		t.Errorf("dispatched %d events, want 0", len(notifier.events))
	}
}

func TestUpdateTaskReassignmentVsEdit(t *testing.T) {
	actor := notification.Actor{ID: primitive.NewObjectID(), Name: "Ada", Role: utils.RoleAdmin}
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	tests := []struct {
		name     string
		before   *primitive.ObjectID
		after    *primitive.ObjectID
		wantType string
	}{
		{"assignee changed", &first, &second, "assigned"},
		{"assignee set", nil, &second, "assigned"},
		{"assignee kept", &first, &first, "edited"},
		{"assignee cleared", &first, nil, "edited"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeTaskRepo()
			notifier := &fakeNotifier{}
			service := NewTaskService(repo, notifier, zap.NewNop())

			existing := &Task{Title: "Ship it", Assignee: tt.before, Team: "alpha"}
			if err := service.CreateTask(context.Background(), actor, existing); err != nil {
				t.Fatalf("CreateTask() error = %v", err)
			}
			notifier.events = nil

			update := &Task{Title: "Ship it", Assignee: tt.after, Team: "alpha"}
			if err := service.UpdateTask(context.Background(), actor, existing.ID, update); err != nil {
				t.Fatalf("UpdateTask() error = %v", err)
			}

			if len(notifier.events) != 1 {
				t.Fatalf("dispatched %d events, want 1", len(notifier.events))
			}
			switch notifier.events[0].(type) {
			case notification.TaskAssigned:
				if tt.wantType != "assigned" {
					t.Errorf("got TaskAssigned, want TaskEdited")
				}
			case notification.TaskEdited:
				if tt.wantType != "edited" {
					t.Errorf("got TaskEdited, want TaskAssigned")
				}
			default:
				t.Errorf("dispatched %T", notifier.events[0])
			}
		})
	}
}

func TestUpdateStatusDispatchRules(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		wantSent bool
	}{
		{"employee change flows upward", utils.RoleEmployee, true},
		{"admin change is silent", utils.RoleAdmin, false},
		{"subadmin change is silent", utils.RoleSubadmin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeTaskRepo()
			notifier := &fakeNotifier{}
			service := NewTaskService(repo, notifier, zap.NewNop())

			actor := notification.Actor{ID: primitive.NewObjectID(), Name: "Who", Role: tt.role}
			created := &Task{Title: "Ship it", Team: "alpha"}
			if err := service.CreateTask(context.Background(), actor, created); err != nil {
				t.Fatalf("CreateTask() error = %v", err)
			}
			notifier.events = nil

			updated, err := service.UpdateStatus(context.Background(), actor, created.ID, StatusCompleted)
			if err != nil {
				t.Fatalf("UpdateStatus() error = %v", err)
			}
			if updated.Status != StatusCompleted {
				t.Errorf("status = %q, want %q", updated.Status, StatusCompleted)
			}

			if tt.wantSent {
				if len(notifier.events) != 1 {
					t.Fatalf("dispatched %d events, want 1", len(notifier.events))
				}
				if _, ok := notifier.events[0].(notification.TaskStatusChanged); !ok {
					t.Errorf("dispatched %T, want TaskStatusChanged", notifier.events[0])
				}
			} else if len(notifier.events) != 0 {
				t.Errorf("dispatched %d events, want 0", len(notifier.events))
			}
		})
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	service := NewTaskService(newFakeTaskRepo(), &fakeNotifier{}, zap.NewNop())
	actor := notification.Actor{ID: primitive.NewObjectID(), Role: utils.RoleEmployee}

	if _, err := service.UpdateStatus(context.Background(), actor, primitive.NewObjectID(), "done"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
