package task

import (
	"context"
	"errors"

	"go-taskhub/internal/features/notification"
	"go-taskhub/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type TaskService interface {
	CreateTask(ctx context.Context, actor notification.Actor, t *Task) error
	GetTaskByID(ctx context.Context, id primitive.ObjectID) (*Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error)
	UpdateTask(ctx context.Context, actor notification.Actor, id primitive.ObjectID, t *Task) error
	UpdateStatus(ctx context.Context, actor notification.Actor, id primitive.ObjectID, status string) (*Task, error)
	DeleteTask(ctx context.Context, id primitive.ObjectID) error
}

type TaskServiceImpl struct {
	repo     TaskRepository
	notifier notification.Notifier
	log      *zap.Logger
}

func NewTaskService(repo TaskRepository, notifier notification.Notifier, log *zap.Logger) TaskService {
	return &TaskServiceImpl{
		repo:     repo,
		notifier: notifier,
		log:      log,
	}
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, actor notification.Actor, t *Task) error {
	if t.Title == "" {
		return errors.New("task title is required")
	}
	if t.Status != "" && !ValidStatus(t.Status) {
		return errors.New("invalid task status")
	}
	t.CreatedBy = actor.ID

	if err := s.repo.Create(ctx, t); err != nil {
		return err
	}

	if t.Assignee != nil {
		s.notifier.Dispatch(ctx, notification.TaskAssigned{
			Actor:    actor,
			Assignee: *t.Assignee,
			TaskID:   t.ID,
			Title:    t.Title,
		})
	}
	return nil
}

func (s *TaskServiceImpl) GetTaskByID(ctx context.Context, id primitive.ObjectID) (*Task, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TaskServiceImpl) ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	return s.repo.Find(ctx, filter)
}

func (s *TaskServiceImpl) UpdateTask(ctx context.Context, actor notification.Actor, id primitive.ObjectID, t *Task) error {
	if t.Title == "" {
		return errors.New("task title is required")
	}
	if t.Status != "" && !ValidStatus(t.Status) {
		return errors.New("invalid task status")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	t.ID = id
	t.CreatedBy = existing.CreatedBy
	t.CreatedAt = existing.CreatedAt
	if t.Status == "" {
		t.Status = existing.Status
	}

	if err := s.repo.Update(ctx, id, t); err != nil {
		return err
	}

	if reassigned(existing.Assignee, t.Assignee) {
		s.notifier.Dispatch(ctx, notification.TaskAssigned{
			Actor:    actor,
			Assignee: *t.Assignee,
			TaskID:   t.ID,
			Title:    t.Title,
		})
	} else {
		s.notifier.Dispatch(ctx, notification.TaskEdited{
			Actor:    actor,
			TaskID:   t.ID,
			Title:    t.Title,
			Assignee: t.Assignee,
			Team:     t.Team,
		})
	}
	return nil
}

func (s *TaskServiceImpl) UpdateStatus(ctx context.Context, actor notification.Actor, id primitive.ObjectID, status string) (*Task, error) {
	if !ValidStatus(status) {
		return nil, errors.New("invalid task status")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	existing.Status = status

	// Admins and subadmins track their own edits; only employee status
	// changes need to flow upward.
	if actor.Role == utils.RoleEmployee {
		s.notifier.Dispatch(ctx, notification.TaskStatusChanged{
			Actor:  actor,
			TaskID: existing.ID,
			Title:  existing.Title,
			Team:   existing.Team,
			Status: status,
		})
	}
	return existing, nil
}

func (s *TaskServiceImpl) DeleteTask(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.Delete(ctx, id)
}

func reassigned(before, after *primitive.ObjectID) bool {
	if after == nil {
		return false
	}
	return before == nil || *before != *after
}
