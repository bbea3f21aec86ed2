package task

import (
	"context"
	"time"

	"go-taskhub/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Task, error)
	Find(ctx context.Context, filter TaskFilter) ([]Task, error)
	Update(ctx context.Context, id primitive.ObjectID, t *Task) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type TaskRepositoryImpl struct {
	collection *mongo.Collection
}

func NewTaskRepository(db *database.MongodbDB) TaskRepository {
	return &TaskRepositoryImpl{
		collection: db.DB.Collection("tasks"),
	}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, t *Task) error {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = StatusPending
	}
	_, err := r.collection.InsertOne(ctx, t)
	return err
}

func (r *TaskRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Task, error) {
	var t Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepositoryImpl) Find(ctx context.Context, filter TaskFilter) ([]Task, error) {
	query := bson.M{}
	if filter.Assignee != nil {
		query["assignee"] = *filter.Assignee
	}
	if filter.Team != "" {
		query["team"] = filter.Team
	}
	if filter.Project != "" {
		query["project"] = filter.Project
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := []Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, t *Task) error {
	t.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"title":       t.Title,
		"description": t.Description,
		"assignee":    t.Assignee,
		"team":        t.Team,
		"project":     t.Project,
		"status":      t.Status,
		"priority":    t.Priority,
		"due_date":    t.DueDate,
		"updated_at":  t.UpdatedAt,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *TaskRepositoryImpl) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
