package task

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Assignee    *primitive.ObjectID `bson:"assignee,omitempty" json:"assignee,omitempty"`
	Team        string              `bson:"team,omitempty" json:"team,omitempty"`
	Project     string              `bson:"project,omitempty" json:"project,omitempty"`
	Status      string              `bson:"status" json:"status"`
	Priority    string              `bson:"priority,omitempty" json:"priority,omitempty"`
	DueDate     *time.Time          `bson:"due_date,omitempty" json:"dueDate,omitempty"`
	CreatedBy   primitive.ObjectID  `bson:"created_by" json:"createdBy"`
	CreatedAt   time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updatedAt"`
}

// TaskFilter narrows list queries. Zero values mean "no constraint".
type TaskFilter struct {
	Assignee *primitive.ObjectID
	Team     string
	Project  string
	Status   string
}
