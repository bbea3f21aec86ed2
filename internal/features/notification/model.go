package notification

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category classifies a notification. The set is closed; the HTTP layer's
// free-form "type" query parameter is matched against these values.
type Category string

const (
	CategoryChat         Category = "chat"
	CategoryTaskEdit     Category = "task_edit"
	CategoryTeamChange   Category = "team_change"
	CategoryStatusChange Category = "status_change"
	CategoryAssignment   Category = "assignment"
)

type Priority string

const (
	PriorityPrimary   Priority = "primary"
	PrioritySecondary Priority = "secondary"
)

var (
	ErrNotFound         = errors.New("notification not found")
	ErrPermissionDenied = errors.New("no permission to view this user's notifications")
)

// Notification is the durable record of one fan-out delivery. IsRead and
// ReadAt always move together: unread means ReadAt is nil.
type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Recipient primitive.ObjectID  `bson:"recipient" json:"recipient"`
	Sender    primitive.ObjectID  `bson:"sender" json:"sender"`
	Task      *primitive.ObjectID `bson:"task,omitempty" json:"task,omitempty"`
	Message   string              `bson:"message" json:"message"`
	Category  Category            `bson:"category" json:"category"`
	Priority  Priority            `bson:"priority" json:"priority"`
	Metadata  map[string]string   `bson:"metadata,omitempty" json:"metadata,omitempty"`
	IsRead    bool                `bson:"is_read" json:"isRead"`
	ReadAt    *time.Time          `bson:"read_at,omitempty" json:"readAt,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"createdAt"`
}
