package chat

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ScopeTeam  = "team"
	ScopeAdmin = "admin"
)

var (
	ErrNotFound         = errors.New("message not found")
	ErrPermissionDenied = errors.New("permission denied")
)

type ChatMessage struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Room       string             `bson:"room" json:"room"`
	Scope      string             `bson:"scope" json:"scope"`
	Sender     primitive.ObjectID `bson:"sender" json:"sender"`
	SenderName string             `bson:"sender_name" json:"senderName"`
	Text       string             `bson:"text" json:"text"`
	Edited     bool               `bson:"edited" json:"edited"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updatedAt"`
}
