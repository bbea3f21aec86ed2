package team

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team groups employees under a coordinating subadmin. Chat rooms and
// task fan-out rules key on the team name.
type Team struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name      string               `bson:"name" json:"name"`
	Project   string               `bson:"project,omitempty" json:"project,omitempty"`
	Members   []primitive.ObjectID `bson:"members" json:"members"`
	Subadmin  primitive.ObjectID   `bson:"subadmin,omitempty" json:"subadmin,omitempty"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at" json:"updated_at"`
}
