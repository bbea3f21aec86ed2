package watchlist

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TypeAll grants visibility into every notification category.
const TypeAll = "all"

var knownTypes = map[string]bool{
	TypeAll:         true,
	"chat":          true,
	"task_edit":     true,
	"team_change":   true,
	"status_change": true,
	"assignment":    true,
}

// WatcherEntry grants one user visibility into the owner's notifications,
// optionally restricted to categories.
type WatcherEntry struct {
	User         primitive.ObjectID `bson:"user" json:"userId"`
	AllowedTypes []string           `bson:"allowed_types" json:"allowedTypes"`
	AddedAt      time.Time          `bson:"added_at" json:"addedAt"`
}

// Watchlist holds who may view the owner's notifications. One document per
// owner; updates replace the watchers array wholesale.
type Watchlist struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Owner     primitive.ObjectID `bson:"owner" json:"owner"`
	Watchers  []WatcherEntry     `bson:"watchers" json:"watchers"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// ViewDecision is the outcome of an access check. Empty means the viewer is
// allowed but the requested type falls outside their grant, so the result
// set is empty rather than the request being rejected.
type ViewDecision struct {
	Allowed bool
	Filter  []string // categories to restrict to; nil means no restriction
	Empty   bool
}

// normalizeTypes drops unknown values and collapses empty grants to ["all"].
func normalizeTypes(types []string) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		if knownTypes[t] {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return []string{TypeAll}
	}
	return out
}

func containsType(types []string, t string) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}
