package realtime

import (
	"context"
	"strings"

	"go-taskhub/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MembershipSource answers team membership questions for join authorization.
// Implemented by the user repository.
type MembershipSource interface {
	IsTeamMember(ctx context.Context, userID primitive.ObjectID, team string) (bool, error)
}

// Authorizer decides whether a connection may join a room. Denials are
// silent: the caller simply ignores the join, so probing for room names
// leaks nothing.
type Authorizer struct {
	members MembershipSource
}

func NewAuthorizer(members MembershipSource) *Authorizer {
	return &Authorizer{members: members}
}

func (a *Authorizer) CanJoin(ctx context.Context, claims *utils.UserClaims, room string) bool {
	if claims == nil {
		return false
	}

	switch {
	case strings.HasPrefix(room, "notif:"):
		// Personal streams are joined implicitly at connect; an explicit
		// join is only valid for the caller's own stream.
		return room == PersonalRoom(claims.UserID)

	case strings.HasPrefix(room, "admin:"):
		return claims.IsStaff()

	case strings.HasPrefix(room, "team:"):
		if claims.IsStaff() {
			return true
		}
		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			return false
		}
		ok, err := a.members.IsTeamMember(ctx, userID, strings.TrimPrefix(room, "team:"))
		return err == nil && ok

	default:
		return false
	}
}
