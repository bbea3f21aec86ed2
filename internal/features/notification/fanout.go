package notification

import (
	"context"
	"fmt"

	"go-taskhub/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserDirectory supplies the user lookups the fan-out rules need.
// Implemented by the user repository.
type UserDirectory interface {
	AdminIDs(ctx context.Context) ([]primitive.ObjectID, error)
	StaffIDs(ctx context.Context) ([]primitive.ObjectID, error)
	SubadminIDFor(ctx context.Context, team string) (primitive.ObjectID, bool, error)
	TeamMemberIDs(ctx context.Context, team string) ([]primitive.ObjectID, error)
}

// Actor identifies the user whose action triggered an event. The actor is
// never a recipient of the notifications their own action produces.
type Actor struct {
	ID   primitive.ObjectID
	Name string
	Role string
}

// ActorFromClaims builds an Actor from authenticated request claims.
func ActorFromClaims(claims *utils.UserClaims) (Actor, error) {
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return Actor{}, err
	}
	return Actor{ID: id, Name: claims.Name, Role: claims.Role}, nil
}

// Event is a closed set of domain occurrences the notifier can fan out.
// Each variant carries exactly what its recipient rules and message template
// need; the mapping to category, priority and recipients lives here in one
// place instead of being scattered across the triggering services.
type Event interface {
	drafts(ctx context.Context, dir UserDirectory) ([]Notification, error)
}

// TaskAssigned fires when a task is assigned (or reassigned) to a user.
type TaskAssigned struct {
	Actor    Actor
	Assignee primitive.ObjectID
	TaskID   primitive.ObjectID
	Title    string
}

func (e TaskAssigned) drafts(ctx context.Context, dir UserDirectory) ([]Notification, error) {
	if e.Assignee == e.Actor.ID || e.Assignee.IsZero() {
		return nil, nil
	}
	taskID := e.TaskID
	return []Notification{{
		Recipient: e.Assignee,
		Sender:    e.Actor.ID,
		Task:      &taskID,
		Category:  CategoryAssignment,
		Priority:  PriorityPrimary,
		Message:   fmt.Sprintf("%s assigned you the task %q", e.Actor.Name, e.Title),
	}}, nil
}

// TaskEdited fires on non-status task edits. The assignee gets a primary
// notification; other teammates get a secondary one.
type TaskEdited struct {
	Actor    Actor
	TaskID   primitive.ObjectID
	Title    string
	Assignee *primitive.ObjectID
	Team     string
}

func (e TaskEdited) drafts(ctx context.Context, dir UserDirectory) ([]Notification, error) {
	var out []Notification
	taskID := e.TaskID

	if e.Assignee != nil && *e.Assignee != e.Actor.ID {
		out = append(out, Notification{
			Recipient: *e.Assignee,
			Sender:    e.Actor.ID,
			Task:      &taskID,
			Category:  CategoryTaskEdit,
			Priority:  PriorityPrimary,
			Message:   fmt.Sprintf("%s updated the task %q", e.Actor.Name, e.Title),
		})
	}

	if e.Team != "" {
		members, err := dir.TeamMemberIDs(ctx, e.Team)
		if err != nil {
			return out, err
		}
		for _, m := range members {
			if m == e.Actor.ID || (e.Assignee != nil && m == *e.Assignee) {
				continue
			}
			out = append(out, Notification{
				Recipient: m,
				Sender:    e.Actor.ID,
				Task:      &taskID,
				Category:  CategoryTaskEdit,
				Priority:  PrioritySecondary,
				Message:   fmt.Sprintf("%s updated the team task %q", e.Actor.Name, e.Title),
				Metadata:  map[string]string{"teamName": e.Team},
			})
		}
	}
	return out, nil
}

// TaskStatusChanged fires when an employee changes a task's status. The
// team's subadmin and every admin are notified.
type TaskStatusChanged struct {
	Actor  Actor
	TaskID primitive.ObjectID
	Title  string
	Team   string
	Status string
}

func (e TaskStatusChanged) drafts(ctx context.Context, dir UserDirectory) ([]Notification, error) {
	recipients := map[primitive.ObjectID]struct{}{}

	if e.Team != "" {
		subadmin, found, err := dir.SubadminIDFor(ctx, e.Team)
		if err != nil {
			return nil, err
		}
		if found {
			recipients[subadmin] = struct{}{}
		}
	}

	admins, err := dir.AdminIDs(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range admins {
		recipients[id] = struct{}{}
	}
	delete(recipients, e.Actor.ID)

	taskID := e.TaskID
	out := make([]Notification, 0, len(recipients))
	for id := range recipients {
		out = append(out, Notification{
			Recipient: id,
			Sender:    e.Actor.ID,
			Task:      &taskID,
			Category:  CategoryStatusChange,
			Priority:  PriorityPrimary,
			Message:   fmt.Sprintf("%s changed the status of %q to %s", e.Actor.Name, e.Title, e.Status),
			Metadata:  map[string]string{"teamName": e.Team, "changeType": "status"},
		})
	}
	return out, nil
}

// TeamUpdated fires on team membership or coordinator changes. Added and
// removed members are told directly; remaining members get a secondary
// notice when the roster changed; the coordinating subadmin gets a primary
// notice when the change affects their team.
type TeamUpdated struct {
	Actor     Actor
	TeamName  string
	Added     []primitive.ObjectID
	Removed   []primitive.ObjectID
	Unchanged []primitive.ObjectID
	Subadmin  *primitive.ObjectID
}

func (e TeamUpdated) drafts(ctx context.Context, dir UserDirectory) ([]Notification, error) {
	var out []Notification
	meta := func(changeType string) map[string]string {
		return map[string]string{"teamName": e.TeamName, "changeType": changeType}
	}

	for _, id := range e.Removed {
		if id == e.Actor.ID {
			continue
		}
		out = append(out, Notification{
			Recipient: id,
			Sender:    e.Actor.ID,
			Category:  CategoryTeamChange,
			Priority:  PriorityPrimary,
			Message:   fmt.Sprintf("%s removed you from the team %s", e.Actor.Name, e.TeamName),
			Metadata:  meta("member_removed"),
		})
	}

	for _, id := range e.Added {
		if id == e.Actor.ID {
			continue
		}
		out = append(out, Notification{
			Recipient: id,
			Sender:    e.Actor.ID,
			Category:  CategoryTeamChange,
			Priority:  PriorityPrimary,
			Message:   fmt.Sprintf("%s added you to the team %s", e.Actor.Name, e.TeamName),
			Metadata:  meta("member_added"),
		})
	}

	if len(e.Added) > 0 || len(e.Removed) > 0 {
		for _, id := range e.Unchanged {
			if id == e.Actor.ID {
				continue
			}
			out = append(out, Notification{
				Recipient: id,
				Sender:    e.Actor.ID,
				Category:  CategoryTeamChange,
				Priority:  PrioritySecondary,
				Message:   fmt.Sprintf("The team %s was updated by %s", e.TeamName, e.Actor.Name),
				Metadata:  meta("member_change"),
			})
		}
	}

	if e.Subadmin != nil && *e.Subadmin != e.Actor.ID {
		out = append(out, Notification{
			Recipient: *e.Subadmin,
			Sender:    e.Actor.ID,
			Category:  CategoryTeamChange,
			Priority:  PriorityPrimary,
			Message:   fmt.Sprintf("Your team %s was updated by %s", e.TeamName, e.Actor.Name),
			Metadata:  meta("coordinator"),
		})
	}

	return out, nil
}

// TeamChatMessage fires for every message sent in a team room.
type TeamChatMessage struct {
	Actor    Actor
	TeamName string
	Members  []primitive.ObjectID
}

func (e TeamChatMessage) drafts(ctx context.Context, dir UserDirectory) ([]Notification, error) {
	var out []Notification
	for _, id := range e.Members {
		if id == e.Actor.ID {
			continue
		}
		out = append(out, Notification{
			Recipient: id,
			Sender:    e.Actor.ID,
			Category:  CategoryChat,
			Priority:  PriorityPrimary,
			Message:   fmt.Sprintf("New message from %s in %s", e.Actor.Name, e.TeamName),
			Metadata:  map[string]string{"chatName": e.TeamName},
		})
	}
	return out, nil
}

// AdminBroadcast fires for messages in the shared admin/subadmin channel.
type AdminBroadcast struct {
	Actor Actor
}

func (e AdminBroadcast) drafts(ctx context.Context, dir UserDirectory) ([]Notification, error) {
	staff, err := dir.StaffIDs(ctx)
	if err != nil {
		return nil, err
	}

	var out []Notification
	for _, id := range staff {
		if id == e.Actor.ID {
			continue
		}
		out = append(out, Notification{
			Recipient: id,
			Sender:    e.Actor.ID,
			Category:  CategoryChat,
			Priority:  PriorityPrimary,
			Message:   fmt.Sprintf("%s sent a message in the staff channel", e.Actor.Name),
			Metadata:  map[string]string{"chatName": "admin:general"},
		})
	}
	return out, nil
}

// AdminDirectMessage fires for a one-to-one admin/subadmin message.
type AdminDirectMessage struct {
	Actor     Actor
	Recipient primitive.ObjectID
	ChatName  string
}

func (e AdminDirectMessage) drafts(ctx context.Context, dir UserDirectory) ([]Notification, error) {
	if e.Recipient == e.Actor.ID || e.Recipient.IsZero() {
		return nil, nil
	}
	return []Notification{{
		Recipient: e.Recipient,
		Sender:    e.Actor.ID,
		Category:  CategoryChat,
		Priority:  PriorityPrimary,
		Message:   fmt.Sprintf("New direct message from %s", e.Actor.Name),
		Metadata:  map[string]string{"chatName": e.ChatName},
	}}, nil
}
