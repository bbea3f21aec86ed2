package notification

import (
	"context"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeDirectory struct {
	admins   []primitive.ObjectID
	staff    []primitive.ObjectID
	subadmin map[string]primitive.ObjectID
	members  map[string][]primitive.ObjectID
}

func (f *fakeDirectory) AdminIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return f.admins, nil
}

func (f *fakeDirectory) StaffIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return f.staff, nil
}

func (f *fakeDirectory) SubadminIDFor(ctx context.Context, team string) (primitive.ObjectID, bool, error) {
	id, ok := f.subadmin[team]
	return id, ok, nil
}

func (f *fakeDirectory) TeamMemberIDs(ctx context.Context, team string) ([]primitive.ObjectID, error) {
	return f.members[team], nil
}

func recipientSet(ns []Notification) map[primitive.ObjectID]bool {
	set := map[primitive.ObjectID]bool{}
	for _, n := range ns {
		set[n.Recipient] = true
	}
	return set
}

func TestTaskAssignedDrafts(t *testing.T) {
	actor := Actor{ID: primitive.NewObjectID(), Name: "Alice"}
	assignee := primitive.NewObjectID()
	taskID := primitive.NewObjectID()

	tests := []struct {
		name     string
		assignee primitive.ObjectID
		want     int
	}{
		{"assignee notified", assignee, 1},
		{"self assignment is silent", actor.ID, 0},
		{"zero assignee is silent", primitive.NilObjectID, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := TaskAssigned{Actor: actor, Assignee: tt.assignee, TaskID: taskID, Title: "Ship it"}
			got, err := ev.drafts(context.Background(), &fakeDirectory{})
			if err != nil {
				t.Fatalf("drafts() error = %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("got %d drafts, want %d", len(got), tt.want)
			}
			if tt.want == 1 {
				n := got[0]
				if n.Recipient != assignee || n.Sender != actor.ID {
					t.Errorf("wrong recipient/sender: %v/%v", n.Recipient, n.Sender)
				}
				if n.Category != CategoryAssignment || n.Priority != PriorityPrimary {
					t.Errorf("category/priority = %v/%v", n.Category, n.Priority)
				}
				if !strings.Contains(n.Message, "Alice") || !strings.Contains(n.Message, "Ship it") {
					t.Errorf("message = %q", n.Message)
				}
			}
		})
	}
}

func TestTaskEditedDrafts(t *testing.T) {
	actor := Actor{ID: primitive.NewObjectID(), Name: "Alice"}
	assignee := primitive.NewObjectID()
	mate := primitive.NewObjectID()

	dir := &fakeDirectory{
		members: map[string][]primitive.ObjectID{
			"alpha": {actor.ID, assignee, mate},
		},
	}

	ev := TaskEdited{
		Actor:    actor,
		TaskID:   primitive.NewObjectID(),
		Title:    "Ship it",
		Assignee: &assignee,
		Team:     "alpha",
	}
	got, err := ev.drafts(context.Background(), dir)
	if err != nil {
		t.Fatalf("drafts() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d drafts, want 2", len(got))
	}
	byRecipient := map[primitive.ObjectID]Notification{}
	for _, n := range got {
		byRecipient[n.Recipient] = n
	}
	if _, ok := byRecipient[actor.ID]; ok {
		t.Error("actor must not be a recipient")
	}
	if n := byRecipient[assignee]; n.Priority != PriorityPrimary {
		t.Errorf("assignee priority = %v, want primary", n.Priority)
	}
	if n := byRecipient[mate]; n.Priority != PrioritySecondary {
		t.Errorf("teammate priority = %v, want secondary", n.Priority)
	}
}

func TestTaskStatusChangedDrafts(t *testing.T) {
	actor := Actor{ID: primitive.NewObjectID(), Name: "Eve", Role: "employee"}
	admin1 := primitive.NewObjectID()
	admin2 := primitive.NewObjectID()
	sub := primitive.NewObjectID()

	dir := &fakeDirectory{
		admins:   []primitive.ObjectID{admin1, admin2},
		subadmin: map[string]primitive.ObjectID{"alpha": sub},
	}

	ev := TaskStatusChanged{
		Actor:  actor,
		TaskID: primitive.NewObjectID(),
		Title:  "Ship it",
		Team:   "alpha",
		Status: "completed",
	}
	got, err := ev.drafts(context.Background(), dir)
	if err != nil {
		t.Fatalf("drafts() error = %v", err)
	}

	set := recipientSet(got)
	if len(set) != 3 {
		t.Fatalf("got %d recipients, want 3: %v", len(set), set)
	}
	for _, want := range []primitive.ObjectID{admin1, admin2, sub} {
		if !set[want] {
			t.Errorf("missing recipient %v", want)
		}
	}
}

func TestTaskStatusChangedExcludesActingSubadmin(t *testing.T) {
	sub := primitive.NewObjectID()
	admin := primitive.NewObjectID()
	actor := Actor{ID: sub, Name: "Sam", Role: "subadmin"}

	dir := &fakeDirectory{
		admins:   []primitive.ObjectID{admin},
		subadmin: map[string]primitive.ObjectID{"alpha": sub},
	}

	ev := TaskStatusChanged{Actor: actor, Team: "alpha", Title: "x", Status: "pending"}
	got, err := ev.drafts(context.Background(), dir)
	if err != nil {
		t.Fatalf("drafts() error = %v", err)
	}

	set := recipientSet(got)
	if set[sub] {
		t.Error("acting subadmin must not be a recipient")
	}
	if !set[admin] {
		t.Error("admin missing from recipients")
	}
}

func TestTeamUpdatedDrafts(t *testing.T) {
	actor := Actor{ID: primitive.NewObjectID(), Name: "Alice"}
	added := primitive.NewObjectID()
	removed := primitive.NewObjectID()
	unchanged := primitive.NewObjectID()
	sub := primitive.NewObjectID()

	ev := TeamUpdated{
		Actor:     actor,
		TeamName:  "alpha",
		Added:     []primitive.ObjectID{added},
		Removed:   []primitive.ObjectID{removed},
		Unchanged: []primitive.ObjectID{unchanged},
		Subadmin:  &sub,
	}
	got, err := ev.drafts(context.Background(), &fakeDirectory{})
	if err != nil {
		t.Fatalf("drafts() error = %v", err)
	}

	byRecipient := map[primitive.ObjectID]Notification{}
	for _, n := range got {
		byRecipient[n.Recipient] = n
	}
	if len(byRecipient) != 4 {
		t.Fatalf("got %d recipients, want 4", len(byRecipient))
	}
	if n := byRecipient[removed]; n.Priority != PriorityPrimary || n.Metadata["changeType"] != "member_removed" {
		t.Errorf("removed member: priority=%v changeType=%v", n.Priority, n.Metadata["changeType"])
	}
	if n := byRecipient[added]; n.Priority != PriorityPrimary || n.Metadata["changeType"] != "member_added" {
		t.Errorf("added member: priority=%v changeType=%v", n.Priority, n.Metadata["changeType"])
	}
	if n := byRecipient[unchanged]; n.Priority != PrioritySecondary {
		t.Errorf("unchanged member priority = %v, want secondary", n.Priority)
	}
	if n := byRecipient[sub]; n.Metadata["changeType"] != "coordinator" {
		t.Errorf("subadmin changeType = %v", n.Metadata["changeType"])
	}
}

func TestTeamUpdatedNoRosterChangeSkipsUnchanged(t *testing.T) {
	actor := Actor{ID: primitive.NewObjectID(), Name: "Alice"}
	unchanged := primitive.NewObjectID()
	sub := primitive.NewObjectID()

	ev := TeamUpdated{
		Actor:     actor,
		TeamName:  "alpha",
		Unchanged: []primitive.ObjectID{unchanged},
		Subadmin:  &sub,
	}
	got, err := ev.drafts(context.Background(), &fakeDirectory{})
	if err != nil {
		t.Fatalf("drafts() error = %v", err)
	}

	set := recipientSet(got)
	if set[unchanged] {
		t.Error("unchanged members must not be notified when the roster did not change")
	}
	if !set[sub] {
		t.Error("subadmin missing from recipients")
	}
}

func TestAdminBroadcastExcludesActor(t *testing.T) {
	actor := Actor{ID: primitive.NewObjectID(), Name: "Alice"}
	other := primitive.NewObjectID()

	dir := &fakeDirectory{staff: []primitive.ObjectID{actor.ID, other}}
	got, err := AdminBroadcast{Actor: actor}.drafts(context.Background(), dir)
	if err != nil {
		t.Fatalf("drafts() error = %v", err)
	}

	set := recipientSet(got)
	if set[actor.ID] {
		t.Error("actor must not be a recipient")
	}
	if !set[other] {
		t.Error("other staff member missing")
	}
}

func TestTeamChatMessageExcludesActor(t *testing.T) {
	actor := Actor{ID: primitive.NewObjectID(), Name: "Alice"}
	mate := primitive.NewObjectID()

	ev := TeamChatMessage{
		Actor:    actor,
		TeamName: "alpha",
		Members:  []primitive.ObjectID{actor.ID, mate},
	}
	got, err := ev.drafts(context.Background(), &fakeDirectory{})
	if err != nil {
		t.Fatalf("drafts() error = %v", err)
	}

	if len(got) != 1 || got[0].Recipient != mate {
		t.Fatalf("got %v, want single draft for %v", got, mate)
	}
	if got[0].Category != CategoryChat {
		t.Errorf("category = %v, want chat", got[0].Category)
	}
}
