package chat

import (
	"context"
	"errors"
	"testing"

	"go-taskhub/internal/features/notification"
	"go-taskhub/internal/features/team"
	"go-taskhub/internal/features/user"
	"go-taskhub/internal/realtime"
	"go-taskhub/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeChatRepo struct {
	messages map[primitive.ObjectID]*ChatMessage
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{messages: map[primitive.ObjectID]*ChatMessage{}}
}

func (f *fakeChatRepo) Insert(ctx context.Context, msg *ChatMessage) error {
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	stored := *msg
	f.messages[msg.ID] = &stored
	return nil
}

func (f *fakeChatRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*ChatMessage, error) {
	msg, ok := f.messages[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *msg
	return &copied, nil
}

func (f *fakeChatRepo) FindByRoom(ctx context.Context, room string, limit int64) ([]ChatMessage, error) {
	var out []ChatMessage
	for _, msg := range f.messages {
		if msg.Room == room {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) UpdateText(ctx context.Context, id primitive.ObjectID, text string) error {
	msg, ok := f.messages[id]
	if !ok {
		return ErrNotFound
	}
	msg.Text = text
	msg.Edited = true
	return nil
}

type fakeTeamRepo struct {
	teams map[string]*team.Team
}

func (f *fakeTeamRepo) Create(ctx context.Context, t *team.Team) error { return nil }
func (f *fakeTeamRepo) FindAll(ctx context.Context) ([]team.Team, error) {
	return nil, nil
}
func (f *fakeTeamRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*team.Team, error) {
	return nil, errors.New("not found")
}
func (f *fakeTeamRepo) FindByName(ctx context.Context, name string) (*team.Team, error) {
	t, ok := f.teams[name]
	if !ok {
		return nil, errors.New("not found")
	}
	return t, nil
}
func (f *fakeTeamRepo) Update(ctx context.Context, id primitive.ObjectID, t *team.Team) error {
	return nil
}
func (f *fakeTeamRepo) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }

type fakeProfiles struct {
	users map[primitive.ObjectID]*user.User
}

func (f *fakeProfiles) FindByID(ctx context.Context, id primitive.ObjectID) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

type publishedEvent struct {
	room  string
	event string
}

type fakeBus struct {
	published []publishedEvent
}

func (f *fakeBus) Register(c *realtime.Conn) {}
func (f *fakeBus) Unregister(connID string)  {}
func (f *fakeBus) Join(connID, room string)  {}
func (f *fakeBus) Leave(connID, room string) {}
func (f *fakeBus) Stop()                     {}

func (f *fakeBus) Publish(room, event string, payload any) {
	f.published = append(f.published, publishedEvent{room: room, event: event})
}

type fakeNotifier struct {
	events []notification.Event
}

func (f *fakeNotifier) Dispatch(ctx context.Context, ev notification.Event) {
	f.events = append(f.events, ev)
}

type memberLookup struct {
	teams *fakeTeamRepo
}

func (m *memberLookup) IsTeamMember(ctx context.Context, userID primitive.ObjectID, teamName string) (bool, error) {
	t, ok := m.teams.teams[teamName]
	if !ok {
		return false, nil
	}
	for _, id := range t.Members {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

type chatFixture struct {
	repo     *fakeChatRepo
	bus      *fakeBus
	notifier *fakeNotifier
	service  ChatService
	member   primitive.ObjectID
	outsider primitive.ObjectID
	admin    primitive.ObjectID
	subadmin primitive.ObjectID
}

func newChatFixture() *chatFixture {
	member := primitive.NewObjectID()
	outsider := primitive.NewObjectID()
	adminID := primitive.NewObjectID()
	subadminID := primitive.NewObjectID()

	teams := &fakeTeamRepo{teams: map[string]*team.Team{
		"alpha": {Name: "alpha", Members: []primitive.ObjectID{member}},
	}}
	profiles := &fakeProfiles{users: map[primitive.ObjectID]*user.User{
		subadminID: {ID: subadminID, Email: "sub@example.com", Name: "Sam", Role: utils.RoleSubadmin},
		adminID:    {ID: adminID, Email: "boss@example.com", Name: "Ada", Role: utils.RoleAdmin},
	}}

	repo := newFakeChatRepo()
	bus := &fakeBus{}
	notifier := &fakeNotifier{}
	authorizer := realtime.NewAuthorizer(&memberLookup{teams: teams})

	return &chatFixture{
		repo:     repo,
		bus:      bus,
		notifier: notifier,
		service:  NewChatService(repo, teams, profiles, notifier, bus, authorizer, zap.NewNop()),
		member:   member,
		outsider: outsider,
		admin:    adminID,
		subadmin: subadminID,
	}
}

func employeeClaims(id primitive.ObjectID, name string) *utils.UserClaims {
	return &utils.UserClaims{UserID: id.Hex(), Role: utils.RoleEmployee, Name: name}
}

func TestSendTeamMessage(t *testing.T) {
	fx := newChatFixture()

	msg, err := fx.service.SendTeamMessage(context.Background(), employeeClaims(fx.member, "Mia"), "alpha", "hello")
	if err != nil {
		t.Fatalf("SendTeamMessage() error = %v", err)
	}

	if msg.Room != realtime.TeamRoom("alpha") || msg.Scope != ScopeTeam {
		t.Errorf("room/scope = %v/%v", msg.Room, msg.Scope)
	}
	if len(fx.bus.published) != 1 || fx.bus.published[0].event != realtime.EventChatTeamMessage {
		t.Fatalf("published = %v", fx.bus.published)
	}
	if len(fx.notifier.events) != 1 {
		t.Fatalf("dispatched %d events, want 1", len(fx.notifier.events))
	}
	if _, ok := fx.notifier.events[0].(notification.TeamChatMessage); !ok {
		t.Errorf("dispatched %T, want TeamChatMessage", fx.notifier.events[0])
	}
}

func TestSendTeamMessageNonMemberDenied(t *testing.T) {
	fx := newChatFixture()

	_, err := fx.service.SendTeamMessage(context.Background(), employeeClaims(fx.outsider, "Out"), "alpha", "hello")
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("error = %v, want ErrPermissionDenied", err)
	}
	if len(fx.bus.published) != 0 {
		t.Error("nothing may be published on a denied send")
	}
}

func TestSendAdminBroadcast(t *testing.T) {
	fx := newChatFixture()
	claims := &utils.UserClaims{UserID: fx.admin.Hex(), Role: utils.RoleAdmin, Name: "Ada", Email: "boss@example.com"}

	msg, err := fx.service.SendAdminMessage(context.Background(), claims, nil, "all hands")
	if err != nil {
		t.Fatalf("SendAdminMessage() error = %v", err)
	}
	if msg.Room != realtime.AdminGeneralRoom {
		t.Errorf("room = %q, want %q", msg.Room, realtime.AdminGeneralRoom)
	}
	if _, ok := fx.notifier.events[0].(notification.AdminBroadcast); !ok {
		t.Errorf("dispatched %T, want AdminBroadcast", fx.notifier.events[0])
	}
}

func TestAdminDMRoomKeying(t *testing.T) {
	fx := newChatFixture()
	wantRoom := realtime.AdminDMRoom("sub@example.com")

	// Admin messaging a subadmin keys the room on the subadmin's email.
	adminClaims := &utils.UserClaims{UserID: fx.admin.Hex(), Role: utils.RoleAdmin, Name: "Ada", Email: "boss@example.com"}
	msg, err := fx.service.SendAdminMessage(context.Background(), adminClaims, &fx.subadmin, "hi")
	if err != nil {
		t.Fatalf("SendAdminMessage() error = %v", err)
	}
	if msg.Room != wantRoom {
		t.Errorf("admin-initiated room = %q, want %q", msg.Room, wantRoom)
	}

	// The subadmin replying to the admin lands in the same room.
	subClaims := &utils.UserClaims{UserID: fx.subadmin.Hex(), Role: utils.RoleSubadmin, Name: "Sam", Email: "sub@example.com"}
	reply, err := fx.service.SendAdminMessage(context.Background(), subClaims, &fx.admin, "hello")
	if err != nil {
		t.Fatalf("SendAdminMessage() error = %v", err)
	}
	if reply.Room != wantRoom {
		t.Errorf("subadmin-initiated room = %q, want %q", reply.Room, wantRoom)
	}
}

func TestSendAdminMessageEmployeeDenied(t *testing.T) {
	fx := newChatFixture()

	_, err := fx.service.SendAdminMessage(context.Background(), employeeClaims(fx.member, "Mia"), nil, "hi")
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("error = %v, want ErrPermissionDenied", err)
	}
}

func TestEditMessage(t *testing.T) {
	fx := newChatFixture()
	claims := employeeClaims(fx.member, "Mia")

	msg, err := fx.service.SendTeamMessage(context.Background(), claims, "alpha", "helo")
	if err != nil {
		t.Fatalf("SendTeamMessage() error = %v", err)
	}
	fx.bus.published = nil

	edited, err := fx.service.EditMessage(context.Background(), claims, msg.ID, "hello")
	if err != nil {
		t.Fatalf("EditMessage() error = %v", err)
	}
	if edited.Text != "hello" || !edited.Edited {
		t.Errorf("edited = %+v", edited)
	}

	// The update is broadcast to the room the message lives in.
	if len(fx.bus.published) != 1 {
		t.Fatalf("published %d, want 1", len(fx.bus.published))
	}
	if fx.bus.published[0].room != msg.Room || fx.bus.published[0].event != realtime.EventChatMessageUpdated {
		t.Errorf("published = %+v", fx.bus.published[0])
	}
}

func TestEditMessageNonSenderDenied(t *testing.T) {
	fx := newChatFixture()

	msg, err := fx.service.SendTeamMessage(context.Background(), employeeClaims(fx.member, "Mia"), "alpha", "hello")
	if err != nil {
		t.Fatalf("SendTeamMessage() error = %v", err)
	}

	adminClaims := &utils.UserClaims{UserID: fx.admin.Hex(), Role: utils.RoleAdmin, Name: "Ada"}
	_, err = fx.service.EditMessage(context.Background(), adminClaims, msg.ID, "rewritten")
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("error = %v, want ErrPermissionDenied", err)
	}
}

func TestHistoryAuthorization(t *testing.T) {
	fx := newChatFixture()

	if _, err := fx.service.History(context.Background(), employeeClaims(fx.member, "Mia"), realtime.TeamRoom("alpha")); err != nil {
		t.Errorf("member history error = %v", err)
	}
	if _, err := fx.service.History(context.Background(), employeeClaims(fx.outsider, "Out"), realtime.TeamRoom("alpha")); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("outsider history error = %v, want ErrPermissionDenied", err)
	}
	if _, err := fx.service.History(context.Background(), employeeClaims(fx.member, "Mia"), realtime.PersonalRoom(fx.member.Hex())); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("notif room history error = %v, want ErrPermissionDenied", err)
	}
}
