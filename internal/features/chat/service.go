package chat

import (
	"context"
	"errors"
	"strings"

	"go-taskhub/internal/features/notification"
	"go-taskhub/internal/features/team"
	"go-taskhub/internal/features/user"
	"go-taskhub/internal/realtime"
	"go-taskhub/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const historyLimit = 100

// ProfileFinder resolves user profiles for direct-message room naming.
// Implemented by the user repository.
type ProfileFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*user.User, error)
}

type ChatService interface {
	SendTeamMessage(ctx context.Context, claims *utils.UserClaims, teamName, text string) (*ChatMessage, error)
	SendAdminMessage(ctx context.Context, claims *utils.UserClaims, recipient *primitive.ObjectID, text string) (*ChatMessage, error)
	EditMessage(ctx context.Context, claims *utils.UserClaims, id primitive.ObjectID, text string) (*ChatMessage, error)
	History(ctx context.Context, claims *utils.UserClaims, room string) ([]ChatMessage, error)
}

type ChatServiceImpl struct {
	repo       ChatRepository
	teams      team.TeamRepository
	users      ProfileFinder
	notifier   notification.Notifier
	bus        realtime.Bus
	authorizer *realtime.Authorizer
	log        *zap.Logger
}

func NewChatService(repo ChatRepository, teams team.TeamRepository, users ProfileFinder, notifier notification.Notifier, bus realtime.Bus, authorizer *realtime.Authorizer, log *zap.Logger) ChatService {
	return &ChatServiceImpl{
		repo:       repo,
		teams:      teams,
		users:      users,
		notifier:   notifier,
		bus:        bus,
		authorizer: authorizer,
		log:        log,
	}
}

func (s *ChatServiceImpl) SendTeamMessage(ctx context.Context, claims *utils.UserClaims, teamName, text string) (*ChatMessage, error) {
	if text == "" {
		return nil, errors.New("message text is required")
	}

	actor, err := notification.ActorFromClaims(claims)
	if err != nil {
		return nil, err
	}

	t, err := s.teams.FindByName(ctx, teamName)
	if err != nil {
		return nil, errors.New("team not found")
	}
	if !claims.IsStaff() && !containsID(t.Members, actor.ID) {
		return nil, ErrPermissionDenied
	}

	msg := &ChatMessage{
		Room:       realtime.TeamRoom(teamName),
		Scope:      ScopeTeam,
		Sender:     actor.ID,
		SenderName: actor.Name,
		Text:       text,
	}
	if err := s.repo.Insert(ctx, msg); err != nil {
		return nil, err
	}

	s.bus.Publish(msg.Room, realtime.EventChatTeamMessage, msg)
	s.notifier.Dispatch(ctx, notification.TeamChatMessage{
		Actor:    actor,
		TeamName: teamName,
		Members:  t.Members,
	})
	return msg, nil
}

// SendAdminMessage posts to the shared staff channel when recipient is nil,
// or to the one-to-one room with the given staff member otherwise.
func (s *ChatServiceImpl) SendAdminMessage(ctx context.Context, claims *utils.UserClaims, recipient *primitive.ObjectID, text string) (*ChatMessage, error) {
	if text == "" {
		return nil, errors.New("message text is required")
	}
	if !claims.IsStaff() {
		return nil, ErrPermissionDenied
	}

	actor, err := notification.ActorFromClaims(claims)
	if err != nil {
		return nil, err
	}

	msg := &ChatMessage{
		Scope:      ScopeAdmin,
		Sender:     actor.ID,
		SenderName: actor.Name,
		Text:       text,
	}

	if recipient == nil {
		msg.Room = realtime.AdminGeneralRoom
		if err := s.repo.Insert(ctx, msg); err != nil {
			return nil, err
		}
		s.bus.Publish(msg.Room, realtime.EventChatAdminMessage, msg)
		s.notifier.Dispatch(ctx, notification.AdminBroadcast{Actor: actor})
		return msg, nil
	}

	room, err := s.dmRoom(ctx, claims, *recipient)
	if err != nil {
		return nil, err
	}
	msg.Room = room
	if err := s.repo.Insert(ctx, msg); err != nil {
		return nil, err
	}
	s.bus.Publish(msg.Room, realtime.EventChatAdminMessage, msg)
	s.notifier.Dispatch(ctx, notification.AdminDirectMessage{
		Actor:     actor,
		Recipient: *recipient,
		ChatName:  room,
	})
	return msg, nil
}

// dmRoom keys the room on the subadmin's email so both participants land in
// the same room regardless of who initiated.
func (s *ChatServiceImpl) dmRoom(ctx context.Context, claims *utils.UserClaims, recipient primitive.ObjectID) (string, error) {
	if claims.Role == utils.RoleSubadmin {
		return realtime.AdminDMRoom(claims.Email), nil
	}
	other, err := s.users.FindByID(ctx, recipient)
	if err != nil {
		return "", errors.New("recipient not found")
	}
	return realtime.AdminDMRoom(other.Email), nil
}

func (s *ChatServiceImpl) EditMessage(ctx context.Context, claims *utils.UserClaims, id primitive.ObjectID, text string) (*ChatMessage, error) {
	if text == "" {
		return nil, errors.New("message text is required")
	}

	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.Sender.Hex() != claims.UserID {
		return nil, ErrPermissionDenied
	}

	if err := s.repo.UpdateText(ctx, id, text); err != nil {
		return nil, err
	}
	msg.Text = text
	msg.Edited = true

	// The update goes to the room the message lives in, not wherever the
	// editor currently is.
	s.bus.Publish(msg.Room, realtime.EventChatMessageUpdated, msg)
	return msg, nil
}

func (s *ChatServiceImpl) History(ctx context.Context, claims *utils.UserClaims, room string) ([]ChatMessage, error) {
	if !strings.HasPrefix(room, "team:") && !strings.HasPrefix(room, "admin:") {
		return nil, ErrPermissionDenied
	}
	if !s.authorizer.CanJoin(ctx, claims, room) {
		return nil, ErrPermissionDenied
	}
	return s.repo.FindByRoom(ctx, room, historyLimit)
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
