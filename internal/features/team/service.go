package team

import (
	"context"
	"errors"

	"go-taskhub/internal/features/notification"
	"go-taskhub/internal/features/user"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type TeamService interface {
	CreateTeam(ctx context.Context, actor notification.Actor, team *Team) error
	GetAllTeams(ctx context.Context) ([]Team, error)
	GetTeamByID(ctx context.Context, id primitive.ObjectID) (*Team, error)
	UpdateTeam(ctx context.Context, actor notification.Actor, id primitive.ObjectID, team *Team) error
	DeleteTeam(ctx context.Context, actor notification.Actor, id primitive.ObjectID) error
}

type TeamServiceImpl struct {
	repo     TeamRepository
	users    user.UserRepository
	notifier notification.Notifier
	log      *zap.Logger
}

func NewTeamService(repo TeamRepository, users user.UserRepository, notifier notification.Notifier, log *zap.Logger) TeamService {
	return &TeamServiceImpl{
		repo:     repo,
		users:    users,
		notifier: notifier,
		log:      log,
	}
}

type memberDiff struct {
	added     []primitive.ObjectID
	removed   []primitive.ObjectID
	unchanged []primitive.ObjectID
}

func diffMembers(before, after []primitive.ObjectID) memberDiff {
	old := make(map[primitive.ObjectID]bool, len(before))
	for _, id := range before {
		old[id] = true
	}
	next := make(map[primitive.ObjectID]bool, len(after))
	for _, id := range after {
		next[id] = true
	}

	var d memberDiff
	for _, id := range after {
		if old[id] {
			d.unchanged = append(d.unchanged, id)
		} else {
			d.added = append(d.added, id)
		}
	}
	for _, id := range before {
		if !next[id] {
			d.removed = append(d.removed, id)
		}
	}
	return d
}

func (s *TeamServiceImpl) CreateTeam(ctx context.Context, actor notification.Actor, team *Team) error {
	if team.Name == "" {
		return errors.New("team name is required")
	}

	if err := s.repo.Create(ctx, team); err != nil {
		return err
	}
	s.syncMembership(ctx, team.Name, team.Members, nil)

	ev := notification.TeamUpdated{
		Actor:    actor,
		TeamName: team.Name,
		Added:    team.Members,
	}
	if !team.Subadmin.IsZero() {
		subadmin := team.Subadmin
		ev.Subadmin = &subadmin
	}
	s.notifier.Dispatch(ctx, ev)
	return nil
}

func (s *TeamServiceImpl) GetAllTeams(ctx context.Context) ([]Team, error) {
	return s.repo.FindAll(ctx)
}

func (s *TeamServiceImpl) GetTeamByID(ctx context.Context, id primitive.ObjectID) (*Team, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TeamServiceImpl) UpdateTeam(ctx context.Context, actor notification.Actor, id primitive.ObjectID, team *Team) error {
	if team.Name == "" {
		return errors.New("team name is required")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Update(ctx, id, team); err != nil {
		return err
	}

	d := diffMembers(existing.Members, team.Members)
	s.syncMembership(ctx, team.Name, d.added, d.removed)

	ev := notification.TeamUpdated{
		Actor:     actor,
		TeamName:  team.Name,
		Added:     d.added,
		Removed:   d.removed,
		Unchanged: d.unchanged,
	}
	if team.Subadmin != existing.Subadmin && !team.Subadmin.IsZero() {
		subadmin := team.Subadmin
		ev.Subadmin = &subadmin
	}
	s.notifier.Dispatch(ctx, ev)
	return nil
}

func (s *TeamServiceImpl) DeleteTeam(ctx context.Context, actor notification.Actor, id primitive.ObjectID) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.syncMembership(ctx, existing.Name, nil, existing.Members)

	s.notifier.Dispatch(ctx, notification.TeamUpdated{
		Actor:    actor,
		TeamName: existing.Name,
		Removed:  existing.Members,
	})
	return nil
}

// syncMembership keeps the denormalized teams list on user documents in step
// with the team roster. Failures are logged, not surfaced: the team document
// is the source of truth.
func (s *TeamServiceImpl) syncMembership(ctx context.Context, teamName string, added, removed []primitive.ObjectID) {
	for _, id := range added {
		if err := s.users.AddToTeam(ctx, id, teamName); err != nil {
			s.log.Warn("failed to add user to team list", zap.String("team", teamName), zap.Error(err))
		}
	}
	for _, id := range removed {
		if err := s.users.RemoveFromTeam(ctx, id, teamName); err != nil {
			s.log.Warn("failed to remove user from team list", zap.String("team", teamName), zap.Error(err))
		}
	}
}
