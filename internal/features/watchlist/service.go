package watchlist

import (
	"context"
	"time"

	"go-taskhub/internal/features/user"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserFinder resolves public profiles for the settings views. Implemented by
// the user repository.
type UserFinder interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]user.User, error)
}

// WatcherInput is one incoming entry of a full-replace settings update.
type WatcherInput struct {
	UserID       string   `json:"userId"`
	AllowedTypes []string `json:"allowedTypes"`
}

// WatcherView is a watcher entry joined with the watcher's public profile.
type WatcherView struct {
	UserID       primitive.ObjectID `json:"userId"`
	Email        string             `json:"email"`
	Name         string             `json:"name"`
	Role         string             `json:"role"`
	AllowedTypes []string           `json:"allowedTypes"`
}

// OwnerGrant describes an owner who granted the viewer access, with the
// viewer's own allowed types for that owner.
type OwnerGrant struct {
	OwnerID      primitive.ObjectID `json:"ownerId"`
	Email        string             `json:"email"`
	Name         string             `json:"name"`
	Role         string             `json:"role"`
	AllowedTypes []string           `json:"allowedTypes"`
}

type WatchlistService interface {
	CanView(ctx context.Context, viewer, owner primitive.ObjectID, requestedType string) (ViewDecision, error)
	UpdateWatchers(ctx context.Context, owner primitive.ObjectID, watchers []WatcherInput) error
	GetMySettings(ctx context.Context, owner primitive.ObjectID) ([]WatcherView, error)
	ListWatchableOwners(ctx context.Context, viewer primitive.ObjectID) ([]OwnerGrant, error)
}

type WatchlistServiceImpl struct {
	repo  WatchlistRepository
	users UserFinder
}

func NewWatchlistService(repo WatchlistRepository, users UserFinder) WatchlistService {
	return &WatchlistServiceImpl{
		repo:  repo,
		users: users,
	}
}

// CanView authorizes viewer's access to owner's notifications. An absent
// watchlist or a missing watcher entry is a policy denial, distinct from
// "owner has no notifications".
func (s *WatchlistServiceImpl) CanView(ctx context.Context, viewer, owner primitive.ObjectID, requestedType string) (ViewDecision, error) {
	if viewer == owner {
		return ViewDecision{Allowed: true}, nil
	}

	wl, err := s.repo.FindByOwner(ctx, owner)
	if err != nil {
		return ViewDecision{}, err
	}
	if wl == nil {
		return ViewDecision{}, nil
	}

	var entry *WatcherEntry
	for i := range wl.Watchers {
		if wl.Watchers[i].User == viewer {
			entry = &wl.Watchers[i]
			break
		}
	}
	if entry == nil {
		return ViewDecision{}, nil
	}

	allowed := normalizeTypes(entry.AllowedTypes)

	if containsType(allowed, TypeAll) {
		// A requested type on a full grant is a caller preference, not a
		// widening; filter down to it.
		if requestedType != "" {
			return ViewDecision{Allowed: true, Filter: []string{requestedType}}, nil
		}
		return ViewDecision{Allowed: true}, nil
	}

	if requestedType != "" {
		if !containsType(allowed, requestedType) {
			// Allowed but nothing of this type is visible: an empty result,
			// not a rejection.
			return ViewDecision{Allowed: true, Empty: true}, nil
		}
		return ViewDecision{Allowed: true, Filter: []string{requestedType}}, nil
	}

	return ViewDecision{Allowed: true, Filter: allowed}, nil
}

// UpdateWatchers replaces the owner's watcher list wholesale. Duplicate
// entries for one user collapse to the first; empty type grants default to
// ["all"].
func (s *WatchlistServiceImpl) UpdateWatchers(ctx context.Context, owner primitive.ObjectID, watchers []WatcherInput) error {
	now := time.Now()
	seen := map[primitive.ObjectID]bool{}
	entries := make([]WatcherEntry, 0, len(watchers))

	for _, w := range watchers {
		id, err := primitive.ObjectIDFromHex(w.UserID)
		if err != nil || id == owner || seen[id] {
			continue
		}
		seen[id] = true
		entries = append(entries, WatcherEntry{
			User:         id,
			AllowedTypes: normalizeTypes(w.AllowedTypes),
			AddedAt:      now,
		})
	}

	return s.repo.Replace(ctx, owner, entries)
}

func (s *WatchlistServiceImpl) GetMySettings(ctx context.Context, owner primitive.ObjectID) ([]WatcherView, error) {
	wl, err := s.repo.FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if wl == nil || len(wl.Watchers) == 0 {
		return []WatcherView{}, nil
	}

	ids := make([]primitive.ObjectID, 0, len(wl.Watchers))
	for _, w := range wl.Watchers {
		ids = append(ids, w.User)
	}
	profiles, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]user.User, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	views := make([]WatcherView, 0, len(wl.Watchers))
	for _, w := range wl.Watchers {
		p, ok := byID[w.User]
		if !ok {
			// Watcher user no longer exists; skip the stale entry.
			continue
		}
		views = append(views, WatcherView{
			UserID:       w.User,
			Email:        p.Email,
			Name:         p.Name,
			Role:         p.Role,
			AllowedTypes: normalizeTypes(w.AllowedTypes),
		})
	}
	return views, nil
}

func (s *WatchlistServiceImpl) ListWatchableOwners(ctx context.Context, viewer primitive.ObjectID) ([]OwnerGrant, error) {
	lists, err := s.repo.FindByWatcher(ctx, viewer)
	if err != nil {
		return nil, err
	}
	if len(lists) == 0 {
		return []OwnerGrant{}, nil
	}

	ownerIDs := make([]primitive.ObjectID, 0, len(lists))
	for _, wl := range lists {
		ownerIDs = append(ownerIDs, wl.Owner)
	}
	profiles, err := s.users.FindByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]user.User, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	grants := make([]OwnerGrant, 0, len(lists))
	for _, wl := range lists {
		p, ok := byID[wl.Owner]
		if !ok {
			continue
		}
		for _, w := range wl.Watchers {
			if w.User != viewer {
				continue
			}
			grants = append(grants, OwnerGrant{
				OwnerID:      wl.Owner,
				Email:        p.Email,
				Name:         p.Name,
				Role:         p.Role,
				AllowedTypes: normalizeTypes(w.AllowedTypes),
			})
			break
		}
	}
	return grants, nil
}
