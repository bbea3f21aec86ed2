package watchlist

import (
	"context"
	"testing"
	"time"

	"go-taskhub/internal/features/user"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeWatchlistRepo struct {
	lists    map[primitive.ObjectID]*Watchlist
	replaced []WatcherEntry
}

func newFakeWatchlistRepo() *fakeWatchlistRepo {
	return &fakeWatchlistRepo{lists: map[primitive.ObjectID]*Watchlist{}}
}

func (f *fakeWatchlistRepo) Replace(ctx context.Context, owner primitive.ObjectID, watchers []WatcherEntry) error {
	f.replaced = watchers
	f.lists[owner] = &Watchlist{Owner: owner, Watchers: watchers, UpdatedAt: time.Now()}
	return nil
}

func (f *fakeWatchlistRepo) FindByOwner(ctx context.Context, owner primitive.ObjectID) (*Watchlist, error) {
	return f.lists[owner], nil
}

func (f *fakeWatchlistRepo) FindByWatcher(ctx context.Context, watcher primitive.ObjectID) ([]Watchlist, error) {
	var out []Watchlist
	for _, wl := range f.lists {
		for _, w := range wl.Watchers {
			if w.User == watcher {
				out = append(out, *wl)
				break
			}
		}
	}
	return out, nil
}

type fakeUserFinder struct {
	users []user.User
}

func (f *fakeUserFinder) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]user.User, error) {
	byID := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		byID[id] = true
	}
	var out []user.User
	for _, u := range f.users {
		if byID[u.ID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func TestCanView(t *testing.T) {
	owner := primitive.NewObjectID()
	viewer := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	repo := newFakeWatchlistRepo()
	repo.lists[owner] = &Watchlist{
		Owner: owner,
		Watchers: []WatcherEntry{
			{User: viewer, AllowedTypes: []string{"chat", "assignment"}},
		},
	}

	fullOwner := primitive.NewObjectID()
	repo.lists[fullOwner] = &Watchlist{
		Owner: fullOwner,
		Watchers: []WatcherEntry{
			{User: viewer, AllowedTypes: []string{"all"}},
		},
	}

	service := NewWatchlistService(repo, &fakeUserFinder{})

	tests := []struct {
		name          string
		viewer, owner primitive.ObjectID
		requestedType string
		wantAllowed   bool
		wantEmpty     bool
		wantFilter    []string
	}{
		{
			name:        "own notifications always allowed",
			viewer:      owner,
			owner:       owner,
			wantAllowed: true,
		},
		{
			name:   "no watchlist denies",
			viewer: viewer,
			owner:  stranger,
		},
		{
			name:   "not in watchers denies",
			viewer: stranger,
			owner:  owner,
		},
		{
			name:        "partial grant filters to granted types",
			viewer:      viewer,
			owner:       owner,
			wantAllowed: true,
			wantFilter:  []string{"chat", "assignment"},
		},
		{
			name:          "requested type inside grant",
			viewer:        viewer,
			owner:         owner,
			requestedType: "chat",
			wantAllowed:   true,
			wantFilter:    []string{"chat"},
		},
		{
			name:          "requested type outside grant yields empty",
			viewer:        viewer,
			owner:         owner,
			requestedType: "task_edit",
			wantAllowed:   true,
			wantEmpty:     true,
		},
		{
			name:        "full grant has no filter",
			viewer:      viewer,
			owner:       fullOwner,
			wantAllowed: true,
		},
		{
			name:          "requested type on full grant narrows",
			viewer:        viewer,
			owner:         fullOwner,
			requestedType: "chat",
			wantAllowed:   true,
			wantFilter:    []string{"chat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.CanView(context.Background(), tt.viewer, tt.owner, tt.requestedType)
			if err != nil {
				t.Fatalf("CanView() error = %v", err)
			}
			if got.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", got.Allowed, tt.wantAllowed)
			}
			if got.Empty != tt.wantEmpty {
				t.Errorf("Empty = %v, want %v", got.Empty, tt.wantEmpty)
			}
			if len(got.Filter) != len(tt.wantFilter) {
				t.Fatalf("Filter = %v, want %v", got.Filter, tt.wantFilter)
			}
			for i := range got.Filter {
				if got.Filter[i] != tt.wantFilter[i] {
					t.Errorf("Filter = %v, want %v", got.Filter, tt.wantFilter)
					break
				}
			}
		})
	}
}

func TestUpdateWatchers(t *testing.T) {
	owner := primitive.NewObjectID()
	watcher := primitive.NewObjectID()

	repo := newFakeWatchlistRepo()
	service := NewWatchlistService(repo, &fakeUserFinder{})

	input := []WatcherInput{
		{UserID: watcher.Hex(), AllowedTypes: []string{"chat", "bogus"}},
		{UserID: watcher.Hex(), AllowedTypes: []string{"all"}}, // duplicate, dropped
		{UserID: owner.Hex(), AllowedTypes: []string{"all"}},  // self, dropped
		{UserID: "not-a-hex-id", AllowedTypes: []string{"all"}},
	}
	if err := service.UpdateWatchers(context.Background(), owner, input); err != nil {
		t.Fatalf("UpdateWatchers() error = %v", err)
	}

	if len(repo.replaced) != 1 {
		t.Fatalf("replaced %d entries, want 1", len(repo.replaced))
	}
	entry := repo.replaced[0]
	if entry.User != watcher {
		t.Errorf("entry user = %v, want %v", entry.User, watcher)
	}
	if len(entry.AllowedTypes) != 1 || entry.AllowedTypes[0] != "chat" {
		t.Errorf("AllowedTypes = %v, want [chat]", entry.AllowedTypes)
	}
}

func TestUpdateWatchersEmptyTypesDefaultToAll(t *testing.T) {
	owner := primitive.NewObjectID()
	watcher := primitive.NewObjectID()

	repo := newFakeWatchlistRepo()
	service := NewWatchlistService(repo, &fakeUserFinder{})

	input := []WatcherInput{{UserID: watcher.Hex()}}
	if err := service.UpdateWatchers(context.Background(), owner, input); err != nil {
		t.Fatalf("UpdateWatchers() error = %v", err)
	}

	if len(repo.replaced) != 1 {
		t.Fatalf("replaced %d entries, want 1", len(repo.replaced))
	}
	if got := repo.replaced[0].AllowedTypes; len(got) != 1 || got[0] != TypeAll {
		t.Errorf("AllowedTypes = %v, want [all]", got)
	}
}

func TestGetMySettingsSkipsStaleWatchers(t *testing.T) {
	owner := primitive.NewObjectID()
	alive := primitive.NewObjectID()
	deleted := primitive.NewObjectID()

	repo := newFakeWatchlistRepo()
	repo.lists[owner] = &Watchlist{
		Owner: owner,
		Watchers: []WatcherEntry{
			{User: alive, AllowedTypes: []string{"all"}},
			{User: deleted, AllowedTypes: []string{"all"}},
		},
	}
	finder := &fakeUserFinder{users: []user.User{
		{ID: alive, Email: "alive@example.com", Name: "Alive", Role: "employee"},
	}}
	service := NewWatchlistService(repo, finder)

	views, err := service.GetMySettings(context.Background(), owner)
	if err != nil {
		t.Fatalf("GetMySettings() error = %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d views, want 1", len(views))
	}
	if views[0].UserID != alive {
		t.Errorf("view user = %v, want %v", views[0].UserID, alive)
	}
}
