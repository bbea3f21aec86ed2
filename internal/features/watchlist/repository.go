package watchlist

import (
	"context"
	"time"

	"go-taskhub/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type WatchlistRepository interface {
	// Replace upserts the owner's document with the given watchers array.
	// Last write wins; there is no merge with prior state.
	Replace(ctx context.Context, owner primitive.ObjectID, watchers []WatcherEntry) error
	// FindByOwner returns nil (no error) when the owner has no document.
	FindByOwner(ctx context.Context, owner primitive.ObjectID) (*Watchlist, error)
	FindByWatcher(ctx context.Context, watcher primitive.ObjectID) ([]Watchlist, error)
}

type WatchlistRepositoryImpl struct {
	collection *mongo.Collection
}

func NewWatchlistRepository(db *database.MongodbDB) WatchlistRepository {
	return &WatchlistRepositoryImpl{
		collection: db.DB.Collection("watchlists"),
	}
}

func (r *WatchlistRepositoryImpl) Replace(ctx context.Context, owner primitive.ObjectID, watchers []WatcherEntry) error {
	if watchers == nil {
		watchers = []WatcherEntry{}
	}

	update := bson.M{
		"$set": bson.M{
			"watchers":   watchers,
			"updated_at": time.Now(),
		},
		"$setOnInsert": bson.M{"owner": owner},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"owner": owner}, update, opts)
	return err
}

func (r *WatchlistRepositoryImpl) FindByOwner(ctx context.Context, owner primitive.ObjectID) (*Watchlist, error) {
	var wl Watchlist
	err := r.collection.FindOne(ctx, bson.M{"owner": owner}).Decode(&wl)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wl, nil
}

func (r *WatchlistRepositoryImpl) FindByWatcher(ctx context.Context, watcher primitive.ObjectID) ([]Watchlist, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"watchers.user": watcher})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var lists []Watchlist
	if err := cursor.All(ctx, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}
