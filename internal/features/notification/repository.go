package notification

import (
	"context"
	"time"

	"go-taskhub/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecipientCount pairs a recipient with their stale-unread notification
// count, for the reminder job.
type RecipientCount struct {
	Recipient primitive.ObjectID `bson:"_id"`
	Count     int64              `bson:"count"`
}

type NotificationRepository interface {
	InsertMany(ctx context.Context, notifications []Notification) ([]Notification, error)
	FindPage(ctx context.Context, recipient primitive.ObjectID, category string, page, limit int64) ([]Notification, int64, error)
	FindByCategories(ctx context.Context, recipient primitive.ObjectID, categories []string) ([]Notification, error)
	UnreadCount(ctx context.Context, recipient primitive.ObjectID) (int64, error)
	SetRead(ctx context.Context, id, recipient primitive.ObjectID, read bool) error
	MarkAllRead(ctx context.Context, recipient primitive.ObjectID) error
	StaleUnreadCounts(ctx context.Context, olderThan time.Time) ([]RecipientCount, error)
}

type NotificationRepositoryImpl struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *database.MongodbDB) NotificationRepository {
	return &NotificationRepositoryImpl{
		collection: db.DB.Collection("notifications"),
	}
}

func (r *NotificationRepositoryImpl) InsertMany(ctx context.Context, notifications []Notification) ([]Notification, error) {
	if len(notifications) == 0 {
		return notifications, nil
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(notifications))
	for i := range notifications {
		notifications[i].IsRead = false
		notifications[i].ReadAt = nil
		notifications[i].CreatedAt = now
		docs = append(docs, notifications[i])
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return nil, err
	}
	for i, id := range result.InsertedIDs {
		notifications[i].ID = id.(primitive.ObjectID)
	}
	return notifications, nil
}

func (r *NotificationRepositoryImpl) FindPage(ctx context.Context, recipient primitive.ObjectID, category string, page, limit int64) ([]Notification, int64, error) {
	filter := bson.M{"recipient": recipient}
	if category != "" {
		filter["category"] = category
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	skip := (page - 1) * limit
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	notifications := []Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *NotificationRepositoryImpl) FindByCategories(ctx context.Context, recipient primitive.ObjectID, categories []string) ([]Notification, error) {
	filter := bson.M{"recipient": recipient}
	if len(categories) > 0 {
		filter["category"] = bson.M{"$in": categories}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepositoryImpl) UnreadCount(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"recipient": recipient,
		"is_read":   false,
	})
}

func (r *NotificationRepositoryImpl) SetRead(ctx context.Context, id, recipient primitive.ObjectID, read bool) error {
	// is_read and read_at are updated as a pair; read_at is cleared on unread.
	var update bson.M
	if read {
		update = bson.M{"$set": bson.M{"is_read": true, "read_at": time.Now()}}
	} else {
		update = bson.M{"$set": bson.M{"is_read": false}, "$unset": bson.M{"read_at": ""}}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "recipient": recipient}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllRead(ctx context.Context, recipient primitive.ObjectID) error {
	now := time.Now()
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"recipient": recipient, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": now}},
	)
	return err
}

func (r *NotificationRepositoryImpl) StaleUnreadCounts(ctx context.Context, olderThan time.Time) ([]RecipientCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"is_read": false, "created_at": bson.M{"$lt": olderThan}}}},
		{{Key: "$group", Value: bson.M{"_id": "$recipient", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var counts []RecipientCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}
