package chat

import (
	"context"
	"errors"
	"time"

	"go-taskhub/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ChatRepository interface {
	Insert(ctx context.Context, msg *ChatMessage) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*ChatMessage, error)
	FindByRoom(ctx context.Context, room string, limit int64) ([]ChatMessage, error)
	UpdateText(ctx context.Context, id primitive.ObjectID, text string) error
}

type ChatRepositoryImpl struct {
	collection *mongo.Collection
}

func NewChatRepository(db *database.MongodbDB) ChatRepository {
	return &ChatRepositoryImpl{
		collection: db.DB.Collection("chat_messages"),
	}
}

func (r *ChatRepositoryImpl) Insert(ctx context.Context, msg *ChatMessage) error {
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	now := time.Now()
	msg.CreatedAt = now
	msg.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, msg)
	return err
}

func (r *ChatRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*ChatMessage, error) {
	var msg ChatMessage
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// FindByRoom returns the most recent messages in a room, oldest first.
func (r *ChatRepositoryImpl) FindByRoom(ctx context.Context, room string, limit int64) ([]ChatMessage, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"room": room}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []ChatMessage{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *ChatRepositoryImpl) UpdateText(ctx context.Context, id primitive.ObjectID, text string) error {
	update := bson.M{"$set": bson.M{
		"text":       text,
		"edited":     true,
		"updated_at": time.Now(),
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
