package team

import (
	"context"
	"time"

	"go-taskhub/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type TeamRepository interface {
	Create(ctx context.Context, team *Team) error
	FindAll(ctx context.Context) ([]Team, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Team, error)
	FindByName(ctx context.Context, name string) (*Team, error)
	Update(ctx context.Context, id primitive.ObjectID, team *Team) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type TeamRepositoryImpl struct {
	collection *mongo.Collection
}

func NewTeamRepository(db *database.MongodbDB) TeamRepository {
	return &TeamRepositoryImpl{
		collection: db.DB.Collection("teams"),
	}
}

func (r *TeamRepositoryImpl) Create(ctx context.Context, team *Team) error {
	team.CreatedAt = time.Now()
	team.UpdatedAt = time.Now()
	if team.Members == nil {
		team.Members = []primitive.ObjectID{}
	}

	result, err := r.collection.InsertOne(ctx, team)
	if err != nil {
		return err
	}
	team.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *TeamRepositoryImpl) FindAll(ctx context.Context) ([]Team, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var teams []Team
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *TeamRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Team, error) {
	var team Team
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&team); err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *TeamRepositoryImpl) FindByName(ctx context.Context, name string) (*Team, error) {
	var team Team
	if err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&team); err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *TeamRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, team *Team) error {
	team.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"name":       team.Name,
			"project":    team.Project,
			"members":    team.Members,
			"subadmin":   team.Subadmin,
			"updated_at": team.UpdatedAt,
		},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *TeamRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
