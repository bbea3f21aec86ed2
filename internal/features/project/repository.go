package project

import (
	"context"
	"time"

	"go-taskhub/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProjectRepository interface {
	Create(ctx context.Context, p *Project) error
	FindAll(ctx context.Context) ([]Project, error)
	FindBySlug(ctx context.Context, slug string) (*Project, error)
	Update(ctx context.Context, id primitive.ObjectID, p *Project) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ProjectRepositoryImpl struct {
	collection *mongo.Collection
}

func NewProjectRepository(db *database.MongodbDB) ProjectRepository {
	return &ProjectRepositoryImpl{
		collection: db.DB.Collection("projects"),
	}
}

func (r *ProjectRepositoryImpl) Create(ctx context.Context, p *Project) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, p)
	return err
}

func (r *ProjectRepositoryImpl) FindAll(ctx context.Context) ([]Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	projects := []Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*Project, error) {
	var p Project
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, p *Project) error {
	p.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"name":        p.Name,
		"slug":        p.Slug,
		"description": p.Description,
		"updated_at":  p.UpdatedAt,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *ProjectRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
