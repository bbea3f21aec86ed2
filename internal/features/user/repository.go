package user

import (
	"context"
	"time"

	"go-taskhub/internal/database"
	"go-taskhub/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]User, error)
	List(ctx context.Context) ([]User, error)

	// Recipient-set lookups used by the notification fan-out.
	AdminIDs(ctx context.Context) ([]primitive.ObjectID, error)
	StaffIDs(ctx context.Context) ([]primitive.ObjectID, error)
	SubadminIDFor(ctx context.Context, team string) (primitive.ObjectID, bool, error)
	TeamMemberIDs(ctx context.Context, team string) ([]primitive.ObjectID, error)
	IsTeamMember(ctx context.Context, userID primitive.ObjectID, team string) (bool, error)

	AddToTeam(ctx context.Context, userID primitive.ObjectID, team string) error
	RemoveFromTeam(ctx context.Context, userID primitive.ObjectID, team string) error
}

type UserRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewUserRepository(mongodb *database.MongodbDB) UserRepository {
	return &UserRepositoryImpl{
		Collection: mongodb.DB.Collection("users"),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	result, err := r.Collection.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var user User
	if err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := r.Collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]User, error) {
	if len(ids) == 0 {
		return []User{}, nil
	}
	cursor, err := r.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepositoryImpl) List(ctx context.Context) ([]User, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepositoryImpl) AdminIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return r.findIDs(ctx, bson.M{"role": utils.RoleAdmin})
}

func (r *UserRepositoryImpl) StaffIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return r.findIDs(ctx, bson.M{"role": bson.M{"$in": []string{utils.RoleAdmin, utils.RoleSubadmin}}})
}

func (r *UserRepositoryImpl) SubadminIDFor(ctx context.Context, team string) (primitive.ObjectID, bool, error) {
	var user User
	err := r.Collection.FindOne(ctx, bson.M{"role": utils.RoleSubadmin, "teams": team}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return primitive.NilObjectID, false, nil
	}
	if err != nil {
		return primitive.NilObjectID, false, err
	}
	return user.ID, true, nil
}

func (r *UserRepositoryImpl) TeamMemberIDs(ctx context.Context, team string) ([]primitive.ObjectID, error) {
	return r.findIDs(ctx, bson.M{"teams": team})
}

func (r *UserRepositoryImpl) IsTeamMember(ctx context.Context, userID primitive.ObjectID, team string) (bool, error) {
	count, err := r.Collection.CountDocuments(ctx, bson.M{"_id": userID, "teams": team})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepositoryImpl) AddToTeam(ctx context.Context, userID primitive.ObjectID, team string) error {
	update := bson.M{
		"$addToSet": bson.M{"teams": team},
		"$set":      bson.M{"updated_at": time.Now()},
	}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	return err
}

func (r *UserRepositoryImpl) RemoveFromTeam(ctx context.Context, userID primitive.ObjectID, team string) error {
	update := bson.M{
		"$pull": bson.M{"teams": team},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	return err
}

func (r *UserRepositoryImpl) findIDs(ctx context.Context, filter bson.M) ([]primitive.ObjectID, error) {
	cursor, err := r.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}
