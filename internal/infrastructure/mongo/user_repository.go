package mongo

import (
	"context"
	"fmt"
	"time"

	"salesdesk/internal/domain/aggregate"
	"salesdesk/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"

type userDocument struct {
	ID             string    `bson:"_id"`
	Name           string    `bson:"name"`
	Email          string    `bson:"email"`
	HashedPassword string    `bson:"hashed_password"`
	Role           string    `bson:"role"`
	Active         bool      `bson:"active"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

// UserRepository persists user accounts as state documents.
type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(database *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: database.Collection(usersCollection),
	}
}

func (r *UserRepository) Save(ctx context.Context, user *aggregate.User) error {
	doc := &userDocument{
		ID:             user.ID(),
		Name:           user.Name(),
		Email:          user.Email(),
		HashedPassword: user.HashedPassword(),
		Role:           string(user.Role()),
		Active:         user.IsActive(),
		CreatedAt:      user.CreatedAt(),
		UpdatedAt:      user.UpdatedAt(),
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID()}, doc, opts); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*aggregate.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*aggregate.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*aggregate.User, error) {
	var doc userDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return aggregate.RehydrateUser(
		doc.ID, doc.Name, doc.Email, doc.HashedPassword,
		aggregate.UserRole(doc.Role), doc.Active, doc.CreatedAt, doc.UpdatedAt,
	), nil
}
