// Package repository implements data access over the MongoDB collections.
package repository

import (
	"context"
	"errors"

	"devlink/internal/database"
	"devlink/internal/models"
	"devlink/internal/observability"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id bson.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetRefs(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]models.UserRef, error)
	Delete(ctx context.Context, id bson.ObjectID) error
}

type userRepository struct {
	collection *mongo.Collection
	log        *observability.RepoLogger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{
		collection: db.Collection(database.UsersCollection),
		log:        observability.NewRepoLogger(database.UsersCollection),
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.NewConflictError("User already exists")
		}
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogOp(ctx, "create", map[string]any{"user_id": user.ID.Hex()})
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.log.LogNotFound(ctx, models.NotFoundAbsent, id.Hex())
			return nil, models.NewNotFoundError("User")
		}
		r.log.LogError(ctx, err, "read")
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // Return nil for not found, not an error
		}
		r.log.LogError(ctx, err, "read")
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetRefs(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]models.UserRef, error) {
	refs := make(map[bson.ObjectID]models.UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		r.log.LogError(ctx, err, "read")
		return nil, models.NewInternalError(err)
	}
	defer cursor.Close(ctx)

	var users []models.UserRef
	if err := cursor.All(ctx, &users); err != nil {
		r.log.LogError(ctx, err, "read")
		return nil, models.NewInternalError(err)
	}
	for _, u := range users {
		refs[u.ID] = u
	}
	return refs, nil
}

func (r *userRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		r.log.LogError(ctx, err, "delete")
		return models.NewInternalError(err)
	}
	r.log.LogOp(ctx, "delete", map[string]any{"user_id": id.Hex()})
	return nil
}
