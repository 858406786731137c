package repository

import (
	"context"
	"errors"
	"time"

	"devlink/internal/database"
	"devlink/internal/models"
	"devlink/internal/observability"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	// Upsert creates or updates the caller's profile with the given fields,
	// leaving fields not present in the update untouched.
	Upsert(ctx context.Context, userID bson.ObjectID, fields bson.M) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID bson.ObjectID) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	SetExperience(ctx context.Context, userID bson.ObjectID, experience []models.Experience) (*models.Profile, error)
	SetEducation(ctx context.Context, userID bson.ObjectID, education []models.Education) (*models.Profile, error)
	DeleteByUserID(ctx context.Context, userID bson.ObjectID) error
}

type profileRepository struct {
	collection *mongo.Collection
	log        *observability.RepoLogger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *mongo.Database) ProfileRepository {
	return &profileRepository{
		collection: db.Collection(database.ProfilesCollection),
		log:        observability.NewRepoLogger(database.ProfilesCollection),
	}
}

func (r *profileRepository) Upsert(ctx context.Context, userID bson.ObjectID, fields bson.M) (*models.Profile, error) {
	filter := bson.M{"user": userID}
	update := bson.M{
		"$set": fields,
		"$setOnInsert": bson.M{
			"user":       userID,
			"date":       time.Now(),
			"experience": []models.Experience{},
			"education":  []models.Education{},
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var profile models.Profile
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&profile); err != nil {
		r.log.LogError(ctx, err, "upsert")
		return nil, models.NewInternalError(err)
	}
	r.log.LogOp(ctx, "upsert", map[string]any{"user_id": userID.Hex()})
	return &profile, nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID bson.ObjectID) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"user": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.log.LogNotFound(ctx, models.NotFoundAbsent, userID.Hex())
			return nil, models.NewNotFoundError("Profile")
		}
		r.log.LogError(ctx, err, "read")
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		r.log.LogError(ctx, err, "list")
		return nil, models.NewInternalError(err)
	}
	defer cursor.Close(ctx)

	profiles := []*models.Profile{}
	if err := cursor.All(ctx, &profiles); err != nil {
		r.log.LogError(ctx, err, "list")
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *profileRepository) SetExperience(ctx context.Context, userID bson.ObjectID, experience []models.Experience) (*models.Profile, error) {
	return r.setList(ctx, userID, "experience", experience)
}

func (r *profileRepository) SetEducation(ctx context.Context, userID bson.ObjectID, education []models.Education) (*models.Profile, error) {
	return r.setList(ctx, userID, "education", education)
}

func (r *profileRepository) setList(ctx context.Context, userID bson.ObjectID, field string, value any) (*models.Profile, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var profile models.Profile
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"user": userID},
		bson.M{"$set": bson.M{field: value}},
		opts,
	).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.log.LogNotFound(ctx, models.NotFoundAbsent, userID.Hex())
			return nil, models.NewNotFoundError("Profile")
		}
		r.log.LogError(ctx, err, "update")
		return nil, models.NewInternalError(err)
	}
	r.log.LogOp(ctx, "update", map[string]any{"user_id": userID.Hex(), "field": field})
	return &profile, nil
}

func (r *profileRepository) DeleteByUserID(ctx context.Context, userID bson.ObjectID) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"user": userID}); err != nil {
		r.log.LogError(ctx, err, "delete")
		return models.NewInternalError(err)
	}
	r.log.LogOp(ctx, "delete", map[string]any{"user_id": userID.Hex()})
	return nil
}
