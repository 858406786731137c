package repository

import (
	"context"
	"errors"

	"devlink/internal/database"
	"devlink/internal/models"
	"devlink/internal/observability"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*models.Post, error)
	// List returns all posts, newest first.
	List(ctx context.Context) ([]*models.Post, error)
	Delete(ctx context.Context, id bson.ObjectID) error
	DeleteByUser(ctx context.Context, userID bson.ObjectID) (int64, error)
	SetLikes(ctx context.Context, postID bson.ObjectID, likes []models.Like) error
	SetComments(ctx context.Context, postID bson.ObjectID, comments []models.Comment) error
}

type postRepository struct {
	collection *mongo.Collection
	log        *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *mongo.Database) PostRepository {
	return &postRepository{
		collection: db.Collection(database.PostsCollection),
		log:        observability.NewRepoLogger(database.PostsCollection),
	}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if post.ID.IsZero() {
		post.ID = bson.NewObjectID()
	}
	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	if _, err := r.collection.InsertOne(ctx, post); err != nil {
		r.log.LogError(ctx, err, "create")
		return nil, models.NewInternalError(err)
	}
	r.log.LogOp(ctx, "create", map[string]any{"post_id": post.ID.Hex()})
	return post, nil
}

func (r *postRepository) GetByID(ctx context.Context, id bson.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			r.log.LogNotFound(ctx, models.NotFoundAbsent, id.Hex())
			return nil, models.NewNotFoundError("Post")
		}
		r.log.LogError(ctx, err, "read")
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.log.LogError(ctx, err, "list")
		return nil, models.NewInternalError(err)
	}
	defer cursor.Close(ctx)

	posts := []*models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		r.log.LogError(ctx, err, "list")
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.log.LogError(ctx, err, "delete")
		return models.NewInternalError(err)
	}
	if result.DeletedCount == 0 {
		r.log.LogNotFound(ctx, models.NotFoundAbsent, id.Hex())
		return models.NewNotFoundError("Post")
	}
	r.log.LogOp(ctx, "delete", map[string]any{"post_id": id.Hex()})
	return nil
}

func (r *postRepository) DeleteByUser(ctx context.Context, userID bson.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"user": userID})
	if err != nil {
		r.log.LogError(ctx, err, "delete")
		return 0, models.NewInternalError(err)
	}
	r.log.LogOp(ctx, "delete", map[string]any{"user_id": userID.Hex(), "count": result.DeletedCount})
	return result.DeletedCount, nil
}

func (r *postRepository) SetLikes(ctx context.Context, postID bson.ObjectID, likes []models.Like) error {
	return r.setList(ctx, postID, "likes", likes)
}

func (r *postRepository) SetComments(ctx context.Context, postID bson.ObjectID, comments []models.Comment) error {
	return r.setList(ctx, postID, "comments", comments)
}

func (r *postRepository) setList(ctx context.Context, postID bson.ObjectID, field string, value any) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$set": bson.M{field: value}},
	)
	if err != nil {
		r.log.LogError(ctx, err, "update")
		return models.NewInternalError(err)
	}
	if result.MatchedCount == 0 {
		r.log.LogNotFound(ctx, models.NotFoundAbsent, postID.Hex())
		return models.NewNotFoundError("Post")
	}
	return nil
}
