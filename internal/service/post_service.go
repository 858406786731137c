package service

import (
	"context"
	"strings"
	"time"

	"devlink/internal/models"
	"devlink/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// PostService handles posts, likes and comments.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

// Create stores a new post. The author's name and avatar are copied onto the
// post at creation time and do not track later account changes.
func (s *PostService) Create(ctx context.Context, userID bson.ObjectID, text string) (*models.Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("Text is required")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:    userID,
		Text:      text,
		Name:      user.Name,
		Avatar:    user.Avatar,
		Likes:     []models.Like{},
		Comments:  []models.Comment{},
		CreatedAt: time.Now(),
	}
	return s.postRepo.Create(ctx, post)
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx)
}

// Get returns a single post by id.
func (s *PostService) Get(ctx context.Context, postID bson.ObjectID) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

// Delete removes a post. Only its author may delete it.
func (s *PostService) Delete(ctx context.Context, postID, userID bson.ObjectID) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError("User not authorized")
	}
	return s.postRepo.Delete(ctx, postID)
}

// Like records that userID likes the post and returns the updated like list.
// Liking a post twice is rejected.
func (s *PostService) Like(ctx context.Context, postID, userID bson.ObjectID) ([]models.Like, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.LikedBy(userID) {
		return nil, models.NewConflictError("Post already liked")
	}

	likes := append([]models.Like{{ID: bson.NewObjectID(), UserID: userID}}, post.Likes...)
	if err := s.postRepo.SetLikes(ctx, postID, likes); err != nil {
		return nil, err
	}
	return likes, nil
}

// Unlike removes userID's like and returns the updated like list. Unliking a
// post that was never liked is rejected.
func (s *PostService) Unlike(ctx context.Context, postID, userID bson.ObjectID) ([]models.Like, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, l := range post.Likes {
		if l.UserID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, models.NewConflictError("Post has not yet been liked")
	}

	likes := append(post.Likes[:idx:idx], post.Likes[idx+1:]...)
	if err := s.postRepo.SetLikes(ctx, postID, likes); err != nil {
		return nil, err
	}
	return likes, nil
}

// AddComment prepends a comment to the post and returns the updated comment
// list. Like posts, comments snapshot the author's name and avatar.
func (s *PostService) AddComment(ctx context.Context, postID, userID bson.ObjectID, text string) ([]models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("Text is required")
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:        bson.NewObjectID(),
		UserID:    userID,
		Text:      text,
		Name:      user.Name,
		Avatar:    user.Avatar,
		CreatedAt: time.Now(),
	}
	comments := append([]models.Comment{comment}, post.Comments...)
	if err := s.postRepo.SetComments(ctx, postID, comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment removes a comment and returns the remaining comment list.
// Only the comment's author may delete it.
func (s *PostService) DeleteComment(ctx context.Context, postID, commentID, userID bson.ObjectID) ([]models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := post.CommentByID(commentID)
	if comment == nil {
		return nil, models.NewNotFoundError("Comment")
	}
	if comment.UserID != userID {
		return nil, models.NewUnauthorizedError("User not authorized")
	}

	comments := make([]models.Comment, 0, len(post.Comments)-1)
	for _, c := range post.Comments {
		if c.ID != commentID {
			comments = append(comments, c)
		}
	}
	if err := s.postRepo.SetComments(ctx, postID, comments); err != nil {
		return nil, err
	}
	return comments, nil
}
