package server

import (
	"github.com/gofiber/fiber/v2"

	"devlink/internal/middleware"
	"devlink/internal/models"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithAppError(c,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Create(c.Context(), middleware.UserID(c), req.Text)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.List(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseObjectID(c, "id", "Post")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(c.Context(), postID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseObjectID(c, "id", "Post")
	if err != nil {
		return nil
	}

	if err := s.postService.Delete(c.Context(), postID, middleware.UserID(c)); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"msg": "Post removed",
	})
}

// LikePost handles PUT /api/posts/like/:id
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := s.parseObjectID(c, "id", "Post")
	if err != nil {
		return nil
	}

	likes, err := s.postService.Like(c.Context(), postID, middleware.UserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(likes)
}

// UnlikePost handles PUT /api/posts/unlike/:id
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	postID, err := s.parseObjectID(c, "id", "Post")
	if err != nil {
		return nil
	}

	likes, err := s.postService.Unlike(c.Context(), postID, middleware.UserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(likes)
}

// AddComment handles POST /api/posts/comment/:id
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := s.parseObjectID(c, "id", "Post")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithAppError(c,
			models.NewValidationError("Invalid request body"))
	}

	comments, err := s.postService.AddComment(c.Context(), postID, middleware.UserID(c), req.Text)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(comments)
}

// DeleteComment handles DELETE /api/posts/comment/:id/:comment_id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	postID, err := s.parseObjectID(c, "id", "Post")
	if err != nil {
		return nil
	}
	commentID, err := s.parseObjectID(c, "comment_id", "Comment")
	if err != nil {
		return nil
	}

	comments, err := s.postService.DeleteComment(c.Context(), postID, commentID, middleware.UserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(comments)
}
