package server

import (
	"github.com/gofiber/fiber/v2"

	"devlink/internal/middleware"
	"devlink/internal/models"
	"devlink/internal/service"
)

// Register handles POST /api/users
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithAppError(c,
			models.NewValidationError("Invalid request body"))
	}

	token, err := s.authService.Register(c.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token": token,
	})
}

// Login handles POST /api/auth
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithAppError(c,
			models.NewValidationError("Invalid request body"))
	}

	token, err := s.authService.Authenticate(c.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"token": token,
	})
}

// GetAuthUser handles GET /api/auth
func (s *Server) GetAuthUser(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	user, err := s.authService.CurrentUser(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}
