package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"

	"devlink/internal/middleware"
	"devlink/internal/models"
	"devlink/internal/observability"
	"devlink/internal/service"
)

// GetMyProfile handles GET /api/profile/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.Me(c.Context(), middleware.UserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

// UpsertProfile handles POST /api/profile
func (s *Server) UpsertProfile(c *fiber.Ctx) error {
	var req struct {
		Status         string `json:"status"`
		Skills         string `json:"skills"`
		Company        string `json:"company"`
		Website        string `json:"website"`
		Location       string `json:"location"`
		Bio            string `json:"bio"`
		GithubUsername string `json:"githubusername"`
		Youtube        string `json:"youtube"`
		Twitter        string `json:"twitter"`
		Facebook       string `json:"facebook"`
		Linkedin       string `json:"linkedin"`
		Instagram      string `json:"instagram"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithAppError(c,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.Upsert(c.Context(), middleware.UserID(c), service.UpsertProfileInput{
		Status:         req.Status,
		Skills:         req.Skills,
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		GithubUsername: req.GithubUsername,
		Youtube:        req.Youtube,
		Twitter:        req.Twitter,
		Facebook:       req.Facebook,
		Linkedin:       req.Linkedin,
		Instagram:      req.Instagram,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

// GetProfiles handles GET /api/profile
func (s *Server) GetProfiles(c *fiber.Ctx) error {
	profiles, err := s.profileService.List(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profiles)
}

// GetProfileByUserID handles GET /api/profile/user/:user_id
//
// This route reports both a malformed id and an absent profile as a 400
// "Profile not found", unlike the 404 the post lookups use.
func (s *Server) GetProfileByUserID(c *fiber.Ctx) error {
	userID, err := bson.ObjectIDFromHex(c.Params("user_id"))
	if err != nil {
		observability.LookupMisses.WithLabelValues("profile", string(models.NotFoundMalformedID)).Inc()
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewMalformedIDError("Profile"))
	}

	profile, err := s.profileService.GetByUserID(c.Context(), userID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return models.RespondWithError(c, fiber.StatusBadRequest, err)
		}
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

// DeleteAccount handles DELETE /api/profile
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	if err := s.profileService.DeleteAccount(c.Context(), middleware.UserID(c)); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"msg": "User deleted",
	})
}

type experienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// AddExperience handles PUT /api/profile/experience
func (s *Server) AddExperience(c *fiber.Ctx) error {
	var req experienceRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithAppError(c,
			models.NewValidationError("Invalid request body"))
	}

	from, err := parseDate(req.From)
	if err != nil {
		return models.RespondWithAppError(c,
			models.NewValidationError("From date is invalid"))
	}
	to, err := parseOptionalDate(req.To)
	if err != nil {
		return models.RespondWithAppError(c,
			models.NewValidationError("To date is invalid"))
	}

	profile, err := s.profileService.AddExperience(c.Context(), middleware.UserID(c), service.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        from,
		To:          to,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

// DeleteExperience handles DELETE /api/profile/experience/:exp_id
func (s *Server) DeleteExperience(c *fiber.Ctx) error {
	// A malformed entry id matches nothing, so the delete is a no-op rather
	// than an error; the zero ObjectID never appears in a stored profile.
	entryID, _ := bson.ObjectIDFromHex(c.Params("exp_id"))

	profile, err := s.profileService.DeleteExperience(c.Context(), middleware.UserID(c), entryID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

type educationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// AddEducation handles PUT /api/profile/education
func (s *Server) AddEducation(c *fiber.Ctx) error {
	var req educationRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithAppError(c,
			models.NewValidationError("Invalid request body"))
	}

	from, err := parseDate(req.From)
	if err != nil {
		return models.RespondWithAppError(c,
			models.NewValidationError("From date is invalid"))
	}
	to, err := parseOptionalDate(req.To)
	if err != nil {
		return models.RespondWithAppError(c,
			models.NewValidationError("To date is invalid"))
	}

	profile, err := s.profileService.AddEducation(c.Context(), middleware.UserID(c), service.EducationInput{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

// DeleteEducation handles DELETE /api/profile/education/:edu_id
func (s *Server) DeleteEducation(c *fiber.Ctx) error {
	entryID, _ := bson.ObjectIDFromHex(c.Params("edu_id"))

	profile, err := s.profileService.DeleteEducation(c.Context(), middleware.UserID(c), entryID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

// GetGithubRepos handles GET /api/profile/github/:username
func (s *Server) GetGithubRepos(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return models.RespondWithAppError(c,
			models.NewValidationError("Username is required"))
	}

	repos, err := s.githubClient.Repos(c.Context(), username)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(repos)
}
