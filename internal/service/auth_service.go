package service

import (
	"context"
	"strings"
	"time"

	"devlink/internal/gravatar"
	"devlink/internal/middleware"
	"devlink/internal/models"
	"devlink/internal/repository"
	"devlink/internal/validation"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// AuthService handles registration and credential verification.
type AuthService struct {
	userRepo repository.UserRepository
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Register creates a new user and returns a signed token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	var violations []string
	if err := validation.ValidateName(in.Name); err != nil {
		violations = append(violations, err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		violations = append(violations, err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		violations = append(violations, err.Error())
	}
	if len(violations) > 0 {
		return "", models.NewValidationErrors(violations...)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", models.NewConflictError("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	user := &models.User{
		Name:      in.Name,
		Email:     email,
		Password:  string(hash),
		Avatar:    gravatar.URL(email),
		CreatedAt: time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", err
	}

	token, err := middleware.GenerateToken(user.ID)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return token, nil
}

// Authenticate verifies an email/password pair and returns a signed token.
// Unknown email and wrong password produce the same error so callers
// cannot probe which accounts exist.
func (s *AuthService) Authenticate(ctx context.Context, in LoginInput) (string, error) {
	var violations []string
	if err := validation.ValidateEmail(in.Email); err != nil {
		violations = append(violations, err.Error())
	}
	if in.Password == "" {
		violations = append(violations, "Password is required")
	}
	if len(violations) > 0 {
		return "", models.NewValidationErrors(violations...)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", models.NewValidationError("Invalid Credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return "", models.NewValidationError("Invalid Credentials")
	}

	token, err := middleware.GenerateToken(user.ID)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return token, nil
}

// CurrentUser loads the authenticated user's record.
func (s *AuthService) CurrentUser(ctx context.Context, userID bson.ObjectID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
