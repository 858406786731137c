package service

import (
	"context"
	"strings"
	"testing"

	"devlink/internal/config"
	"devlink/internal/middleware"
	"devlink/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

func setupTokens(t *testing.T) {
	t.Helper()
	middleware.InitMiddleware(&config.Config{JWTSecret: "service-test-secret"})
}

func TestRegister(t *testing.T) {
	setupTokens(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, nil)
		userRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := NewAuthService(userRepo)
		token, err := svc.Register(ctx, RegisterInput{
			Name: "Jane Doe", Email: "new@example.com", Password: "password",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		created := userRepo.Calls[1].Arguments.Get(1).(*models.User)
		assert.Equal(t, "new@example.com", created.Email)
		assert.Contains(t, created.Avatar, "gravatar.com/avatar/")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("password")))
	})

	t.Run("Email Is Normalized", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByEmail", mock.Anything, "upper@example.com").Return(nil, nil)
		userRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := NewAuthService(userRepo)
		_, err := svc.Register(ctx, RegisterInput{
			Name: "Jane", Email: "  Upper@Example.COM ", Password: "password",
		})
		require.NoError(t, err)
		userRepo.AssertCalled(t, "GetByEmail", mock.Anything, "upper@example.com")
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByEmail", mock.Anything, "exists@example.com").
			Return(&models.User{ID: bson.NewObjectID()}, nil)

		svc := NewAuthService(userRepo)
		_, err := svc.Register(ctx, RegisterInput{
			Name: "Jane", Email: "exists@example.com", Password: "password",
		})
		require.Error(t, err)

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeConflict, appErr.Code)
		userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Collects All Violations", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository))
		_, err := svc.Register(ctx, RegisterInput{Name: "", Email: "bad", Password: "123"})
		require.Error(t, err)

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeValidation, appErr.Code)
		assert.Len(t, appErr.Fields, 3)
	})
}

func TestAuthenticate(t *testing.T) {
	setupTokens(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	account := &models.User{ID: bson.NewObjectID(), Email: "user@example.com", Password: string(hash)}

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(account, nil)

		svc := NewAuthService(userRepo)
		token, err := svc.Authenticate(ctx, LoginInput{Email: "user@example.com", Password: "password"})
		require.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("Unknown Email And Wrong Password Are Indistinguishable", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(account, nil)
		userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)

		svc := NewAuthService(userRepo)

		_, wrongPass := svc.Authenticate(ctx, LoginInput{Email: "user@example.com", Password: "nope-nope"})
		_, unknown := svc.Authenticate(ctx, LoginInput{Email: "ghost@example.com", Password: "password"})

		require.Error(t, wrongPass)
		require.Error(t, unknown)
		assert.Equal(t, wrongPass.Error(), unknown.Error())

		var a, b *models.AppError
		require.ErrorAs(t, wrongPass, &a)
		require.ErrorAs(t, unknown, &b)
		assert.Equal(t, models.StatusCode(a), models.StatusCode(b))
	})

	t.Run("Missing Password", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository))
		_, err := svc.Authenticate(ctx, LoginInput{Email: "user@example.com"})
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "Password is required"))
	})
}
