package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"devlink/internal/config"
	"devlink/internal/middleware"
	"devlink/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

// newTestServer builds a Server on mock repositories, wired the same way
// production construction wires it.
func newTestServer(t *testing.T, userRepo *MockUserRepository, profileRepo *MockProfileRepository, postRepo *MockPostRepository) (*Server, *fiber.App) {
	t.Helper()

	cfg := &config.Config{JWTSecret: "handler-test-secret", Env: "test"}
	middleware.InitMiddleware(cfg)

	s := &Server{
		config:      cfg,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		postRepo:    postRepo,
	}
	s.wireServices()

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

func jsonRequest(t *testing.T, method, path string, body any, token string) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("Success Returns Token", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, nil)
		userRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		_, app := newTestServer(t, userRepo, new(MockProfileRepository), new(MockPostRepository))

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/users", map[string]string{
			"name": "Jane", "email": "new@example.com", "password": "password",
		}, ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Token string `json:"token"`
		}
		decodeBody(t, resp, &body)
		assert.NotEmpty(t, body.Token)

		// The token must authenticate follow-up requests.
		_, err = middleware.VerifyToken(body.Token)
		assert.NoError(t, err)
	})

	t.Run("Duplicate Email Is 400", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByEmail", mock.Anything, "exists@example.com").
			Return(&models.User{ID: bson.NewObjectID()}, nil)
		_, app := newTestServer(t, userRepo, new(MockProfileRepository), new(MockPostRepository))

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/users", map[string]string{
			"name": "Jane", "email": "exists@example.com", "password": "password",
		}, ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body struct {
			Error string `json:"error"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, "User already exists", body.Error)
	})

	t.Run("Validation Failures List Every Violation", func(t *testing.T) {
		_, app := newTestServer(t, new(MockUserRepository), new(MockProfileRepository), new(MockPostRepository))

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/users", map[string]string{
			"name": "", "email": "bad", "password": "123",
		}, ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body struct {
			Errors []string `json:"errors"`
		}
		decodeBody(t, resp, &body)
		assert.Len(t, body.Errors, 3)
	})
}

func TestLoginEndpoint(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	account := &models.User{ID: bson.NewObjectID(), Email: "user@example.com", Password: string(hash)}

	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(account, nil)
		_, app := newTestServer(t, userRepo, new(MockProfileRepository), new(MockPostRepository))

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth", map[string]string{
			"email": "user@example.com", "password": "password",
		}, ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Wrong Password And Unknown Email Respond Identically", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByEmail", mock.Anything, "user@example.com").Return(account, nil)
		userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)
		_, app := newTestServer(t, userRepo, new(MockProfileRepository), new(MockPostRepository))

		respA, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth", map[string]string{
			"email": "user@example.com", "password": "wrong-password",
		}, ""))
		require.NoError(t, err)
		respB, err := app.Test(jsonRequest(t, http.MethodPost, "/api/auth", map[string]string{
			"email": "ghost@example.com", "password": "password",
		}, ""))
		require.NoError(t, err)

		assert.Equal(t, respA.StatusCode, respB.StatusCode)
		bodyA, _ := io.ReadAll(respA.Body)
		bodyB, _ := io.ReadAll(respB.Body)
		_ = respA.Body.Close()
		_ = respB.Body.Close()
		assert.Equal(t, string(bodyA), string(bodyB))
	})
}

func TestGetAuthUserEndpoint(t *testing.T) {
	userID := bson.NewObjectID()
	account := &models.User{ID: userID, Name: "Jane", Email: "user@example.com", Password: "hashed"}

	t.Run("Password Never Serialized", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("GetByID", mock.Anything, userID).Return(account, nil)
		_, app := newTestServer(t, userRepo, new(MockProfileRepository), new(MockPostRepository))

		token, err := middleware.GenerateToken(userID)
		require.NoError(t, err)

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/auth", nil, token))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		raw, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		assert.NotContains(t, string(raw), "hashed")
		assert.NotContains(t, string(raw), "password")
		assert.Contains(t, string(raw), "user@example.com")
	})

	t.Run("Missing Token Is 401", func(t *testing.T) {
		_, app := newTestServer(t, new(MockUserRepository), new(MockProfileRepository), new(MockPostRepository))

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/auth", nil, ""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var body struct {
			Error string `json:"error"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, "No token, authorization denied", body.Error)
	})

	t.Run("Garbage Token Is 401", func(t *testing.T) {
		_, app := newTestServer(t, new(MockUserRepository), new(MockProfileRepository), new(MockPostRepository))

		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/auth", nil, "garbage"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
