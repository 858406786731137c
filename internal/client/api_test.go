package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"devlink/internal/middleware"
	"devlink/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestLoginFlow(t *testing.T) {
	t.Parallel()

	user := models.User{ID: bson.NewObjectID(), Name: "Jane", Email: "jane@example.com"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/auth":
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "session-token"})
		case r.Method == http.MethodGet && r.URL.Path == "/api/auth":
			assert.Equal(t, "session-token", r.Header.Get(middleware.TokenHeader))
			_ = json.NewEncoder(w).Encode(user)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	store := NewStore()
	api := NewAPI(srv.URL, store)

	require.NoError(t, api.Login(context.Background(), "jane@example.com", "password"))

	state := store.GetState()
	assert.True(t, state.Auth.IsAuthenticated)
	assert.Equal(t, "session-token", state.Auth.Token)
	require.NotNil(t, state.Auth.User)
	assert.Equal(t, "Jane", state.Auth.User.Name)
}

func TestLoginFailureDispatchesErrorAndAlert(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid Credentials"})
	}))
	defer srv.Close()

	store := NewStore()
	api := NewAPI(srv.URL, store)

	err := api.Login(context.Background(), "jane@example.com", "wrong")
	require.Error(t, err)

	state := store.GetState()
	assert.False(t, state.Auth.IsAuthenticated)
	require.Len(t, state.Alerts, 1)
	assert.Equal(t, "Invalid Credentials", state.Alerts[0].Msg)
	assert.Equal(t, "danger", state.Alerts[0].AlertType)
}

func TestRegisterValidationAlertsPerViolation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": "Validation failed",
			"code":  "VALIDATION_ERROR",
			"errors": []string{
				"Name is required",
				"Please include a valid email",
			},
		})
	}))
	defer srv.Close()

	store := NewStore()
	api := NewAPI(srv.URL, store)

	err := api.Register(context.Background(), "", "bad", "123")
	require.Error(t, err)

	state := store.GetState()
	require.Len(t, state.Alerts, 2)
	assert.Equal(t, "Name is required", state.Alerts[0].Msg)
	assert.Equal(t, "Please include a valid email", state.Alerts[1].Msg)
}

func TestGetPostsStoresFeed(t *testing.T) {
	t.Parallel()

	feed := []*models.Post{
		{ID: bson.NewObjectID(), Text: "newest"},
		{ID: bson.NewObjectID(), Text: "older"},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(feed)
	}))
	defer srv.Close()

	store := NewStore()
	api := NewAPI(srv.URL, store)

	require.NoError(t, api.GetPosts(context.Background()))

	state := store.GetState()
	require.Len(t, state.Post.Posts, 2)
	assert.Equal(t, "newest", state.Post.Posts[0].Text)
	assert.False(t, state.Post.Loading)
}

func TestAddLikeUpdatesFeed(t *testing.T) {
	t.Parallel()

	postID := bson.NewObjectID()
	likerID := bson.NewObjectID()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/posts/like/"+postID.Hex(), r.URL.Path)
		_ = json.NewEncoder(w).Encode([]models.Like{{ID: bson.NewObjectID(), UserID: likerID}})
	}))
	defer srv.Close()

	store := NewStore()
	store.Dispatch(Action{Type: GetPostsAction, Payload: []*models.Post{{ID: postID}}})
	api := NewAPI(srv.URL, store)

	require.NoError(t, api.AddLike(context.Background(), postID))

	state := store.GetState()
	require.Len(t, state.Post.Posts, 1)
	require.Len(t, state.Post.Posts[0].Likes, 1)
	assert.Equal(t, likerID, state.Post.Posts[0].Likes[0].UserID)
}

func TestDeleteAccountClearsSession(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "User deleted"})
	}))
	defer srv.Close()

	store := NewStore()
	store.Dispatch(Action{Type: LoginSuccess, Payload: "tok"})
	api := NewAPI(srv.URL, store)

	require.NoError(t, api.DeleteAccount(context.Background()))

	state := store.GetState()
	assert.False(t, state.Auth.IsAuthenticated)
	assert.Nil(t, state.Profile.Profile)
}
