package client

import (
	"testing"

	"devlink/internal/github"
	"devlink/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestReduceAuth(t *testing.T) {
	t.Parallel()

	t.Run("Login Success Stores Token", func(t *testing.T) {
		state := reduceAuth(AuthState{Loading: true}, Action{Type: LoginSuccess, Payload: "tok"})
		assert.Equal(t, "tok", state.Token)
		assert.True(t, state.IsAuthenticated)
		assert.False(t, state.Loading)
	})

	t.Run("User Loaded Attaches Account", func(t *testing.T) {
		user := &models.User{ID: bson.NewObjectID(), Name: "Jane"}
		state := reduceAuth(AuthState{Token: "tok"}, Action{Type: UserLoaded, Payload: user})
		assert.Equal(t, user, state.User)
		assert.True(t, state.IsAuthenticated)
	})

	t.Run("Auth Error Clears Session", func(t *testing.T) {
		before := AuthState{Token: "tok", IsAuthenticated: true, User: &models.User{}}
		state := reduceAuth(before, Action{Type: AuthError})
		assert.Empty(t, state.Token)
		assert.False(t, state.IsAuthenticated)
		assert.Nil(t, state.User)
	})

	t.Run("Unrelated Action Leaves State Alone", func(t *testing.T) {
		before := AuthState{Token: "tok", IsAuthenticated: true}
		assert.Equal(t, before, reduceAuth(before, Action{Type: GetPostsAction}))
	})
}

func TestReduceProfile(t *testing.T) {
	t.Parallel()

	t.Run("Profile Error Clears Current Profile", func(t *testing.T) {
		before := ProfileState{Profile: &models.Profile{}}
		state := reduceProfile(before, Action{Type: ProfileError, Payload: APIError{Msg: "boom", Status: 500}})
		assert.Nil(t, state.Profile)
		require.NotNil(t, state.Error)
		assert.Equal(t, "boom", state.Error.Msg)
	})

	t.Run("Clear Profile Drops Profile And Repos", func(t *testing.T) {
		before := ProfileState{Profile: &models.Profile{}, Repos: []github.Repo{{Name: "hello-world"}}}
		state := reduceProfile(before, Action{Type: ClearProfile})
		assert.Nil(t, state.Profile)
		assert.Nil(t, state.Repos)
	})

	t.Run("Repos Loaded Clears Stale Error", func(t *testing.T) {
		before := ProfileState{Error: &APIError{Msg: "boom", Status: 500}}
		state := reduceProfile(before, Action{Type: GetReposAction, Payload: []github.Repo{{Name: "hello-world"}}})
		require.Len(t, state.Repos, 1)
		assert.Nil(t, state.Error)
		assert.False(t, state.Loading)
	})

	t.Run("Profiles List Is Stored", func(t *testing.T) {
		profiles := []*models.Profile{{UserID: bson.NewObjectID()}}
		state := reduceProfile(ProfileState{Loading: true}, Action{Type: GetProfilesAction, Payload: profiles})
		assert.Equal(t, profiles, state.Profiles)
		assert.False(t, state.Loading)
	})
}

func TestReducePost(t *testing.T) {
	t.Parallel()

	postA := &models.Post{ID: bson.NewObjectID(), Text: "a"}
	postB := &models.Post{ID: bson.NewObjectID(), Text: "b"}

	t.Run("Add Post Prepends", func(t *testing.T) {
		before := PostState{Posts: []*models.Post{postA}}
		state := reducePost(before, Action{Type: AddPostAction, Payload: postB})
		require.Len(t, state.Posts, 2)
		assert.Equal(t, "b", state.Posts[0].Text)
		assert.Equal(t, "a", state.Posts[1].Text)
	})

	t.Run("Delete Post Removes By ID", func(t *testing.T) {
		before := PostState{Posts: []*models.Post{postA, postB}}
		state := reducePost(before, Action{Type: DeletePost, Payload: postA.ID})
		require.Len(t, state.Posts, 1)
		assert.Equal(t, postB.ID, state.Posts[0].ID)
	})

	t.Run("Update Likes Touches Only The Target Post", func(t *testing.T) {
		likes := []models.Like{{ID: bson.NewObjectID(), UserID: bson.NewObjectID()}}
		before := PostState{Posts: []*models.Post{postA, postB}}
		state := reducePost(before, Action{Type: UpdateLikes, Payload: LikesUpdate{PostID: postA.ID, Likes: likes}})

		require.Len(t, state.Posts, 2)
		assert.Len(t, state.Posts[0].Likes, 1)
		assert.Empty(t, state.Posts[1].Likes)
		// The original posts are never mutated.
		assert.Empty(t, postA.Likes)
	})

	t.Run("Comments Replace The Open Post's List", func(t *testing.T) {
		comments := []models.Comment{{ID: bson.NewObjectID(), Text: "new"}}
		before := PostState{Post: &models.Post{ID: postA.ID}}
		state := reducePost(before, Action{Type: AddComment, Payload: comments})
		require.NotNil(t, state.Post)
		assert.Len(t, state.Post.Comments, 1)
	})
}

func TestReduceAlerts(t *testing.T) {
	t.Parallel()

	alert := Alert{ID: "a1", Msg: "hello", AlertType: "success"}

	t.Run("Set Appends", func(t *testing.T) {
		alerts := reduceAlerts(nil, Action{Type: SetAlertAction, Payload: alert})
		require.Len(t, alerts, 1)
		assert.Equal(t, "hello", alerts[0].Msg)
	})

	t.Run("Remove Filters By ID", func(t *testing.T) {
		other := Alert{ID: "a2", Msg: "other"}
		alerts := reduceAlerts([]Alert{alert, other}, Action{Type: RemoveAlertAction, Payload: "a1"})
		require.Len(t, alerts, 1)
		assert.Equal(t, "a2", alerts[0].ID)
	})

	t.Run("Remove Unknown ID Is A No-Op", func(t *testing.T) {
		alerts := reduceAlerts([]Alert{alert}, Action{Type: RemoveAlertAction, Payload: "missing"})
		assert.Len(t, alerts, 1)
	})
}
