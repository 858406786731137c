package client

import (
	"devlink/internal/github"
	"devlink/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// LikesUpdate is the payload for UpdateLikes.
type LikesUpdate struct {
	PostID bson.ObjectID
	Likes  []models.Like
}

// reduceAuth handles session actions.
// Payloads: RegisterSuccess/LoginSuccess carry the token string; UserLoaded
// carries *models.User; the failure and logout actions carry nothing.
func reduceAuth(state AuthState, action Action) AuthState {
	switch action.Type {
	case RegisterSuccess, LoginSuccess:
		token, _ := action.Payload.(string)
		state.Token = token
		state.IsAuthenticated = true
		state.Loading = false
	case UserLoaded:
		user, _ := action.Payload.(*models.User)
		state.IsAuthenticated = true
		state.Loading = false
		state.User = user
	case RegisterFail, LoginFail, AuthError, Logout, AccountDeleted:
		state.Token = ""
		state.IsAuthenticated = false
		state.Loading = false
		state.User = nil
	}
	return state
}

// reduceProfile handles profile actions.
// Payloads: GetProfileAction/UpdateProfile carry *models.Profile;
// GetProfilesAction carries []*models.Profile; GetReposAction carries
// []github.Repo; ProfileError carries APIError.
func reduceProfile(state ProfileState, action Action) ProfileState {
	switch action.Type {
	case GetProfileAction, UpdateProfile:
		profile, _ := action.Payload.(*models.Profile)
		state.Profile = profile
		state.Loading = false
		state.Error = nil
	case GetProfilesAction:
		profiles, _ := action.Payload.([]*models.Profile)
		state.Profiles = profiles
		state.Loading = false
		state.Error = nil
	case GetReposAction:
		repos, _ := action.Payload.([]github.Repo)
		state.Repos = repos
		state.Loading = false
		state.Error = nil
	case ProfileError:
		apiErr, _ := action.Payload.(APIError)
		state.Error = &apiErr
		state.Loading = false
		state.Profile = nil
	case ClearProfile:
		state.Profile = nil
		state.Repos = nil
		state.Loading = false
	}
	return state
}

// reducePost handles feed actions.
// Payloads: GetPostsAction carries []*models.Post; GetPostAction and
// AddPostAction carry *models.Post; DeletePost carries the removed post's
// id; UpdateLikes carries LikesUpdate; AddComment and RemoveComment carry
// the full []models.Comment returned by the server; PostError carries
// APIError.
func reducePost(state PostState, action Action) PostState {
	switch action.Type {
	case GetPostsAction:
		posts, _ := action.Payload.([]*models.Post)
		state.Posts = posts
		state.Loading = false
		state.Error = nil
	case GetPostAction:
		post, _ := action.Payload.(*models.Post)
		state.Post = post
		state.Loading = false
		state.Error = nil
	case AddPostAction:
		post, _ := action.Payload.(*models.Post)
		state.Posts = append([]*models.Post{post}, state.Posts...)
		state.Loading = false
	case DeletePost:
		id, _ := action.Payload.(bson.ObjectID)
		posts := make([]*models.Post, 0, len(state.Posts))
		for _, p := range state.Posts {
			if p.ID != id {
				posts = append(posts, p)
			}
		}
		state.Posts = posts
		state.Loading = false
	case UpdateLikes:
		update, _ := action.Payload.(LikesUpdate)
		posts := make([]*models.Post, len(state.Posts))
		for i, p := range state.Posts {
			if p.ID == update.PostID {
				updated := *p
				updated.Likes = update.Likes
				posts[i] = &updated
			} else {
				posts[i] = p
			}
		}
		state.Posts = posts
		if state.Post != nil && state.Post.ID == update.PostID {
			updated := *state.Post
			updated.Likes = update.Likes
			state.Post = &updated
		}
		state.Loading = false
	case AddComment, RemoveComment:
		comments, _ := action.Payload.([]models.Comment)
		if state.Post != nil {
			updated := *state.Post
			updated.Comments = comments
			state.Post = &updated
		}
		state.Loading = false
	case PostError:
		apiErr, _ := action.Payload.(APIError)
		state.Error = &apiErr
		state.Loading = false
	}
	return state
}

// reduceAlerts handles the alert list.
// Payloads: SetAlertAction carries Alert; RemoveAlertAction carries the
// alert id string.
func reduceAlerts(alerts []Alert, action Action) []Alert {
	switch action.Type {
	case SetAlertAction:
		alert, _ := action.Payload.(Alert)
		return append(append([]Alert{}, alerts...), alert)
	case RemoveAlertAction:
		id, _ := action.Payload.(string)
		remaining := make([]Alert, 0, len(alerts))
		for _, a := range alerts {
			if a.ID != id {
				remaining = append(remaining, a)
			}
		}
		return remaining
	}
	return alerts
}
