// Package client implements the application's client-side state container:
// typed actions, pure reducers over state slices, a subscribable store, and
// the API layer that is the only place allowed to perform HTTP calls.
package client

// ActionType identifies a state transition.
type ActionType string

const (
	RegisterSuccess ActionType = "REGISTER_SUCCESS"
	RegisterFail    ActionType = "REGISTER_FAIL"
	UserLoaded      ActionType = "USER_LOADED"
	AuthError       ActionType = "AUTH_ERROR"
	LoginSuccess    ActionType = "LOGIN_SUCCESS"
	LoginFail       ActionType = "LOGIN_FAIL"
	Logout          ActionType = "LOGOUT"
	AccountDeleted  ActionType = "ACCOUNT_DELETED"

	GetProfileAction  ActionType = "GET_PROFILE"
	GetProfilesAction ActionType = "GET_PROFILES"
	GetReposAction    ActionType = "GET_REPOS"
	UpdateProfile     ActionType = "UPDATE_PROFILE"
	ClearProfile      ActionType = "CLEAR_PROFILE"
	ProfileError      ActionType = "PROFILE_ERROR"

	GetPostsAction ActionType = "GET_POSTS"
	GetPostAction  ActionType = "GET_POST"
	AddPostAction  ActionType = "ADD_POST"
	DeletePost     ActionType = "DELETE_POST"
	PostError      ActionType = "POST_ERROR"
	UpdateLikes    ActionType = "UPDATE_LIKES"
	AddComment     ActionType = "ADD_COMMENT"
	RemoveComment  ActionType = "REMOVE_COMMENT"

	SetAlertAction    ActionType = "SET_ALERT"
	RemoveAlertAction ActionType = "REMOVE_ALERT"
)

// Action pairs a type with its payload. Payload shapes are fixed per type
// and documented on the reducers that consume them.
type Action struct {
	Type    ActionType
	Payload any
}
