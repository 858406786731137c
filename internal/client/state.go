package client

import (
	"devlink/internal/github"
	"devlink/internal/models"
)

// APIError is the error detail kept in a slice after a failed request.
type APIError struct {
	Msg    string
	Status int
}

// Alert is an ephemeral UI notification. It exists only in client state.
type Alert struct {
	ID        string
	Msg       string
	AlertType string
}

// AuthState tracks the session token and the loaded account.
type AuthState struct {
	Token           string
	IsAuthenticated bool
	Loading         bool
	User            *models.User
}

// ProfileState holds the currently viewed profile, the browse list and the
// fetched repository list.
type ProfileState struct {
	Profile  *models.Profile
	Profiles []*models.Profile
	Repos    []github.Repo
	Loading  bool
	Error    *APIError
}

// PostState holds the feed and the currently viewed post.
type PostState struct {
	Post    *models.Post
	Posts   []*models.Post
	Loading bool
	Error   *APIError
}

// State is the full client state tree.
type State struct {
	Auth    AuthState
	Profile ProfileState
	Post    PostState
	Alerts  []Alert
}

// NewState returns the initial state before any action has been dispatched.
func NewState() State {
	return State{
		Auth:    AuthState{Loading: true},
		Profile: ProfileState{Loading: true},
		Post:    PostState{Loading: true},
		Alerts:  []Alert{},
	}
}
