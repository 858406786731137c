package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"devlink/internal/github"
	"devlink/internal/middleware"
	"devlink/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// API performs the HTTP calls behind every async action creator and
// dispatches the resulting typed actions into the store. Nothing else in the
// client issues requests.
type API struct {
	baseURL    string
	store      *Store
	httpClient *http.Client
}

func NewAPI(baseURL string, store *Store) *API {
	return &API{
		baseURL: baseURL,
		store:   store,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// serverError mirrors the API's error envelope.
type serverError struct {
	Error  string   `json:"error"`
	Code   string   `json:"code"`
	Errors []string `json:"errors"`
}

func (a *API) do(ctx context.Context, method, path string, body any) ([]byte, int, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := a.store.GetState().Auth.Token; token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return respBody, resp.StatusCode, nil
}

// fail extracts the server's error message, dispatches errAction with an
// APIError payload, and raises one alert per violated validation rule.
func (a *API) fail(errAction ActionType, body []byte, status int, err error) error {
	msg := "Server Error"
	var violations []string
	if err != nil {
		msg = err.Error()
	} else {
		var envelope serverError
		if jsonErr := json.Unmarshal(body, &envelope); jsonErr == nil && envelope.Error != "" {
			msg = envelope.Error
			violations = envelope.Errors
		}
	}

	a.store.Dispatch(Action{Type: errAction, Payload: APIError{Msg: msg, Status: status}})

	if len(violations) > 0 {
		for _, v := range violations {
			a.store.SetAlert(v, "danger", DefaultAlertTimeout)
		}
	} else if errAction != AuthError {
		a.store.SetAlert(msg, "danger", DefaultAlertTimeout)
	}
	return fmt.Errorf("%s (status %d)", msg, status)
}

// Register creates an account and stores the returned session token.
func (a *API) Register(ctx context.Context, name, email, password string) error {
	body, status, err := a.do(ctx, http.MethodPost, "/api/users", map[string]string{
		"name": name, "email": email, "password": password,
	})
	if err != nil || status != http.StatusOK {
		return a.fail(RegisterFail, body, status, err)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return a.fail(RegisterFail, nil, status, err)
	}
	a.store.Dispatch(Action{Type: RegisterSuccess, Payload: payload.Token})
	return a.LoadUser(ctx)
}

// Login exchanges credentials for a session token.
func (a *API) Login(ctx context.Context, email, password string) error {
	body, status, err := a.do(ctx, http.MethodPost, "/api/auth", map[string]string{
		"email": email, "password": password,
	})
	if err != nil || status != http.StatusOK {
		return a.fail(LoginFail, body, status, err)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return a.fail(LoginFail, nil, status, err)
	}
	a.store.Dispatch(Action{Type: LoginSuccess, Payload: payload.Token})
	return a.LoadUser(ctx)
}

// LoadUser fetches the account behind the stored token.
func (a *API) LoadUser(ctx context.Context) error {
	body, status, err := a.do(ctx, http.MethodGet, "/api/auth", nil)
	if err != nil || status != http.StatusOK {
		a.store.Dispatch(Action{Type: AuthError})
		return fmt.Errorf("load user failed (status %d)", status)
	}

	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		a.store.Dispatch(Action{Type: AuthError})
		return err
	}
	a.store.Dispatch(Action{Type: UserLoaded, Payload: &user})
	return nil
}

// Logout clears the session and current profile.
func (a *API) Logout() {
	a.store.Dispatch(Action{Type: ClearProfile})
	a.store.Dispatch(Action{Type: Logout})
}

// GetCurrentProfile loads the signed-in user's profile.
func (a *API) GetCurrentProfile(ctx context.Context) error {
	return a.fetchProfile(ctx, "/api/profile/me")
}

// GetProfileByUserID loads another user's profile.
func (a *API) GetProfileByUserID(ctx context.Context, userID string) error {
	return a.fetchProfile(ctx, "/api/profile/user/"+url.PathEscape(userID))
}

func (a *API) fetchProfile(ctx context.Context, path string) error {
	body, status, err := a.do(ctx, http.MethodGet, path, nil)
	if err != nil || status != http.StatusOK {
		return a.fail(ProfileError, body, status, err)
	}

	var profile models.Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return a.fail(ProfileError, nil, status, err)
	}
	a.store.Dispatch(Action{Type: GetProfileAction, Payload: &profile})
	return nil
}

// GetProfiles loads the public profile list.
func (a *API) GetProfiles(ctx context.Context) error {
	a.store.Dispatch(Action{Type: ClearProfile})

	body, status, err := a.do(ctx, http.MethodGet, "/api/profile", nil)
	if err != nil || status != http.StatusOK {
		return a.fail(ProfileError, body, status, err)
	}

	var profiles []*models.Profile
	if err := json.Unmarshal(body, &profiles); err != nil {
		return a.fail(ProfileError, nil, status, err)
	}
	a.store.Dispatch(Action{Type: GetProfilesAction, Payload: profiles})
	return nil
}

// GetGithubRepos loads a user's public repositories.
func (a *API) GetGithubRepos(ctx context.Context, username string) error {
	body, status, err := a.do(ctx, http.MethodGet, "/api/profile/github/"+url.PathEscape(username), nil)
	if err != nil || status != http.StatusOK {
		return a.fail(ProfileError, body, status, err)
	}

	var repos []github.Repo
	if err := json.Unmarshal(body, &repos); err != nil {
		return a.fail(ProfileError, nil, status, err)
	}
	a.store.Dispatch(Action{Type: GetReposAction, Payload: repos})
	return nil
}

// UpsertProfile creates or updates the signed-in user's profile.
func (a *API) UpsertProfile(ctx context.Context, fields map[string]string) error {
	body, status, err := a.do(ctx, http.MethodPost, "/api/profile", fields)
	if err != nil || status != http.StatusOK {
		return a.fail(ProfileError, body, status, err)
	}

	var profile models.Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return a.fail(ProfileError, nil, status, err)
	}
	a.store.Dispatch(Action{Type: GetProfileAction, Payload: &profile})
	a.store.SetAlert("Profile Updated", "success", DefaultAlertTimeout)
	return nil
}

// AddExperience appends a work history entry to the profile.
func (a *API) AddExperience(ctx context.Context, entry map[string]any) error {
	return a.updateProfileList(ctx, http.MethodPut, "/api/profile/experience", entry, "Experience Added")
}

// DeleteExperience removes a work history entry.
func (a *API) DeleteExperience(ctx context.Context, entryID string) error {
	return a.updateProfileList(ctx, http.MethodDelete, "/api/profile/experience/"+url.PathEscape(entryID), nil, "Experience Removed")
}

// AddEducation appends an education entry to the profile.
func (a *API) AddEducation(ctx context.Context, entry map[string]any) error {
	return a.updateProfileList(ctx, http.MethodPut, "/api/profile/education", entry, "Education Added")
}

// DeleteEducation removes an education entry.
func (a *API) DeleteEducation(ctx context.Context, entryID string) error {
	return a.updateProfileList(ctx, http.MethodDelete, "/api/profile/education/"+url.PathEscape(entryID), nil, "Education Removed")
}

func (a *API) updateProfileList(ctx context.Context, method, path string, body any, successMsg string) error {
	respBody, status, err := a.do(ctx, method, path, body)
	if err != nil || status != http.StatusOK {
		return a.fail(ProfileError, respBody, status, err)
	}

	var profile models.Profile
	if err := json.Unmarshal(respBody, &profile); err != nil {
		return a.fail(ProfileError, nil, status, err)
	}
	a.store.Dispatch(Action{Type: UpdateProfile, Payload: &profile})
	a.store.SetAlert(successMsg, "success", DefaultAlertTimeout)
	return nil
}

// DeleteAccount permanently removes the account, its profile and its posts.
func (a *API) DeleteAccount(ctx context.Context) error {
	body, status, err := a.do(ctx, http.MethodDelete, "/api/profile", nil)
	if err != nil || status != http.StatusOK {
		return a.fail(ProfileError, body, status, err)
	}

	a.store.Dispatch(Action{Type: ClearProfile})
	a.store.Dispatch(Action{Type: AccountDeleted})
	a.store.SetAlert("Your account has been permanently deleted", "", DefaultAlertTimeout)
	return nil
}

// GetPosts loads the feed.
func (a *API) GetPosts(ctx context.Context) error {
	body, status, err := a.do(ctx, http.MethodGet, "/api/posts", nil)
	if err != nil || status != http.StatusOK {
		return a.fail(PostError, body, status, err)
	}

	var posts []*models.Post
	if err := json.Unmarshal(body, &posts); err != nil {
		return a.fail(PostError, nil, status, err)
	}
	a.store.Dispatch(Action{Type: GetPostsAction, Payload: posts})
	return nil
}

// GetPost loads a single post.
func (a *API) GetPost(ctx context.Context, postID string) error {
	body, status, err := a.do(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(postID), nil)
	if err != nil || status != http.StatusOK {
		return a.fail(PostError, body, status, err)
	}

	var post models.Post
	if err := json.Unmarshal(body, &post); err != nil {
		return a.fail(PostError, nil, status, err)
	}
	a.store.Dispatch(Action{Type: GetPostAction, Payload: &post})
	return nil
}

// AddPost publishes a post and prepends it to the feed.
func (a *API) AddPost(ctx context.Context, text string) error {
	body, status, err := a.do(ctx, http.MethodPost, "/api/posts", map[string]string{"text": text})
	if err != nil || status != http.StatusOK {
		return a.fail(PostError, body, status, err)
	}

	var post models.Post
	if err := json.Unmarshal(body, &post); err != nil {
		return a.fail(PostError, nil, status, err)
	}
	a.store.Dispatch(Action{Type: AddPostAction, Payload: &post})
	a.store.SetAlert("Post Created", "success", DefaultAlertTimeout)
	return nil
}

// DeletePost removes the caller's post from the feed.
func (a *API) DeletePost(ctx context.Context, postID bson.ObjectID) error {
	body, status, err := a.do(ctx, http.MethodDelete, "/api/posts/"+postID.Hex(), nil)
	if err != nil || status != http.StatusOK {
		return a.fail(PostError, body, status, err)
	}

	a.store.Dispatch(Action{Type: DeletePost, Payload: postID})
	a.store.SetAlert("Post Removed", "success", DefaultAlertTimeout)
	return nil
}

// AddLike likes a post and refreshes its like list.
func (a *API) AddLike(ctx context.Context, postID bson.ObjectID) error {
	return a.updateLikes(ctx, "/api/posts/like/", postID)
}

// RemoveLike withdraws a like and refreshes the post's like list.
func (a *API) RemoveLike(ctx context.Context, postID bson.ObjectID) error {
	return a.updateLikes(ctx, "/api/posts/unlike/", postID)
}

func (a *API) updateLikes(ctx context.Context, prefix string, postID bson.ObjectID) error {
	body, status, err := a.do(ctx, http.MethodPut, prefix+postID.Hex(), nil)
	if err != nil || status != http.StatusOK {
		return a.fail(PostError, body, status, err)
	}

	var likes []models.Like
	if err := json.Unmarshal(body, &likes); err != nil {
		return a.fail(PostError, nil, status, err)
	}
	a.store.Dispatch(Action{Type: UpdateLikes, Payload: LikesUpdate{PostID: postID, Likes: likes}})
	return nil
}

// AddComment attaches a comment to a post.
func (a *API) AddComment(ctx context.Context, postID bson.ObjectID, text string) error {
	body, status, err := a.do(ctx, http.MethodPost, "/api/posts/comment/"+postID.Hex(), map[string]string{"text": text})
	if err != nil || status != http.StatusOK {
		return a.fail(PostError, body, status, err)
	}

	var comments []models.Comment
	if err := json.Unmarshal(body, &comments); err != nil {
		return a.fail(PostError, nil, status, err)
	}
	a.store.Dispatch(Action{Type: AddComment, Payload: comments})
	a.store.SetAlert("Comment Added", "success", DefaultAlertTimeout)
	return nil
}

// DeleteComment removes the caller's comment from a post.
func (a *API) DeleteComment(ctx context.Context, postID, commentID bson.ObjectID) error {
	body, status, err := a.do(ctx, http.MethodDelete,
		"/api/posts/comment/"+postID.Hex()+"/"+commentID.Hex(), nil)
	if err != nil || status != http.StatusOK {
		return a.fail(PostError, body, status, err)
	}

	var comments []models.Comment
	if err := json.Unmarshal(body, &comments); err != nil {
		return a.fail(PostError, nil, status, err)
	}
	a.store.Dispatch(Action{Type: RemoveComment, Payload: comments})
	a.store.SetAlert("Comment Removed", "success", DefaultAlertTimeout)
	return nil
}
