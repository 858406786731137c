package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"devlink/internal/models"
	"devlink/internal/observability"
)

const reposPerPage = "5"

// Repo is the subset of the GitHub repository payload the API exposes.
type Repo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stargazers  int    `json:"stargazers_count"`
	Watchers    int    `json:"watchers_count"`
	Forks       int    `json:"forks_count"`
	CreatedAt   string `json:"created_at"`
}

// Client fetches public repository listings from the GitHub REST API.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

func NewClient(baseURL, clientID, clientSecret string) *Client {
	return &Client{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Repos returns the user's five oldest public repositories. Any non-success
// response from GitHub, including 404 for an unknown username, is reported
// as a single upstream failure without leaking GitHub's own error payload.
func (c *Client) Repos(ctx context.Context, username string) ([]Repo, error) {
	params := url.Values{}
	params.Set("per_page", reposPerPage)
	params.Set("sort", "created:asc")
	if c.clientID != "" {
		params.Set("client_id", c.clientID)
		params.Set("client_secret", c.clientSecret)
	}

	fullURL := fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, url.PathEscape(username), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.UpstreamFailures.WithLabelValues("github").Inc()
		return nil, models.NewUpstreamError("No Github profile found", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.UpstreamFailures.WithLabelValues("github").Inc()
		return nil, models.NewUpstreamError("No Github profile found", err)
	}

	if resp.StatusCode != http.StatusOK {
		observability.UpstreamFailures.WithLabelValues("github").Inc()
		return nil, models.NewUpstreamError("No Github profile found",
			fmt.Errorf("github api: status %d", resp.StatusCode))
	}

	var repos []Repo
	if err := json.Unmarshal(body, &repos); err != nil {
		observability.UpstreamFailures.WithLabelValues("github").Inc()
		return nil, models.NewUpstreamError("No Github profile found", fmt.Errorf("unmarshal: %w", err))
	}
	return repos, nil
}
