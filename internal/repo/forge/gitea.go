package forge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tacogips/headsync/internal/debug"
	"github.com/tacogips/headsync/internal/repo/model"
)

// GiteaClient implements Forge against the Gitea v1 API.
type GiteaClient struct {
	// HTTPClient is the HTTP client for API and raw requests.
	HTTPClient *http.Client
	// BaseURL is the web root, used for raw downloads and clone URLs.
	BaseURL string
	// APIURL is the repository API root (.../api/v1/repos/).
	APIURL string
	// Token is the optional access token for private repositories.
	Token string
	// Strict turns non-2xx raw responses into errors instead of writing the body.
	Strict bool
}

// NewGiteaClient creates a Gitea client with the given per-request timeout.
func NewGiteaClient(baseURL, apiURL string, timeout time.Duration) *GiteaClient {
	return &GiteaClient{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		BaseURL: baseURL,
		APIURL:  apiURL,
	}
}

// Name returns the forge name.
func (c *GiteaClient) Name() string {
	return "gitea"
}

// CloneURL returns {base}{owner}/{name}.git.
func (c *GiteaClient) CloneURL(repo model.RepositoryRef) string {
	return joinURL(c.BaseURL, repo.String()) + ".git"
}

// ListDir fetches {api}/{repo}/contents[/{dir}].
func (c *GiteaClient) ListDir(ctx context.Context, repo model.RepositoryRef, dir string) ([]model.TreeEntry, error) {
	listURL := joinURL(c.APIURL, repo.String(), "contents")
	if dir != "" {
		listURL = joinURL(listURL, escapePath(dir))
	}
	debug.Debug("[forge] GET %s", listURL)

	body, status, err := c.get(ctx, listURL)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, NewAuthError(c.Name(), listURL)
	}

	entries, err := decodeListing(body)
	if err != nil {
		return nil, NewDecodeError(c.Name(), listURL,
			fmt.Sprintf("unexpected contents listing (status %d)", status), err)
	}
	return entries, nil
}

// FetchRaw fetches {base}/{repo}/raw/commit/{head}/{path}.
//
// Unless Strict is set, a non-2xx body is returned as content: the server's
// "not found" page ends up on disk exactly as the web UI serves it.
func (c *GiteaClient) FetchRaw(ctx context.Context, repo model.RepositoryRef, head model.HeadRef, path string) ([]byte, error) {
	rawURL := joinURL(c.BaseURL, repo.String(), "raw", "commit", head.String(), escapePath(path))

	body, status, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if status < 200 || status > 299 {
		debug.Debug("[forge] raw %s returned %d", path, status)
		if c.Strict {
			return nil, statusError(c.Name(), rawURL, status)
		}
	}
	return body, nil
}

func (c *GiteaClient) get(ctx context.Context, target string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, 0, NewFetchError(c.Name(), target, err)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "token "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, NewFetchError(c.Name(), target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, NewFetchError(c.Name(), target,
			fmt.Errorf("failed to read response body: %w", err))
	}
	return body, resp.StatusCode, nil
}

// apiError is the error object Gitea returns instead of a listing.
type apiError struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// decodeListing decodes a contents listing. Anything but a JSON array is an error;
// a Gitea error object contributes its message.
func decodeListing(body []byte) ([]model.TreeEntry, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		var apiErr apiError
		if err := json.Unmarshal(trimmed, &apiErr); err == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("server returned an error object: %s", apiErr.Message)
		}
		return nil, fmt.Errorf("expected a JSON array, got %q", preview(trimmed))
	}

	var entries []model.TreeEntry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}
	return entries, nil
}

func statusError(forge, target string, status int) error {
	switch status {
	case http.StatusNotFound:
		return NewNotFoundError(forge, target)
	case http.StatusUnauthorized, http.StatusForbidden:
		return NewAuthError(forge, target)
	default:
		return NewFetchError(forge, target, fmt.Errorf("unexpected status code: %d", status))
	}
}

// joinURL joins URL path elements with single slashes.
func joinURL(base string, elems ...string) string {
	out := strings.TrimRight(base, "/")
	for _, e := range elems {
		out += "/" + strings.Trim(e, "/")
	}
	return out
}

// escapePath escapes each segment of a slash-separated repository path.
func escapePath(p string) string {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func preview(b []byte) string {
	const limit = 64
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
