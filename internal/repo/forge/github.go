package forge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	gogithub "github.com/google/go-github/v75/github"
	"golang.org/x/oauth2"

	"github.com/tacogips/headsync/internal/debug"
	"github.com/tacogips/headsync/internal/repo/model"
)

const (
	defaultGitHubAPIURL = "https://api.github.com/"
	defaultGitHubWebURL = "https://github.com/"
)

// GitHubClient implements Forge and HeadResolver on top of go-github.
type GitHubClient struct {
	gh *gogithub.Client
	// WebURL is the web root used for clone URLs.
	WebURL string
}

// NewGitHubClient creates a GitHub client. An empty token gives anonymous
// access; an empty apiURL targets api.github.com.
func NewGitHubClient(token, webURL, apiURL string, timeout time.Duration) (*GitHubClient, error) {
	httpClient := &http.Client{Timeout: timeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = timeout
	}

	gh := gogithub.NewClient(httpClient)
	if apiURL != "" && apiURL != defaultGitHubAPIURL {
		u, err := url.Parse(ensureSlash(apiURL))
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", apiURL, err)
		}
		gh.BaseURL = u
	}
	if webURL == "" {
		webURL = defaultGitHubWebURL
	}

	return &GitHubClient{gh: gh, WebURL: webURL}, nil
}

// Name returns the forge name.
func (c *GitHubClient) Name() string {
	return "github"
}

// CloneURL returns {web}{owner}/{name}.git.
func (c *GitHubClient) CloneURL(repo model.RepositoryRef) string {
	return joinURL(c.WebURL, repo.String()) + ".git"
}

// ListDir lists dir through the contents API.
func (c *GitHubClient) ListDir(ctx context.Context, repo model.RepositoryRef, dir string) ([]model.TreeEntry, error) {
	target := c.describe(repo, dir)
	debug.Debug("[forge] contents %s", target)

	file, contents, resp, err := c.gh.Repositories.GetContents(ctx, repo.Owner, repo.Name, dir, nil)
	if err != nil {
		return nil, c.translate(target, resp, err)
	}
	if file != nil {
		return nil, NewDecodeError(c.Name(), target, "expected a directory listing, got a file", nil)
	}

	entries := make([]model.TreeEntry, 0, len(contents))
	for _, rc := range contents {
		entries = append(entries, model.TreeEntry{
			Name: rc.GetName(),
			Path: rc.GetPath(),
			Type: model.EntryType(rc.GetType()),
			Size: int64(rc.GetSize()),
			SHA:  rc.GetSHA(),
		})
	}
	return entries, nil
}

// FetchRaw downloads path as of head.
func (c *GitHubClient) FetchRaw(ctx context.Context, repo model.RepositoryRef, head model.HeadRef, path string) ([]byte, error) {
	target := c.describe(repo, path)

	rc, resp, err := c.gh.Repositories.DownloadContents(ctx, repo.Owner, repo.Name, path,
		&gogithub.RepositoryContentGetOptions{Ref: head.String()})
	if err != nil {
		return nil, c.translate(target, resp, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, NewFetchError(c.Name(), target, fmt.Errorf("failed to read content: %w", err))
	}
	return data, nil
}

// ResolveHead asks the commits API for the SHA of HEAD.
func (c *GitHubClient) ResolveHead(ctx context.Context, repo model.RepositoryRef) (model.HeadRef, error) {
	sha, resp, err := c.gh.Repositories.GetCommitSHA1(ctx, repo.Owner, repo.Name, model.HeadRefName, "")
	if err != nil {
		return "", c.translate(c.describe(repo, ""), resp, err)
	}
	return model.HeadRef(sha), nil
}

func (c *GitHubClient) translate(target string, resp *gogithub.Response, err error) error {
	var ghErr *gogithub.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return statusError(c.Name(), target, ghErr.Response.StatusCode)
	}
	if resp != nil && resp.StatusCode == http.StatusOK {
		return NewDecodeError(c.Name(), target, "unexpected response shape", err)
	}
	return NewFetchError(c.Name(), target, err)
}

func (c *GitHubClient) describe(repo model.RepositoryRef, path string) string {
	if path == "" {
		return repo.String()
	}
	return repo.String() + "/" + path
}

func ensureSlash(s string) string {
	if s == "" || s[len(s)-1] == '/' {
		return s
	}
	return s + "/"
}
