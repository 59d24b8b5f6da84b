// Package forge talks to Git hosting APIs: contents listings, raw file
// downloads and, where the host supports it, HEAD resolution.
package forge

import (
	"context"

	"github.com/tacogips/headsync/internal/repo/model"
)

// Lister lists the immediate children of a repository directory.
type Lister interface {
	// ListDir returns the entries of dir ("" for the repository root).
	ListDir(ctx context.Context, repo model.RepositoryRef, dir string) ([]model.TreeEntry, error)
}

// Fetcher downloads raw file content at a given commit.
type Fetcher interface {
	// FetchRaw returns the bytes of path as of head.
	FetchRaw(ctx context.Context, repo model.RepositoryRef, head model.HeadRef, path string) ([]byte, error)
}

// HeadResolver is implemented by forges that can resolve HEAD over their API.
type HeadResolver interface {
	// ResolveHead returns the commit id of the default branch tip.
	ResolveHead(ctx context.Context, repo model.RepositoryRef) (model.HeadRef, error)
}

// Forge abstracts a Git hosting service (Gitea, GitHub).
type Forge interface {
	Lister
	Fetcher

	// Name returns the forge name (e.g., "gitea", "github").
	Name() string

	// CloneURL returns the URL git ls-remote should be pointed at.
	CloneURL(repo model.RepositoryRef) string
}
