package app

import (
	"context"
	"strings"

	"github.com/tacogips/headsync/internal/debug"
	"github.com/tacogips/headsync/internal/repo/forge"
	"github.com/tacogips/headsync/internal/repo/model"
	"github.com/tacogips/headsync/internal/repo/tree"
)

// ListOptions contains options for listing a repository tree.
type ListOptions struct {
	Env
	// Repository is "owner/name" or a repository URL.
	Repository string
	// Path restricts the listing to a subdirectory.
	Path string
}

// List walks the remote tree without downloading anything.
func List(ctx context.Context, opts ListOptions) (*model.Tree, error) {
	debug.DebugSection("[app] List workflow start")
	debug.DebugValue("[app] Repository", opts.Repository)
	debug.DebugValue("[app] Path", opts.Path)

	repo, err := forge.ParseRepositoryRef(opts.Repository)
	if err != nil {
		return nil, NewValidationError("invalid repository", err)
	}
	f, err := opts.forge()
	if err != nil {
		return nil, NewValidationError("failed to create forge", err)
	}

	start := strings.Trim(opts.Path, "/")
	listing, err := tree.Walk(ctx, f, repo, start)
	if err != nil {
		debug.Debug("[app] Listing failed: %v", err)
		return nil, NewListError("failed to list repository", err)
	}

	debug.Debug("[app] List workflow completed successfully")
	return &listing, nil
}
