package app

import (
	"context"

	"github.com/tacogips/headsync/internal/debug"
	"github.com/tacogips/headsync/internal/repo/forge"
	"github.com/tacogips/headsync/internal/repo/model"
)

// HeadOptions contains options for resolving a repository's HEAD.
type HeadOptions struct {
	Env
	// Repository is "owner/name" or a repository URL.
	Repository string
}

// ResolveHead returns the commit HEAD points to, using the configured source.
func ResolveHead(ctx context.Context, opts HeadOptions) (model.HeadRef, error) {
	debug.DebugSection("[app] Head workflow start")
	debug.DebugValue("[app] Repository", opts.Repository)

	repo, err := forge.ParseRepositoryRef(opts.Repository)
	if err != nil {
		return "", NewValidationError("invalid repository", err)
	}
	f, err := opts.forge()
	if err != nil {
		return "", NewValidationError("failed to create forge", err)
	}
	resolver, err := opts.resolver(f)
	if err != nil {
		return "", NewValidationError("failed to create HEAD resolver", err)
	}

	ref, err := resolver.Resolve(ctx, repo)
	if err != nil {
		debug.Debug("[app] HEAD resolution failed: %v", err)
		return "", NewHeadError("failed to resolve HEAD", err)
	}
	return ref, nil
}
