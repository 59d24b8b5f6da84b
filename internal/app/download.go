package app

import (
	"context"
	"time"

	"github.com/tacogips/headsync/internal/debug"
	"github.com/tacogips/headsync/internal/repo/download"
	"github.com/tacogips/headsync/internal/repo/forge"
	"github.com/tacogips/headsync/internal/repo/manifest"
	"github.com/tacogips/headsync/internal/repo/tree"
)

// DownloadOptions contains options for a download run.
type DownloadOptions struct {
	Env
	// Repository is "owner/name" or a repository URL.
	Repository string
	// Destination is the local root directory.
	Destination string
	// Concurrency is the number of download workers. Zero uses the
	// configured value; negative values are rejected.
	Concurrency int
	// OnListed is called once the file list is known.
	OnListed func(files []string)
	// OnFile is called after each file is written, from several goroutines.
	OnFile func(path string, size int)
}

// DownloadResult contains the results of a download run.
type DownloadResult struct {
	// Repository is the normalized owner/name.
	Repository string `json:"repository" yaml:"repository"`
	// Head is the commit every file was fetched at.
	Head string `json:"head" yaml:"head"`
	// Destination is the local root directory.
	Destination string `json:"destination" yaml:"destination"`
	// Files are the downloaded paths in breadth-first order.
	Files []string `json:"files" yaml:"files"`
	// Directories is the number of remote directories expanded.
	Directories int `json:"directories" yaml:"directories"`
	// Bytes is the total size written.
	Bytes int64 `json:"bytes" yaml:"bytes"`
	// Batches holds the size of each worker batch.
	Batches []int `json:"batches" yaml:"batches"`
	// ManifestPath is where the manifest was written.
	ManifestPath string `json:"manifest_path" yaml:"manifest_path"`
	// Algorithm is the manifest hash algorithm.
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	// Digest fingerprints the manifest; identical runs yield identical digests.
	Digest string `json:"digest" yaml:"digest"`
	// Elapsed is the wall time of the run.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Download lists the repository tree, resolves HEAD, fetches every file at
// that commit into the destination, and writes the checksum manifest once
// all files are on disk.
func Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, error) {
	started := time.Now()
	cfg := opts.config()
	if opts.Concurrency == 0 {
		opts.Concurrency = cfg.Concurrency
	}

	debug.DebugSection("[app] Download workflow start")
	debug.DebugValue("[app] Repository", opts.Repository)
	debug.DebugValue("[app] Destination", opts.Destination)
	debug.DebugValue("[app] Concurrency", opts.Concurrency)

	// Validate before any network traffic
	if opts.Concurrency <= 0 {
		debug.Debug("[app] Invalid concurrency: %d", opts.Concurrency)
		return nil, NewValidationError("invalid download options", download.ErrInvalidConcurrency)
	}
	if err := ValidateDestination(opts.Destination); err != nil {
		return nil, NewValidationError("invalid download options", err)
	}
	repo, err := forge.ParseRepositoryRef(opts.Repository)
	if err != nil {
		debug.Debug("[app] Failed to parse repository: %v", err)
		return nil, NewValidationError("invalid repository", err)
	}
	algorithm := cfg.ManifestAlgorithm()
	if _, err := manifest.HasherFor(algorithm); err != nil {
		return nil, NewValidationError("invalid manifest algorithm", err)
	}

	f, err := opts.forge()
	if err != nil {
		return nil, NewValidationError("failed to create forge", err)
	}
	resolver, err := opts.resolver(f)
	if err != nil {
		return nil, NewValidationError("failed to create HEAD resolver", err)
	}

	// List the tree
	debug.Debug("[app] Listing repository tree")
	listing, err := tree.Walk(ctx, f, repo, "")
	if err != nil {
		debug.Debug("[app] Listing failed: %v", err)
		return nil, NewListError("failed to list repository", err)
	}
	debug.DebugValue("[app] Files listed", len(listing.Files))
	if opts.OnListed != nil {
		opts.OnListed(listing.Files)
	}

	// Resolve HEAD
	debug.Debug("[app] Resolving HEAD")
	ref, err := resolver.Resolve(ctx, repo)
	if err != nil {
		debug.Debug("[app] HEAD resolution failed: %v", err)
		return nil, NewHeadError("failed to resolve HEAD", err)
	}
	debug.DebugValue("[app] HEAD", ref)

	// Download
	afs := opts.fs()
	dl := download.New(f, afs)
	dl.OnFile = opts.OnFile
	res, err := dl.Run(ctx, download.Request{
		Repo:        repo,
		Head:        ref,
		Destination: opts.Destination,
		Files:       listing.Files,
		Concurrency: opts.Concurrency,
	})
	if err != nil {
		debug.Debug("[app] Download failed: %v", err)
		return nil, NewDownloadError("failed to download files", err)
	}
	debug.DebugValue("[app] Bytes written", res.Bytes)

	// Every batch has finished; hash what is on disk
	m, err := manifest.Build(afs, opts.Destination, listing.Files, algorithm)
	if err != nil {
		debug.Debug("[app] Manifest build failed: %v", err)
		return nil, NewManifestError("failed to hash downloaded files", err)
	}
	path, err := manifest.Write(afs, opts.Destination, cfg.Manifest.Filename, m)
	if err != nil {
		debug.Debug("[app] Manifest write failed: %v", err)
		return nil, NewManifestError("failed to write manifest", err)
	}
	debug.DebugValue("[app] Manifest", path)

	debug.Debug("[app] Download workflow completed successfully")
	return &DownloadResult{
		Repository:   repo.String(),
		Head:         ref.String(),
		Destination:  opts.Destination,
		Files:        listing.Files,
		Directories:  len(listing.Dirs),
		Bytes:        res.Bytes,
		Batches:      res.Batches,
		ManifestPath: path,
		Algorithm:    string(m.Algorithm),
		Digest:       ManifestDigest(m),
		Elapsed:      time.Since(started),
	}, nil
}
