// Package download fetches repository files at a fixed commit into a local
// directory using a bounded pool of workers.
package download

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/tacogips/headsync/internal/debug"
	"github.com/tacogips/headsync/internal/repo/forge"
	"github.com/tacogips/headsync/internal/repo/model"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// Request describes one download run.
type Request struct {
	// Repo is the source repository.
	Repo model.RepositoryRef
	// Head is the commit every file is fetched at.
	Head model.HeadRef
	// Destination is the local root directory.
	Destination string
	// Files are repository-relative paths to fetch.
	Files []string
	// Concurrency is the number of batches and of workers.
	Concurrency int
}

// Result summarizes a finished run.
type Result struct {
	// Files is the number of files written.
	Files int
	// Bytes is the total number of bytes written.
	Bytes int64
	// Batches holds the size of each batch, in batch order.
	Batches []int
}

// Downloader writes fetched files to a filesystem.
type Downloader struct {
	// Fetcher retrieves raw file content.
	Fetcher forge.Fetcher
	// Fs is the destination filesystem.
	Fs afero.Fs
	// OnFile, when set, is called after each file is written. It is called
	// from several goroutines at once.
	OnFile func(path string, size int)
}

// New creates a Downloader writing to fs.
func New(fetcher forge.Fetcher, fs afero.Fs) *Downloader {
	return &Downloader{Fetcher: fetcher, Fs: fs}
}

// Run splits req.Files into req.Concurrency batches and processes them with
// exactly req.Concurrency workers. It returns after every batch finished or
// the first error; the first error cancels the remaining work.
func (d *Downloader) Run(ctx context.Context, req Request) (*Result, error) {
	batches, err := Partition(req.Files, req.Concurrency)
	if err != nil {
		return nil, err
	}

	debug.Debug("[download] %d files in %d batches at %s", len(req.Files), len(batches), req.Head.Short())

	if err := d.Fs.MkdirAll(req.Destination, dirMode); err != nil {
		return nil, &PathError{Op: "mkdir", Path: req.Destination, Cause: err}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(req.Concurrency)

	written := make([]int64, len(batches))
	for i, batch := range batches {
		g.Go(func() error {
			n, err := d.runBatch(gctx, req, batch)
			written[i] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Result{
		Files:   len(req.Files),
		Bytes:   lo.Sum(written),
		Batches: lo.Map(batches, func(b []string, _ int) int { return len(b) }),
	}, nil
}

func (d *Downloader) runBatch(ctx context.Context, req Request, batch []string) (int64, error) {
	var total int64
	for _, p := range batch {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		target, err := Target(req.Destination, p)
		if err != nil {
			return total, err
		}

		data, err := d.Fetcher.FetchRaw(ctx, req.Repo, req.Head, p)
		if err != nil {
			return total, &PathError{Op: "fetch", Path: p, Cause: err}
		}

		if err := d.Fs.MkdirAll(filepath.Dir(target), dirMode); err != nil {
			return total, &PathError{Op: "mkdir", Path: p, Cause: err}
		}
		if err := afero.WriteFile(d.Fs, target, data, fileMode); err != nil {
			return total, &PathError{Op: "write", Path: p, Cause: err}
		}

		total += int64(len(data))
		if d.OnFile != nil {
			d.OnFile(p, len(data))
		}
	}
	return total, nil
}

// Target maps a repository-relative path to its location under destination.
// Paths that would escape destination are rejected.
func Target(destination, rel string) (string, error) {
	cleaned := path.Clean("/" + rel)[1:]
	if cleaned == "" || strings.Contains(rel, "\x00") || hasDotDot(rel) {
		return "", &PathError{Op: "resolve", Path: rel, Cause: fmt.Errorf("path escapes the destination")}
	}
	return filepath.Join(destination, filepath.FromSlash(cleaned)), nil
}

func hasDotDot(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
