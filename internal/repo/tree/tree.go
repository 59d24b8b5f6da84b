// Package tree discovers the files of a remote repository by walking its
// contents listings.
package tree

import (
	"context"
	"fmt"

	"github.com/tacogips/headsync/internal/debug"
	"github.com/tacogips/headsync/internal/repo/forge"
	"github.com/tacogips/headsync/internal/repo/model"
)

// Expand lists a single directory and classifies its entries.
// Entries that are neither files nor directories are skipped.
func Expand(ctx context.Context, lister forge.Lister, repo model.RepositoryRef, dir string) (model.Tree, error) {
	entries, err := lister.ListDir(ctx, repo, dir)
	if err != nil {
		return model.Tree{}, err
	}
	return Classify(entries, dir), nil
}

// Classify splits listing entries into file and directory paths under dir.
func Classify(entries []model.TreeEntry, dir string) model.Tree {
	var t model.Tree
	for _, e := range entries {
		p := model.JoinPath(dir, e.Name)
		switch e.Type {
		case model.EntryFile:
			t.Files = append(t.Files, p)
		case model.EntryDir:
			t.Dirs = append(t.Dirs, p)
		default:
			debug.Debug("[tree] skipping %s entry %s", e.Type, p)
		}
	}
	return t
}

// Walk lists start ("" for the repository root) and every directory below it.
//
// Directories are expanded in FIFO order, one at a time, and each at most once
// even if a listing reports it again. The returned Dirs are the directories
// that were expanded below start.
func Walk(ctx context.Context, lister forge.Lister, repo model.RepositoryRef, start string) (model.Tree, error) {
	var result model.Tree

	queue := []string{start}
	seen := map[string]struct{}{start: {}}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return model.Tree{}, err
		}

		dir := queue[0]
		queue = queue[1:]

		debug.Debug("[tree] expanding %q (%d pending)", dir, len(queue))
		level, err := Expand(ctx, lister, repo, dir)
		if err != nil {
			return model.Tree{}, fmt.Errorf("failed to list %q: %w", displayDir(dir), err)
		}

		result.Files = append(result.Files, level.Files...)
		for _, sub := range level.Dirs {
			if _, ok := seen[sub]; ok {
				continue
			}
			seen[sub] = struct{}{}
			result.Dirs = append(result.Dirs, sub)
			queue = append(queue, sub)
		}
	}

	debug.Debug("[tree] discovered %d files in %d directories", len(result.Files), len(result.Dirs))
	return result, nil
}

func displayDir(dir string) string {
	if dir == "" {
		return "/"
	}
	return dir
}
