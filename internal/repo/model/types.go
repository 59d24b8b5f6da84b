package model

import (
	"fmt"
	"path"
)

// Default endpoints and names used by headsync.
const (
	// DefaultBaseURL is the web root of the default Gitea instance.
	DefaultBaseURL = "https://gitea.radium.group/"
	// DefaultAPIURL is the repository API root of the default Gitea instance.
	DefaultAPIURL = "https://gitea.radium.group/api/v1/repos/"
	// DefaultManifestFile is the manifest file name written into the destination.
	DefaultManifestFile = "SHA256"
	// HeadRefName is the ref label reported by git ls-remote for the default branch tip.
	HeadRefName = "HEAD"
)

// RepositoryRef identifies a remote repository.
type RepositoryRef struct {
	// Owner is the user or organization owning the repository.
	Owner string
	// Name is the repository name.
	Name string
}

// String returns the owner/name form used in API paths.
func (r RepositoryRef) String() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// IsZero reports whether the reference is unset.
func (r RepositoryRef) IsZero() bool {
	return r.Owner == "" && r.Name == ""
}

// EntryType is the kind of a contents listing entry.
type EntryType string

const (
	// EntryFile is a regular file.
	EntryFile EntryType = "file"
	// EntryDir is a directory that must be listed again.
	EntryDir EntryType = "dir"
	// EntrySymlink is a symbolic link. Not downloaded.
	EntrySymlink EntryType = "symlink"
	// EntrySubmodule is a submodule pointer. Not downloaded.
	EntrySubmodule EntryType = "submodule"
)

// TreeEntry is a single item of a contents listing response.
type TreeEntry struct {
	// Name is the base name of the entry.
	Name string `json:"name"`
	// Path is the repository-relative path. Listings rebuild it as parent/name.
	Path string `json:"path"`
	// Type classifies the entry.
	Type EntryType `json:"type"`
	// Size is the blob size in bytes (0 for directories).
	Size int64 `json:"size"`
	// SHA is the object id reported by the server.
	SHA string `json:"sha"`
}

// JoinPath returns the repository-relative path of name inside dir.
// An empty dir denotes the repository root.
func JoinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return path.Join(dir, name)
}

// HeadRef is the commit id that HEAD pointed at when resolved.
type HeadRef string

// IsZero reports whether the ref was not resolved.
func (h HeadRef) IsZero() bool {
	return h == ""
}

// Short returns the abbreviated commit id.
func (h HeadRef) Short() string {
	if len(h) > 7 {
		return string(h[:7])
	}
	return string(h)
}

// String implements fmt.Stringer.
func (h HeadRef) String() string {
	return string(h)
}
