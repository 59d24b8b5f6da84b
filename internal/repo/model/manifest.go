package model

import "strings"

// HashAlgorithm names a content hash used in a manifest.
type HashAlgorithm string

const (
	// HashSHA256 is the default manifest algorithm.
	HashSHA256 HashAlgorithm = "sha256"
	// HashXXH3 is the 128-bit XXH3 hash, faster for large trees.
	HashXXH3 HashAlgorithm = "xxh3"
)

// Header returns the bracketed header line written at the top of a manifest.
func (a HashAlgorithm) Header() string {
	return "[" + strings.ToUpper(string(a)) + "]"
}

// DefaultFilename returns the manifest file name used when none is configured.
func (a HashAlgorithm) DefaultFilename() string {
	return strings.ToUpper(string(a))
}

// ManifestSeparator sits between the path and the hash on each manifest line.
const ManifestSeparator = "______"

// ManifestEntry is one hashed file.
type ManifestEntry struct {
	// Path is the repository-relative file path.
	Path string `json:"path" yaml:"path"`
	// Hash is the hex-encoded content hash.
	Hash string `json:"hash" yaml:"hash"`
}

// Manifest maps relative paths to content hashes, in file list order.
type Manifest struct {
	// Algorithm is the hash used for every entry.
	Algorithm HashAlgorithm `json:"algorithm" yaml:"algorithm"`
	// Entries are ordered as the file list that produced them.
	Entries []ManifestEntry `json:"entries" yaml:"entries"`
}
