package model

// Tree is the outcome of listing a repository: every file discovered and
// every directory that was expanded, each in breadth-first discovery order.
type Tree struct {
	// Files are repository-relative file paths.
	Files []string `json:"files" yaml:"files"`
	// Dirs are repository-relative directory paths.
	Dirs []string `json:"dirs" yaml:"dirs"`
}
