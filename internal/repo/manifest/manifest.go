// Package manifest hashes downloaded files and reads and writes the
// resulting checksum manifest.
//
// A manifest is a header line naming the algorithm followed by one
// "path______hexhash" line per file:
//
//	[SHA256]
//	README.md______9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08
package manifest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/tacogips/headsync/internal/debug"
	"github.com/tacogips/headsync/internal/repo/model"
)

var (
	// ErrUnknownAlgorithm is returned for unsupported hash algorithms.
	ErrUnknownAlgorithm = errors.New("unknown hash algorithm")
	// ErrMalformed is returned when a manifest cannot be parsed.
	ErrMalformed = errors.New("malformed manifest")
)

// Build reads every file under destination and hashes it with alg.
// Entries keep the order of files. A file that cannot be read aborts the build.
func Build(fs afero.Fs, destination string, files []string, alg model.HashAlgorithm) (*model.Manifest, error) {
	if alg == "" {
		alg = model.HashSHA256
	}
	hash, err := HasherFor(alg)
	if err != nil {
		return nil, err
	}

	m := &model.Manifest{
		Algorithm: alg,
		Entries:   make([]model.ManifestEntry, 0, len(files)),
	}
	for _, p := range files {
		content, err := afero.ReadFile(fs, filepath.Join(destination, filepath.FromSlash(p)))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		m.Entries = append(m.Entries, model.ManifestEntry{Path: p, Hash: hash(content)})
	}

	debug.Debug("[manifest] hashed %d files with %s", len(m.Entries), alg)
	return m, nil
}

// Encode renders m in manifest file format.
func Encode(m *model.Manifest) []byte {
	var buf bytes.Buffer
	buf.WriteString(m.Algorithm.Header())
	buf.WriteByte('\n')
	for _, e := range m.Entries {
		buf.WriteString(e.Path)
		buf.WriteString(model.ManifestSeparator)
		buf.WriteString(e.Hash)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Write writes m to destination/filename in a single write and returns the path.
// An empty filename selects the algorithm's default name.
func Write(fs afero.Fs, destination, filename string, m *model.Manifest) (string, error) {
	if filename == "" {
		filename = m.Algorithm.DefaultFilename()
	}
	target := filepath.Join(destination, filename)
	if err := afero.WriteFile(fs, target, Encode(m), 0o644); err != nil {
		return "", fmt.Errorf("failed to write manifest %s: %w", target, err)
	}
	return target, nil
}

// Parse reads a manifest in the format produced by Encode.
func Parse(r io.Reader) (*model.Manifest, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: missing header", ErrMalformed)
	}
	header := strings.TrimSpace(sc.Text())
	if !strings.HasPrefix(header, "[") || !strings.HasSuffix(header, "]") {
		return nil, fmt.Errorf("%w: bad header %q", ErrMalformed, header)
	}
	alg := model.HashAlgorithm(strings.ToLower(header[1 : len(header)-1]))
	if _, err := HasherFor(alg); err != nil {
		return nil, err
	}

	m := &model.Manifest{Algorithm: alg}
	line := 1
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if text == "" {
			continue
		}
		i := strings.LastIndex(text, model.ManifestSeparator)
		if i <= 0 {
			return nil, fmt.Errorf("%w: line %d has no separator", ErrMalformed, line)
		}
		m.Entries = append(m.Entries, model.ManifestEntry{
			Path: text[:i],
			Hash: text[i+len(model.ManifestSeparator):],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Read parses the manifest file at path.
func Read(fs afero.Fs, path string) (*model.Manifest, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}
