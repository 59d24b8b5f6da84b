package manifest

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/tacogips/headsync/internal/repo/model"
)

// Report is the outcome of checking a directory against a manifest.
type Report struct {
	// OK lists files whose content matches.
	OK []string `json:"ok" yaml:"ok"`
	// Mismatched lists files whose content changed.
	Mismatched []string `json:"mismatched" yaml:"mismatched"`
	// Missing lists files that no longer exist.
	Missing []string `json:"missing" yaml:"missing"`
}

// Clean reports whether every file matched.
func (r *Report) Clean() bool {
	return len(r.Mismatched) == 0 && len(r.Missing) == 0
}

// Verify re-hashes every manifest entry under destination.
func Verify(afs afero.Fs, destination string, m *model.Manifest) (*Report, error) {
	hash, err := HasherFor(m.Algorithm)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, e := range m.Entries {
		content, err := afero.ReadFile(afs, filepath.Join(destination, filepath.FromSlash(e.Path)))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			report.Missing = append(report.Missing, e.Path)
		case err != nil:
			return nil, err
		case hash(content) != e.Hash:
			report.Mismatched = append(report.Mismatched, e.Path)
		default:
			report.OK = append(report.OK, e.Path)
		}
	}
	return report, nil
}
