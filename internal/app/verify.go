package app

import (
	"path/filepath"

	"github.com/tacogips/headsync/internal/debug"
	"github.com/tacogips/headsync/internal/repo/manifest"
)

// VerifyOptions contains options for checking a destination.
type VerifyOptions struct {
	Env
	// Destination is the directory a previous download wrote to.
	Destination string
	// Manifest is the manifest file name inside Destination. Empty uses the
	// configured name, then the algorithm default.
	Manifest string
}

// VerifyResult contains the outcome of a verification.
type VerifyResult struct {
	manifest.Report `yaml:",inline"`
	// ManifestPath is the manifest that was checked.
	ManifestPath string `json:"manifest_path" yaml:"manifest_path"`
	// Algorithm is the hash recorded in the manifest header.
	Algorithm string `json:"algorithm" yaml:"algorithm"`
}

// Verify re-hashes the files recorded in a destination's manifest.
func Verify(opts VerifyOptions) (*VerifyResult, error) {
	debug.DebugSection("[app] Verify workflow start")
	debug.DebugValue("[app] Destination", opts.Destination)

	if err := ValidateDestination(opts.Destination); err != nil {
		return nil, NewValidationError("invalid verify options", err)
	}

	cfg := opts.config()
	name := opts.Manifest
	if name == "" {
		name = cfg.Manifest.Filename
	}
	if name == "" {
		name = cfg.ManifestAlgorithm().DefaultFilename()
	}
	path := filepath.Join(opts.Destination, name)
	debug.DebugValue("[app] Manifest", path)

	afs := opts.fs()
	m, err := manifest.Read(afs, path)
	if err != nil {
		return nil, NewVerifyError("failed to read manifest", err)
	}
	report, err := manifest.Verify(afs, opts.Destination, m)
	if err != nil {
		return nil, NewVerifyError("failed to verify destination", err)
	}

	debug.Debug("[app] %d ok, %d mismatched, %d missing", len(report.OK), len(report.Mismatched), len(report.Missing))
	return &VerifyResult{
		Report:       *report,
		ManifestPath: path,
		Algorithm:    string(m.Algorithm),
	}, nil
}
