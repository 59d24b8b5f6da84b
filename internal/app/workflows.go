package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/afero"

	"github.com/tacogips/headsync/internal/config"
	"github.com/tacogips/headsync/internal/debug"
	"github.com/tacogips/headsync/internal/repo/forge"
	"github.com/tacogips/headsync/internal/repo/head"
)

// Env carries the collaborators shared by every workflow. Nil fields are
// built from Config on first use.
type Env struct {
	// Config is the loaded configuration. Nil means DefaultConfig.
	Config *config.Config
	// Forge overrides the forge built from Config.
	Forge forge.Forge
	// Runner overrides the process runner used for git ls-remote.
	Runner head.Runner
	// Fs overrides the local filesystem.
	Fs afero.Fs
}

func (e *Env) config() *config.Config {
	if e.Config == nil {
		e.Config = config.DefaultConfig()
	}
	return e.Config
}

func (e *Env) forge() (forge.Forge, error) {
	if e.Forge != nil {
		return e.Forge, nil
	}
	f, err := forge.New(e.config().ForgeConfig())
	if err != nil {
		return nil, err
	}
	debug.DebugValue("[app] forge", f.Name())
	e.Forge = f
	return f, nil
}

func (e *Env) fs() afero.Fs {
	if e.Fs == nil {
		e.Fs = afero.NewOsFs()
	}
	return e.Fs
}

// resolver returns the HEAD resolver selected by head.source.
func (e *Env) resolver(f forge.Forge) (head.Resolver, error) {
	cfg := e.config()
	if cfg.Head.Source == config.HeadSourceAPI {
		hr, ok := f.(forge.HeadResolver)
		if !ok {
			return nil, fmt.Errorf("forge %s cannot resolve HEAD through its API", f.Name())
		}
		return &head.APIResolver{Forge: hr}, nil
	}

	r := head.NewLsRemoteResolver(cfg.Git.Binary, f)
	if e.Runner != nil {
		r.Runner = e.Runner
	}
	return r, nil
}

// ValidateDestination validates that the destination path is usable.
func ValidateDestination(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("destination cannot be empty")
	}
	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("destination contains a NUL byte")
	}
	return nil
}

// DestinationIsEmpty reports whether path is missing or an empty directory.
func DestinationIsEmpty(afs afero.Fs, path string) (bool, error) {
	exists, err := afero.Exists(afs, path)
	if err != nil {
		return false, err
	}
	if !exists {
		return true, nil
	}
	entries, err := afero.ReadDir(afs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}
