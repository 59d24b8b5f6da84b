package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/tacogips/headsync/internal/repo/model"
)

// Default values.
const (
	DefaultForge       = "gitea"
	DefaultTimeout     = 5 * time.Second
	DefaultConcurrency = 3
	DefaultGitBinary   = "git"
	DefaultHeadSource  = HeadSourceGit

	// GitHubBaseURL and GitHubAPIURL replace the Gitea defaults when forge is github.
	GitHubBaseURL = "https://github.com/"
	GitHubAPIURL  = "https://api.github.com/"
)

// Head sources.
const (
	HeadSourceGit = "git"
	HeadSourceAPI = "api"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Forge:       DefaultForge,
		BaseURL:     model.DefaultBaseURL,
		APIURL:      model.DefaultAPIURL,
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
		Git: GitConfig{
			Binary: DefaultGitBinary,
		},
		Head: HeadConfig{
			Source: DefaultHeadSource,
		},
		Download: DownloadConfig{
			Strict: false,
		},
		Manifest: ManifestConfig{
			Filename:  "",
			Algorithm: string(model.HashSHA256),
		},
	}
}

// DefaultConfigDir returns the user configuration directory for headsync.
func DefaultConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "headsync")
}
