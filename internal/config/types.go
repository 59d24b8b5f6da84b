package config

import (
	"log/slog"
	"time"
)

// Config represents the global headsync configuration.
type Config struct {
	// Forge selects the hosting API ("gitea" or "github").
	Forge string `mapstructure:"forge" json:"forge" yaml:"forge"`
	// BaseURL is the web root used for raw downloads and clone URLs.
	BaseURL string `mapstructure:"base_url" json:"base_url" yaml:"base_url"`
	// APIURL is the repository API root.
	APIURL string `mapstructure:"api_url" json:"api_url" yaml:"api_url"`
	// Token is the optional access token for private repositories.
	Token string `mapstructure:"token" json:"-" yaml:"-"`
	// Timeout is the per-request network timeout.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout"`
	// Concurrency is the number of download workers.
	Concurrency int `mapstructure:"concurrency" json:"concurrency" yaml:"concurrency"`
	// Git configures the git binary used to resolve HEAD.
	Git GitConfig `mapstructure:"git" json:"git" yaml:"git"`
	// Head configures HEAD resolution.
	Head HeadConfig `mapstructure:"head" json:"head" yaml:"head"`
	// Download configures file fetching.
	Download DownloadConfig `mapstructure:"download" json:"download" yaml:"download"`
	// Manifest configures the checksum manifest.
	Manifest ManifestConfig `mapstructure:"manifest" json:"manifest" yaml:"manifest"`
}

// GitConfig represents git binary settings.
type GitConfig struct {
	// Binary is the git executable name or path.
	Binary string `mapstructure:"binary" json:"binary" yaml:"binary"`
}

// HeadConfig represents HEAD resolution settings.
type HeadConfig struct {
	// Source is "git" (git ls-remote) or "api" (forge API, GitHub only).
	Source string `mapstructure:"source" json:"source" yaml:"source"`
}

// DownloadConfig represents download settings.
type DownloadConfig struct {
	// Strict fails on non-2xx raw responses instead of writing the body to disk.
	Strict bool `mapstructure:"strict" json:"strict" yaml:"strict"`
}

// ManifestConfig represents manifest settings.
type ManifestConfig struct {
	// Filename is the manifest file name inside the destination. Empty selects
	// the algorithm's default (SHA256 for sha256).
	Filename string `mapstructure:"filename" json:"filename" yaml:"filename"`
	// Algorithm is the content hash ("sha256" or "xxh3").
	Algorithm string `mapstructure:"algorithm" json:"algorithm" yaml:"algorithm"`
}

// LogValue implements slog.LogValuer. The token is never logged.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("forge", c.Forge),
		slog.String("base_url", c.BaseURL),
		slog.String("api_url", c.APIURL),
		slog.Bool("token_set", c.Token != ""),
		slog.Duration("timeout", c.Timeout),
		slog.Int("concurrency", c.Concurrency),
		slog.String("git_binary", c.Git.Binary),
		slog.String("head_source", c.Head.Source),
		slog.Bool("strict", c.Download.Strict),
		slog.String("manifest_filename", c.Manifest.Filename),
		slog.String("manifest_algorithm", c.Manifest.Algorithm),
	)
}
