package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tacogips/headsync/internal/debug"
	"github.com/tacogips/headsync/internal/repo/model"
)

// EnvPrefix prefixes every environment override (HEADSYNC_BASE_URL, ...).
const EnvPrefix = "HEADSYNC"

// ConfigName is the config file base name searched in the working directory
// and in DefaultConfigDir.
const ConfigName = "headsync"

// FlagKeys maps CLI flag names to configuration keys.
var FlagKeys = map[string]string{
	"forge":       "forge",
	"base-url":    "base_url",
	"api-url":     "api_url",
	"timeout":     "timeout",
	"concurrency": "concurrency",
	"git":         "git.binary",
	"head-source": "head.source",
	"strict":      "download.strict",
	"manifest":    "manifest.filename",
	"algorithm":   "manifest.algorithm",
}

// Loader layers defaults, a config file, environment variables and flags.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a Loader with defaults and environment bindings applied.
func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("forge", d.Forge)
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("api_url", d.APIURL)
	v.SetDefault("token", d.Token)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("concurrency", d.Concurrency)
	v.SetDefault("git.binary", d.Git.Binary)
	v.SetDefault("head.source", d.Head.Source)
	v.SetDefault("download.strict", d.Download.Strict)
	v.SetDefault("manifest.filename", d.Manifest.Filename)
	v.SetDefault("manifest.algorithm", d.Manifest.Algorithm)
}

// BindFlags binds the flags of fs that appear in FlagKeys. Flags only
// override lower layers when set explicitly.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	for name, key := range FlagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// Load reads configuration. An explicit path must exist; without one the
// loader searches ./headsync.{yaml,json,toml} and DefaultConfigDir, and a
// missing file means defaults.
func (l *Loader) Load(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, NewConfigErrorWithCause(ConfigNotFound, path, "configuration file not found", err)
		}
		l.v.SetConfigFile(path)
	} else {
		l.v.SetConfigName(ConfigName)
		l.v.AddConfigPath(".")
		if dir := DefaultConfigDir(); dir != "" {
			l.v.AddConfigPath(dir)
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, NewConfigErrorWithCause(ConfigInvalid, path, "failed to read configuration file", err)
		}
		debug.Debug("[config] no configuration file found, using defaults")
	} else {
		debug.DebugValue("[config] file", l.v.ConfigFileUsed())
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, NewConfigErrorWithCause(ConfigInvalid, l.v.ConfigFileUsed(), "unable to decode configuration", err)
	}

	applyForgeDefaults(&cfg, l.v)
	if cfg.Token == "" {
		cfg.Token = TokenFromEnv(cfg.Forge)
	}

	if err := Validate(&cfg); err != nil {
		return nil, withFile(err, l.v.ConfigFileUsed())
	}
	return &cfg, nil
}

// applyForgeDefaults swaps the Gitea endpoint defaults for GitHub's when the
// github forge is selected and the endpoints were not configured.
func applyForgeDefaults(cfg *Config, v *viper.Viper) {
	if cfg.Forge != "github" {
		return
	}
	if !v.IsSet("base_url") || cfg.BaseURL == model.DefaultBaseURL {
		cfg.BaseURL = GitHubBaseURL
	}
	if !v.IsSet("api_url") || cfg.APIURL == model.DefaultAPIURL {
		cfg.APIURL = GitHubAPIURL
	}
}

// TokenFromEnv retrieves an access token for forge from well-known variables.
// GitHub checks GITHUB_TOKEN first, then GH_TOKEN; Gitea checks GITEA_TOKEN.
func TokenFromEnv(forge string) string {
	var names []string
	switch forge {
	case "github":
		names = []string{"GITHUB_TOKEN", "GH_TOKEN"}
	default:
		names = []string{"GITEA_TOKEN"}
	}
	for _, name := range names {
		if token := os.Getenv(name); token != "" {
			return token
		}
	}
	return ""
}
