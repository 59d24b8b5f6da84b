package config

import (
	"fmt"
	"net/url"
	"slices"

	"github.com/tacogips/headsync/internal/repo/forge"
	"github.com/tacogips/headsync/internal/repo/model"
)

// Validate validates the configuration. Concurrency is checked by the
// download workflow so the error surfaces as an invalid argument.
func Validate(config *Config) error {
	if config == nil {
		return NewConfigError(ConfigValidationFailed, "", "configuration cannot be nil")
	}
	if !slices.Contains(forge.SupportedForges, config.Forge) {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "forge",
			fmt.Sprintf("unsupported forge %q, supported forges: %v", config.Forge, forge.SupportedForges))
	}
	if config.Timeout < 0 {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "timeout", "timeout cannot be negative")
	}
	if err := validateURL("base_url", config.BaseURL); err != nil {
		return err
	}
	if err := validateURL("api_url", config.APIURL); err != nil {
		return err
	}
	if config.Git.Binary == "" {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "git.binary", "git binary cannot be empty")
	}

	switch config.Head.Source {
	case HeadSourceGit:
	case HeadSourceAPI:
		if config.Forge != "github" {
			return NewConfigErrorWithField(ConfigValidationFailed, "", "head.source",
				"api head resolution requires the github forge")
		}
	default:
		return NewConfigErrorWithField(ConfigValidationFailed, "", "head.source",
			fmt.Sprintf("invalid head source %q (expected %q or %q)", config.Head.Source, HeadSourceGit, HeadSourceAPI))
	}

	switch model.HashAlgorithm(config.Manifest.Algorithm) {
	case model.HashSHA256, model.HashXXH3:
	default:
		return NewConfigErrorWithField(ConfigValidationFailed, "", "manifest.algorithm",
			fmt.Sprintf("unknown hash algorithm %q", config.Manifest.Algorithm))
	}
	return nil
}

func validateURL(field, raw string) error {
	if raw == "" {
		return NewConfigErrorWithField(ConfigValidationFailed, "", field, "URL cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return &ConfigError{
			Type:    ConfigValidationFailed,
			Field:   field,
			Message: "invalid URL",
			Cause:   err,
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return NewConfigErrorWithField(ConfigValidationFailed, "", field,
			fmt.Sprintf("URL must use http or https: %s", raw))
	}
	return nil
}

// ForgeConfig returns the forge client settings derived from config.
func (c *Config) ForgeConfig() forge.Config {
	return forge.Config{
		Name:    c.Forge,
		BaseURL: c.BaseURL,
		APIURL:  c.APIURL,
		Token:   c.Token,
		Timeout: c.Timeout,
		Strict:  c.Download.Strict,
	}
}

// ManifestAlgorithm returns the configured hash algorithm.
func (c *Config) ManifestAlgorithm() model.HashAlgorithm {
	return model.HashAlgorithm(c.Manifest.Algorithm)
}
