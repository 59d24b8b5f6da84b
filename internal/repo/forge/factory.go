package forge

import (
	"fmt"
	"time"
)

// Config carries the settings needed to build a Forge.
type Config struct {
	// Name selects the forge implementation ("gitea" or "github").
	Name string
	// BaseURL is the web root of the host.
	BaseURL string
	// APIURL is the API root of the host.
	APIURL string
	// Token is the optional access token.
	Token string
	// Timeout is the per-request timeout.
	Timeout time.Duration
	// Strict turns non-2xx raw responses into errors (Gitea only).
	Strict bool
}

// New creates the forge selected by cfg.Name.
func New(cfg Config) (Forge, error) {
	switch cfg.Name {
	case "", "gitea":
		c := NewGiteaClient(cfg.BaseURL, cfg.APIURL, cfg.Timeout)
		c.Token = cfg.Token
		c.Strict = cfg.Strict
		return c, nil
	case "github":
		return NewGitHubClient(cfg.Token, cfg.BaseURL, cfg.APIURL, cfg.Timeout)
	default:
		return nil, NewForgeError(ForgeUnsupported, cfg.Name, "",
			fmt.Sprintf("unsupported forge, supported forges: %v", SupportedForges), nil)
	}
}

// SupportedForges lists the accepted forge names.
var SupportedForges = []string{"gitea", "github"}
