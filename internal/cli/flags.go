package cli

import (
	"os/exec"
	"strings"

	"github.com/tacogips/headsync/internal/debug"
)

// Common flag names and descriptions
const (
	// Flag names
	FlagConfig      = "config"
	FlagForge       = "forge"
	FlagBaseURL     = "base-url"
	FlagAPIURL      = "api-url"
	FlagTimeout     = "timeout"
	FlagConcurrency = "concurrency"
	FlagForce       = "force"
	FlagFormat      = "format"
	FlagStrict      = "strict"
	FlagAlgorithm   = "algorithm"
	FlagHeadSource  = "head-source"
	FlagManifest    = "manifest"
	FlagPath        = "path"
	FlagNoColor     = "no-color"
	FlagQuiet       = "quiet"
	FlagDebug       = "debug"

	// Flag descriptions
	DescConfig      = "Path to config file"
	DescForge       = "Hosting API: gitea or github"
	DescBaseURL     = "Web root of the host (raw downloads and clone URL)"
	DescAPIURL      = "Repository API root of the host"
	DescTimeout     = "Per-request timeout"
	DescConcurrency = "Number of download workers"
	DescForce       = "Write into a non-empty destination without asking"
	DescFormat      = "Summary format: text, json or yaml"
	DescStrict      = "Fail on missing remote files instead of writing the error body"
	DescAlgorithm   = "Manifest hash: sha256 or xxh3"
	DescHeadSource  = "Resolve HEAD with git (ls-remote) or api (github only)"
	DescManifest    = "Manifest file name inside the destination"
	DescPath        = "List only this subdirectory"
	DescNoColor     = "Disable colored output"
	DescQuiet       = "Suppress output"
	DescDebug       = "Enable debug logging"
)

// ghCLIToken asks the gh CLI for a token. It returns "" when gh is missing
// or not logged in.
func ghCLIToken() string {
	if _, err := exec.LookPath("gh"); err != nil {
		return ""
	}
	output, err := exec.Command("gh", "auth", "token").Output()
	if err != nil {
		debug.Debug("[cli] gh auth token failed: %v", err)
		return ""
	}
	return strings.TrimSpace(string(output))
}
