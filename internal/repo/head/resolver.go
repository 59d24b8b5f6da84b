// Package head resolves the commit a repository's HEAD points at.
package head

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/tacogips/headsync/internal/debug"
	"github.com/tacogips/headsync/internal/repo/forge"
	"github.com/tacogips/headsync/internal/repo/model"
)

// Resolver resolves HEAD for a repository.
type Resolver interface {
	Resolve(ctx context.Context, repo model.RepositoryRef) (model.HeadRef, error)
}

// Runner runs an external command and returns its stdout and stderr.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// LsRemoteResolver resolves HEAD with `git ls-remote <clone-url>`.
type LsRemoteResolver struct {
	// GitBinary is the git executable, "git" when empty.
	GitBinary string
	// Forge supplies the clone URL for a repository.
	Forge forge.Forge
	// Runner executes git; ExecRunner when nil.
	Runner Runner
}

// NewLsRemoteResolver creates a resolver for repositories hosted on f.
func NewLsRemoteResolver(gitBinary string, f forge.Forge) *LsRemoteResolver {
	return &LsRemoteResolver{
		GitBinary: gitBinary,
		Forge:     f,
		Runner:    ExecRunner{},
	}
}

// Resolve implements Resolver.
func (r *LsRemoteResolver) Resolve(ctx context.Context, repo model.RepositoryRef) (model.HeadRef, error) {
	git := r.GitBinary
	if git == "" {
		git = "git"
	}
	runner := r.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	remote := r.Forge.CloneURL(repo)

	debug.Debug("[head] %s ls-remote %s", git, remote)
	stdout, stderr, err := runner.Run(ctx, git, "ls-remote", remote)
	if err != nil {
		return "", &HeadError{
			Type:   HeadCommandFailed,
			Remote: remote,
			Stderr: strings.TrimSpace(string(stderr)),
			Cause:  err,
		}
	}

	ref, ok := ParseLsRemote(stdout)
	if !ok {
		return "", &HeadError{Type: HeadNotFound, Remote: remote}
	}
	debug.DebugValue("[head] HEAD", ref)
	return ref, nil
}

// APIResolver resolves HEAD through a forge API.
type APIResolver struct {
	Forge forge.HeadResolver
}

// Resolve implements Resolver.
func (r *APIResolver) Resolve(ctx context.Context, repo model.RepositoryRef) (model.HeadRef, error) {
	ref, err := r.Forge.ResolveHead(ctx, repo)
	if err != nil {
		return "", &HeadError{Type: HeadCommandFailed, Remote: repo.String(), Cause: err}
	}
	if ref.IsZero() {
		return "", &HeadError{Type: HeadNotFound, Remote: repo.String()}
	}
	return ref, nil
}

// ParseLsRemote returns the commit id of the HEAD line in git ls-remote output.
// Lines are "<sha>\t<ref>"; the first line whose ref is HEAD wins.
func ParseLsRemote(output []byte) (model.HeadRef, bool) {
	sc := bufio.NewScanner(bytes.NewReader(output))
	for sc.Scan() {
		fields := strings.Split(strings.TrimRight(sc.Text(), "\r"), "\t")
		if len(fields) < 2 {
			continue
		}
		if strings.TrimSpace(fields[1]) == model.HeadRefName && fields[0] != "" {
			return model.HeadRef(fields[0]), true
		}
	}
	return "", false
}
