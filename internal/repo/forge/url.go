package forge

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	giturl "github.com/kubescape/go-git-url"

	"github.com/tacogips/headsync/internal/repo/model"
)

var (
	namePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
	sshPattern  = regexp.MustCompile(`^[\w.-]+@([\w.-]+):(.+)$`)
)

// ParseRepositoryRef parses a repository reference.
// Supported formats:
//   - owner/name
//   - host/owner/name
//   - https://host/owner/name[.git]
//   - git@host:owner/name.git
//
// Well-known hosts (github.com, gitlab.com, ...) are parsed with go-git-url;
// anything else, self-hosted Gitea included, falls back to path splitting.
func ParseRepositoryRef(input string) (model.RepositoryRef, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return model.RepositoryRef{}, NewInvalidRepositoryError(input, fmt.Errorf("reference cannot be empty"))
	}

	if m := sshPattern.FindStringSubmatch(s); m != nil {
		return splitOwnerName(input, m[2])
	}

	if strings.Contains(s, "://") {
		if gu, err := giturl.NewGitURL(s); err == nil && gu.GetOwnerName() != "" && gu.GetRepoName() != "" {
			return validate(input, gu.GetOwnerName(), gu.GetRepoName())
		}
		u, err := url.Parse(s)
		if err != nil {
			return model.RepositoryRef{}, NewInvalidRepositoryError(input, err)
		}
		return splitOwnerName(input, u.Path)
	}

	parts := strings.Split(strings.Trim(s, "/"), "/")
	if len(parts) == 3 && strings.Contains(parts[0], ".") {
		parts = parts[1:]
	}
	if len(parts) != 2 {
		return model.RepositoryRef{}, NewInvalidRepositoryError(input,
			fmt.Errorf("expected owner/name, got %q", s))
	}
	return validate(input, parts[0], parts[1])
}

func splitOwnerName(input, p string) (model.RepositoryRef, error) {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	if len(parts) < 2 {
		return model.RepositoryRef{}, NewInvalidRepositoryError(input,
			fmt.Errorf("missing owner or repository name"))
	}
	return validate(input, parts[0], parts[1])
}

func validate(input, owner, name string) (model.RepositoryRef, error) {
	name = strings.TrimSuffix(name, ".git")
	if !namePattern.MatchString(owner) || !namePattern.MatchString(name) {
		return model.RepositoryRef{}, NewInvalidRepositoryError(input,
			fmt.Errorf("owner and name may only contain letters, digits, '-', '_' and '.'"))
	}
	if owner == ".." || name == ".." || owner == "." || name == "." {
		return model.RepositoryRef{}, NewInvalidRepositoryError(input,
			fmt.Errorf("owner and name cannot be '.' or '..'"))
	}
	return model.RepositoryRef{Owner: owner, Name: name}, nil
}
