// Package basepath derives and validates the URL path prefix a site is
// served under on GitHub Pages, e.g. /my-repo/.
package basepath

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidBasePath is returned for paths not shaped like /<name>/.
var ErrInvalidBasePath = errors.New("invalid base path")

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// FromRepoURL returns /<name>/ for the repository named by url. Accepted forms:
//   - https://github.com/owner/repo(.git)
//   - ssh://git@host/owner/repo(.git)
//   - git@host:owner/repo(.git)
//   - local paths such as /srv/git/repo.git
func FromRepoURL(url string) (string, error) {
	name, err := RepoName(url)
	if err != nil {
		return "", err
	}
	p := "/" + name + "/"
	if err := Validate(p); err != nil {
		return "", err
	}
	return p, nil
}

// RepoName returns the last path component of url without a .git suffix.
func RepoName(url string) (string, error) {
	raw := strings.TrimSpace(url)
	if raw == "" {
		return "", fmt.Errorf("%w: empty repository url", ErrInvalidBasePath)
	}

	s := strings.TrimRight(raw, "/")
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = strings.TrimRight(s[:i], "/")
	}
	s = strings.TrimSuffix(s, ".git")

	if i := strings.Index(s, "://"); i >= 0 {
		// Drop scheme and host; a bare host has no repository.
		rest := s[i+3:]
		slash := strings.Index(rest, "/")
		if slash < 0 {
			return "", fmt.Errorf("%w: %q has no repository path", ErrInvalidBasePath, raw)
		}
		s = rest[slash:]
	} else if at := strings.Index(s, "@"); at >= 0 {
		// scp-like syntax keeps the path after the first colon.
		if colon := strings.Index(s[at:], ":"); colon >= 0 {
			s = s[at+colon+1:]
		}
	}

	name := s
	if i := strings.LastIndexAny(s, `/\:`); i >= 0 {
		name = s[i+1:]
	}
	if name == "" || !namePattern.MatchString(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: cannot derive repository name from %q", ErrInvalidBasePath, raw)
	}
	return name, nil
}

// Validate checks that p has the /<name>/ shape.
func Validate(p string) error {
	if p == "" {
		return fmt.Errorf("%w: empty", ErrInvalidBasePath)
	}
	if len(p) < 3 || p[0] != '/' || p[len(p)-1] != '/' {
		return fmt.Errorf("%w: %q must look like /name/", ErrInvalidBasePath, p)
	}
	name := p[1 : len(p)-1]
	if !namePattern.MatchString(name) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q contains an invalid name", ErrInvalidBasePath, p)
	}
	return nil
}
