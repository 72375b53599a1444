package basepath

import (
	"fmt"
	"strings"
)

// ParseGitHubOwnerRepo extracts owner and repo from a GitHub remote URL.
// Supports:
//   - scp-like: git@github.com:owner/repo.git
//   - https: https://github.com/owner/repo.git
//   - ssh: ssh://git@github.com/owner/repo.git
//
// Returns ok=false for other hosts and malformed URLs.
func ParseGitHubOwnerRepo(raw string) (owner, repo string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", false
	}

	var path string
	switch {
	case strings.HasPrefix(raw, "https://github.com/"):
		path = strings.TrimPrefix(raw, "https://github.com/")
	case strings.HasPrefix(raw, "ssh://git@github.com/"):
		path = strings.TrimPrefix(raw, "ssh://git@github.com/")
	case strings.HasPrefix(raw, "git@github.com:"):
		path = strings.TrimPrefix(raw, "git@github.com:")
	default:
		return "", "", false
	}

	path = strings.TrimSuffix(strings.TrimRight(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) != 2 {
		return "", "", false
	}
	owner, repo = parts[0], parts[1]
	if !namePattern.MatchString(owner) || !namePattern.MatchString(repo) {
		return "", "", false
	}
	return owner, repo, true
}

// PagesURL returns the GitHub Pages URL for a repository URL, or "" when
// the remote is not on github.com.
func PagesURL(repoURL string) string {
	owner, repo, ok := ParseGitHubOwnerRepo(repoURL)
	if !ok {
		return ""
	}
	owner = strings.ToLower(owner)
	if strings.EqualFold(repo, owner+".github.io") {
		return fmt.Sprintf("https://%s.github.io/", owner)
	}
	return fmt.Sprintf("https://%s.github.io/%s/", owner, repo)
}
