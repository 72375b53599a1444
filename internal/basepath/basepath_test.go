package basepath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRepoURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"https with .git", "https://github.com/alice/my-repo.git", "/my-repo/"},
		{"https without .git", "https://github.com/alice/my-repo", "/my-repo/"},
		{"trailing slash", "https://github.com/alice/my-repo/", "/my-repo/"},
		{"surrounding space", "  https://github.com/alice/my-repo.git \n", "/my-repo/"},
		{"scp-like", "git@github.com:alice/site.git", "/site/"},
		{"scp-like no owner dir", "git@example.com:site", "/site/"},
		{"ssh scheme", "ssh://git@gitlab.example.com:2222/group/sub/app.git", "/app/"},
		{"local bare repo", "/srv/git/pages.git", "/pages/"},
		{"dots and underscores", "https://github.com/alice/my_repo.v2.git", "/my_repo.v2/"},
		{"query string", "https://github.com/alice/my-repo.git?ref=main", "/my-repo/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromRepoURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromRepoURLInvalid(t *testing.T) {
	for _, url := range []string{"", "   ", "https://github.com/", ".git", "https://github.com/alice/my repo", "git@github.com:"} {
		_, err := FromRepoURL(url)
		assert.ErrorIs(t, err, ErrInvalidBasePath, "url %q", url)
	}
}

func TestValidate(t *testing.T) {
	valid := []string{"/my-repo/", "/a/", "/my_repo.v2/"}
	for _, p := range valid {
		assert.NoError(t, Validate(p), p)
	}

	invalid := []string{"", "/", "//", "my-repo/", "/my-repo", "/a/b/", "/../", "/./", "/my repo/", "/it's/"}
	for _, p := range invalid {
		assert.ErrorIs(t, Validate(p), ErrInvalidBasePath, p)
	}
}

func TestParseGitHubOwnerRepo(t *testing.T) {
	tests := []struct {
		url   string
		owner string
		repo  string
		ok    bool
	}{
		{"https://github.com/alice/my-repo.git", "alice", "my-repo", true},
		{"https://github.com/alice/my-repo", "alice", "my-repo", true},
		{"git@github.com:alice/my-repo.git", "alice", "my-repo", true},
		{"ssh://git@github.com/alice/my-repo.git", "alice", "my-repo", true},
		{"https://gitlab.com/alice/my-repo.git", "", "", false},
		{"https://github.com/alice", "", "", false},
		{"https://github.com/alice/my-repo/tree/main", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		owner, repo, ok := ParseGitHubOwnerRepo(tt.url)
		assert.Equal(t, tt.ok, ok, tt.url)
		assert.Equal(t, tt.owner, owner, tt.url)
		assert.Equal(t, tt.repo, repo, tt.url)
	}
}

func TestPagesURL(t *testing.T) {
	assert.Equal(t, "https://alice.github.io/my-repo/", PagesURL("https://github.com/Alice/my-repo.git"))
	assert.Equal(t, "https://alice.github.io/", PagesURL("git@github.com:alice/alice.github.io.git"))
	assert.Equal(t, "", PagesURL("https://example.com/alice/my-repo.git"))
}
