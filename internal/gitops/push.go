package gitops

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"github.com/HardDie/vitepages/internal/exec"
	"github.com/HardDie/vitepages/internal/logger"
)

// Push modes.
const (
	ModeAuto  = "auto"
	ModeGoGit = "go-git"
	ModeCLI   = "cli"
)

// PushOptions configures Push.
type PushOptions struct {
	Remote string
	Branch string
	URL    string
	// Token enables HTTP basic auth for https remotes.
	Token string
	// Mode is auto, go-git or cli.
	Mode string
	// Runner executes `git push` in cli mode.
	Runner exec.CommandRunner
}

// ResolveMode picks the push implementation. In auto mode go-git is used
// when it can authenticate on its own (token, ssh agent, local path) and
// the git CLI otherwise, so credential helpers keep working.
func ResolveMode(opts PushOptions) string {
	switch opts.Mode {
	case ModeGoGit, ModeCLI:
		return opts.Mode
	}
	if opts.Token != "" || IsSSH(opts.URL) || IsLocal(opts.URL) {
		return ModeGoGit
	}
	return ModeCLI
}

// Push sends Branch to Remote and records it as the upstream of Branch.
func Push(ctx context.Context, dir string, opts PushOptions) error {
	mode := ResolveMode(opts)
	logger.Debug("pushing", logger.Dir(dir), "remote", opts.Remote, "branch", opts.Branch, "mode", mode)

	if mode == ModeCLI {
		if opts.Runner == nil {
			return errors.New("cli push requires a command runner")
		}
		_, err := exec.Run(ctx, opts.Runner, "git", []string{"push", "-u", opts.Remote, opts.Branch}, exec.RunOpts{Dir: dir})
		return err
	}

	repo, err := git.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("open repository in %s: %w", dir, err)
	}
	auth, err := Auth(opts.URL, opts.Token)
	if err != nil {
		return err
	}

	ref := plumbing.NewBranchReferenceName(opts.Branch)
	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: opts.Remote,
		RefSpecs:   []config.RefSpec{config.RefSpec(ref.String() + ":" + ref.String())},
		Auth:       auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("push %s to %s: %w", opts.Branch, opts.Remote, err)
	}

	return setUpstream(repo, opts.Remote, opts.Branch)
}

func setUpstream(repo *git.Repository, remote, branch string) error {
	cfg, err := repo.Config()
	if err != nil {
		return fmt.Errorf("read repository config: %w", err)
	}
	cfg.Branches[branch] = &config.Branch{
		Name:   branch,
		Remote: remote,
		Merge:  plumbing.NewBranchReferenceName(branch),
	}
	if err := repo.SetConfig(cfg); err != nil {
		return fmt.Errorf("set upstream for %s: %w", branch, err)
	}
	return nil
}

// Auth returns the go-git auth method for url.
func Auth(url, token string) (transport.AuthMethod, error) {
	switch {
	case IsSSH(url):
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			return nil, fmt.Errorf("ssh agent auth: %w", err)
		}
		return auth, nil
	case token != "":
		return &http.BasicAuth{Username: "x-access-token", Password: token}, nil
	}
	return nil, nil
}

// IsSSH reports whether url uses ssh, including scp-like syntax.
func IsSSH(url string) bool {
	if strings.HasPrefix(url, "ssh://") {
		return true
	}
	return !strings.Contains(url, "://") && strings.Contains(url, "@") && strings.Contains(url, ":")
}

// IsLocal reports whether url is a filesystem path or file:// URL.
func IsLocal(url string) bool {
	return strings.HasPrefix(url, "file://") || strings.HasPrefix(url, "/") || strings.HasPrefix(url, ".")
}
