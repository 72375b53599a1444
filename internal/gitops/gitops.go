// Package gitops creates the initial repository state with go-git.
package gitops

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/HardDie/vitepages/internal/logger"
)

// ErrNothingToCommit is returned when the worktree has no changes.
var ErrNothingToCommit = errors.New("nothing to commit")

// Author is the identity recorded on the initial commit.
type Author struct {
	Name  string
	Email string
}

// Init initializes a repository in dir whose HEAD points at branch.
// An existing repository is opened instead and HEAD is moved to branch.
func Init(dir, branch string) (*git.Repository, error) {
	ref := plumbing.NewBranchReferenceName(branch)
	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: ref},
	})
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		repo, err = git.PlainOpen(dir)
		if err != nil {
			return nil, fmt.Errorf("open repository in %s: %w", dir, err)
		}
		// Same effect as `git branch -M <branch>` on an unborn HEAD.
		if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, ref)); err != nil {
			return nil, fmt.Errorf("point HEAD at %s: %w", branch, err)
		}
		return repo, nil
	}
	if err != nil {
		return nil, fmt.Errorf("init repository in %s: %w", dir, err)
	}
	logger.Debug("initialized repository", logger.Dir(dir), "branch", branch)
	return repo, nil
}

// CommitAll stages every non-ignored file in dir and commits it.
func CommitAll(dir, message string, author Author) (plumbing.Hash, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("open repository in %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("worktree: %w", err)
	}
	// AddOptions.All only honors Worktree.Excludes, so load .gitignore files into it.
	patterns, err := gitignore.ReadPatterns(wt.Filesystem, nil)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("read .gitignore: %w", err)
	}
	wt.Excludes = append(wt.Excludes, patterns...)

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("stage files: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("status: %w", err)
	}
	if status.IsClean() {
		return plumbing.ZeroHash, ErrNothingToCommit
	}

	sig := &object.Signature{Name: author.Name, Email: author.Email, When: time.Now()}
	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("commit: %w", err)
	}
	logger.Debug("created commit", logger.Dir(dir), "commit", hash.String())
	return hash, nil
}

// SetRemote creates remote name pointing at url, replacing any existing one.
func SetRemote(dir, name, url string) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("open repository in %s: %w", dir, err)
	}
	if err := repo.DeleteRemote(name); err != nil && !errors.Is(err, git.ErrRemoteNotFound) {
		return fmt.Errorf("remove remote %s: %w", name, err)
	}
	if _, err := repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}}); err != nil {
		return fmt.Errorf("add remote %s: %w", name, err)
	}
	return nil
}
