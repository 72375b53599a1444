// Package preflight verifies the machine and target directory before
// anything is generated.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/HardDie/vitepages/internal/exec"
	"github.com/HardDie/vitepages/internal/logger"
)

var (
	ErrToolMissing    = errors.New("required tool missing")
	ErrNodeTooOld     = errors.New("node version too old")
	ErrTargetNotEmpty = errors.New("target directory exists and is non-empty")
)

// Checker runs the tool checks through Runner.
type Checker struct {
	Runner exec.CommandRunner
	// MinNode is a semver such as v18.0.0; empty disables the version check.
	MinNode string
}

// Tools checks that node and npm run and that node is recent enough.
func (c *Checker) Tools(ctx context.Context) error {
	nodeVersion, err := c.version(ctx, "node")
	if err != nil {
		return err
	}
	npmVersion, err := c.version(ctx, "npm")
	if err != nil {
		return err
	}
	logger.Debug("found tools", "node", nodeVersion, "npm", npmVersion)

	if c.MinNode == "" {
		return nil
	}
	if !semver.IsValid(c.MinNode) {
		return fmt.Errorf("invalid minimum node version %q", c.MinNode)
	}
	if !semver.IsValid(nodeVersion) {
		return fmt.Errorf("unrecognized node version %q", nodeVersion)
	}
	if semver.Compare(nodeVersion, c.MinNode) < 0 {
		return fmt.Errorf("%w: have %s, need %s or newer", ErrNodeTooOld, nodeVersion, c.MinNode)
	}
	return nil
}

// version returns `<tool> --version` normalized to a v-prefixed semver.
func (c *Checker) version(ctx context.Context, tool string) (string, error) {
	res, err := c.Runner.Run(ctx, tool, []string{"--version"}, exec.RunOpts{})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrToolMissing, tool, err)
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("%w: %s --version exited with code %d", ErrToolMissing, tool, res.ExitCode)
	}
	return normalizeVersion(res.Stdout), nil
}

func normalizeVersion(out string) string {
	v := strings.TrimSpace(out)
	if i := strings.IndexAny(v, " \n"); i >= 0 {
		v = v[:i]
	}
	if v != "" && v[0] != 'v' {
		v = "v" + v
	}
	return v
}

// TargetDir checks that dir does not exist or is an empty directory.
// It reports whether the directory still has to be created.
func TargetDir(dir string) (needMkdir bool, err error) {
	de, err := os.ReadDir(dir)
	if err == nil && len(de) > 0 {
		return false, fmt.Errorf("%w: %s", ErrTargetNotEmpty, dir)
	}
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("inspect %s: %w", dir, err)
	}
	return err != nil, nil
}
