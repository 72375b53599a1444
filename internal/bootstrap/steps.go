package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/HardDie/vitepages/internal/basepath"
	"github.com/HardDie/vitepages/internal/exec"
	"github.com/HardDie/vitepages/internal/gitops"
	"github.com/HardDie/vitepages/internal/logger"
	"github.com/HardDie/vitepages/internal/patch"
	"github.com/HardDie/vitepages/internal/pipeline"
	"github.com/HardDie/vitepages/internal/preflight"
)

// Step names in execution order.
const (
	StepPreflight        = "preflight"
	StepGenerate         = "generate"
	StepPatchViteConfig  = "patch-vite-config"
	StepPatchPackageJSON = "patch-package-json"
	StepInstall          = "install"
	StepInstallPages     = "install-pages"
	StepCommit           = "commit"
	StepRemote           = "remote"
	StepPush             = "push"
	StepDeploy           = "deploy"
)

func (a *Applicator) steps(p Params, base string) []pipeline.Step {
	dir := p.ProjectDir()
	cfg := a.cfg
	return []pipeline.Step{
		{Name: StepPreflight, Run: func(ctx context.Context) error {
			return a.preflight(ctx, dir)
		}},
		{Name: StepGenerate, Run: func(ctx context.Context) error {
			args := []string{"create", cfg.Generator.Package, p.Name, "--", "--template", p.Template}
			return a.npm(ctx, p.Dir, args...)
		}},
		{Name: StepPatchViteConfig, Run: func(ctx context.Context) error {
			return a.patchViteConfig(ctx, dir, base, p.Template)
		}},
		{Name: StepPatchPackageJSON, Run: func(ctx context.Context) error {
			return a.patchPackageJSON(ctx, dir, basepath.PagesURL(p.RepoURL))
		}},
		{Name: StepInstall, Run: func(ctx context.Context) error {
			return a.npm(ctx, dir, "install")
		}},
		{Name: StepInstallPages, Run: func(ctx context.Context) error {
			return a.npm(ctx, dir, "install", "--save-dev", cfg.Deploy.PagesDep)
		}},
		{Name: StepCommit, Run: func(context.Context) error {
			if _, err := gitops.Init(dir, cfg.Git.Branch); err != nil {
				return err
			}
			author := gitops.Author{Name: p.AuthorName, Email: p.AuthorEmail}
			_, err := gitops.CommitAll(dir, cfg.Git.CommitMessage, author)
			return err
		}},
		{Name: StepRemote, Run: func(context.Context) error {
			return gitops.SetRemote(dir, cfg.Git.Remote, p.RepoURL)
		}},
		{Name: StepPush, Run: func(ctx context.Context) error {
			return gitops.Push(ctx, dir, gitops.PushOptions{
				Remote: cfg.Git.Remote,
				Branch: cfg.Git.Branch,
				URL:    p.RepoURL,
				Token:  cfg.Git.Token,
				Mode:   cfg.Git.PushMode,
				Runner: a.runner,
			})
		}},
		{Name: StepDeploy, Skip: a.skipDeploy(p), Run: func(ctx context.Context) error {
			return a.npm(ctx, dir, "run", cfg.Deploy.Script)
		}},
	}
}

func (a *Applicator) preflight(ctx context.Context, dir string) error {
	if !a.cfg.Preflight.Skip {
		c := &preflight.Checker{Runner: a.runner, MinNode: a.cfg.Preflight.MinNode}
		if err := c.Tools(ctx); err != nil {
			return err
		}
	}
	_, err := preflight.TargetDir(dir)
	return err
}

func (a *Applicator) npm(ctx context.Context, dir string, args ...string) error {
	logger.Debug("running npm", logger.Command("npm "+strings.Join(args, " ")), logger.Dir(dir))
	_, err := exec.Run(ctx, a.runner, "npm", args, exec.RunOpts{
		Dir:    dir,
		Env:    map[string]string{"npm_config_yes": "true"},
		Stdout: a.out,
		Stderr: a.out,
	})
	return err
}

// PatchProject runs only the configuration patch steps against an
// existing project directory.
func (a *Applicator) PatchProject(ctx context.Context, dir, base, homepage, template string) error {
	if err := basepath.Validate(base); err != nil {
		return err
	}
	if template == "" {
		template = a.cfg.Generator.Template
	}
	if err := a.patchViteConfig(ctx, dir, base, template); err != nil {
		return err
	}
	return a.patchPackageJSON(ctx, dir, homepage)
}

func (a *Applicator) patchViteConfig(ctx context.Context, dir, base, template string) error {
	path := viteConfigPath(dir, a.cfg.Patch.ViteConfig, template)
	res, err := patch.PatchFile(ctx, path, patch.Options{
		BasePath: base,
		Template: patch.TemplateFor(template),
	}, a.cfg.Patch.LockTimeout)
	if err != nil {
		return err
	}
	if err := res.Err(); err != nil {
		switch {
		case errors.Is(err, patch.ErrAnchorNotFound):
			logger.Warn("no config object found, base path not set", logger.Path(path), logger.BasePath(base))
		case errors.Is(err, patch.ErrBaseExpression):
			logger.Warn("base is computed in the config, left as is", logger.Path(path), logger.BasePath(base))
		default:
			return err
		}
		fmt.Fprintf(a.out, "warning: set base: '%s' in %s by hand\n", base, path)
		return nil
	}
	logger.Info("patched vite config", logger.Path(path), logger.Outcome(res.Outcome.String()), logger.BasePath(base))
	return nil
}

func (a *Applicator) patchPackageJSON(ctx context.Context, dir, homepage string) error {
	path := filepath.Join(dir, a.cfg.Patch.PackageJSON)
	changed, err := patch.PatchPackageJSONFile(ctx, path, patch.PackageOptions{
		Homepage:     homepage,
		DeployDir:    a.cfg.Deploy.Dir,
		PagesCommand: a.cfg.Deploy.PagesDep,
	}, a.cfg.Patch.LockTimeout)
	if err != nil {
		return err
	}
	logger.Info("patched package.json", logger.Path(path), "changed", changed)
	return nil
}

// viteConfigPath picks the config file in dir: the configured name if it
// exists, else its .js/.ts sibling if that exists, else the configured name
// adjusted to the template's language.
func viteConfigPath(dir, name, template string) string {
	configured := filepath.Join(dir, name)
	if exists(configured) {
		return configured
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	var sibling string
	switch ext {
	case ".js":
		sibling = filepath.Join(dir, stem+".ts")
	case ".ts":
		sibling = filepath.Join(dir, stem+".js")
	default:
		return configured
	}
	if exists(sibling) {
		return sibling
	}
	if strings.HasSuffix(template, "-ts") {
		return filepath.Join(dir, stem+".ts")
	}
	return configured
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
