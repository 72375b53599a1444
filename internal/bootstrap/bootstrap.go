package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/HardDie/vitepages/internal/basepath"
	"github.com/HardDie/vitepages/internal/config"
	"github.com/HardDie/vitepages/internal/exec"
	"github.com/HardDie/vitepages/internal/logger"
	"github.com/HardDie/vitepages/internal/pipeline"
	"github.com/HardDie/vitepages/internal/prompt"
)

var (
	// ErrInvalidParams signals about app misusage or missing required input.
	ErrInvalidParams = errors.New("invalid params")
	// ErrAborted is returned when the user declines the confirmation.
	ErrAborted = errors.New("aborted by user")
)

// Params are the per-run inputs. Empty fields are prompted for.
type Params struct {
	Name        string
	RepoURL     string
	AuthorName  string
	AuthorEmail string
	// Dir is the working directory the project directory is created in.
	Dir      string
	Template string
	// Yes skips prompting; every required value must then be set.
	Yes        bool
	SkipDeploy bool
}

// ProjectDir is the directory the generator creates.
func (p Params) ProjectDir() string {
	return filepath.Join(p.Dir, p.Name)
}

// Applicator provisions Vite projects deployed to GitHub Pages.
type Applicator struct {
	cfg      config.Config
	runner   exec.CommandRunner
	prompter prompt.Prompter
	out      io.Writer
}

// New creates Applicator instance.
func New(cfg config.Config, runner exec.CommandRunner, prompter prompt.Prompter, out io.Writer) *Applicator {
	if out == nil {
		out = io.Discard
	}
	return &Applicator{cfg: cfg, runner: runner, prompter: prompter, out: out}
}

// Resolve fills missing params from config and prompts, then asks for
// confirmation.
func (a *Applicator) Resolve(p Params) (Params, error) {
	pr := a.prompter
	if p.Yes {
		pr = prompt.Static{}
	}
	if p.Template == "" {
		p.Template = a.cfg.Generator.Template
	}
	if p.AuthorName == "" {
		p.AuthorName = a.cfg.Git.AuthorName
	}
	if p.AuthorEmail == "" {
		p.AuthorEmail = a.cfg.Git.AuthorEmail
	}

	var err error
	if p.Name, err = pr.Input("Project name", p.Name, true); err != nil {
		return p, inputErr(err)
	}
	if err := validateName(p.Name); err != nil {
		return p, err
	}
	if p.RepoURL, err = pr.Input("Repository URL", p.RepoURL, true); err != nil {
		return p, inputErr(err)
	}
	if _, err := basepath.FromRepoURL(p.RepoURL); err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if p.AuthorName, err = pr.Input("Git author name", p.AuthorName, true); err != nil {
		return p, inputErr(err)
	}
	if p.AuthorEmail, err = pr.Input("Git author email", p.AuthorEmail, true); err != nil {
		return p, inputErr(err)
	}

	if p.Dir == "" {
		p.Dir = "."
	}
	if p.Dir, err = filepath.Abs(p.Dir); err != nil {
		return p, fmt.Errorf("bad path at dir arg: %w", err)
	}

	label := fmt.Sprintf("Create %s in %s and publish it from %s?", p.Name, p.Dir, p.RepoURL)
	ok, err := pr.Confirm(label, true)
	if errors.Is(err, prompt.ErrNoInput) {
		return p, fmt.Errorf("%w: no confirmation given", ErrAborted)
	}
	if err != nil {
		return p, inputErr(err)
	}
	if !ok {
		return p, ErrAborted
	}
	return p, nil
}

// validateName accepts names usable as a directory, a URL segment and an
// npm create argument: no leading dash or dot.
func validateName(name string) error {
	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: project name %q must not start with - or .", ErrInvalidParams, name)
	}
	if err := basepath.Validate("/" + name + "/"); err != nil {
		return fmt.Errorf("%w: project name %q", ErrInvalidParams, name)
	}
	return nil
}

func inputErr(err error) error {
	switch {
	case errors.Is(err, prompt.ErrInterrupted):
		return ErrAborted
	case errors.Is(err, prompt.ErrRequired), errors.Is(err, prompt.ErrNoInput):
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return err
}

// Create runs the whole provisioning pipeline for already resolved params.
func (a *Applicator) Create(ctx context.Context, p Params) (pipeline.Report, error) {
	if p.Name == "" || p.RepoURL == "" || p.Dir == "" {
		return pipeline.Report{}, ErrInvalidParams
	}
	if err := validateName(p.Name); err != nil {
		return pipeline.Report{}, err
	}
	base, err := basepath.FromRepoURL(p.RepoURL)
	if err != nil {
		return pipeline.Report{}, err
	}
	logger.Info("provisioning project", "name", p.Name, logger.Dir(p.ProjectDir()), logger.Repository(p.RepoURL), logger.BasePath(base))

	pl := pipeline.New(a.steps(p, base)...)
	pl.SetObserver(newProgress(a.out))
	rep, err := pl.Run(ctx)
	if err != nil {
		return rep, err
	}

	if url := basepath.PagesURL(p.RepoURL); url != "" && !a.skipDeploy(p) {
		fmt.Fprintf(a.out, "\nPublished to %s\n", url)
	}
	return rep, nil
}

func (a *Applicator) skipDeploy(p Params) bool {
	return p.SkipDeploy || a.cfg.Deploy.SkipDeploy
}
