package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/HardDie/vitepages/internal/basepath"
	"github.com/HardDie/vitepages/internal/bootstrap"
	"github.com/HardDie/vitepages/internal/config"
	"github.com/HardDie/vitepages/internal/exec"
	"github.com/HardDie/vitepages/internal/logger"
	"github.com/HardDie/vitepages/internal/prompt"
)

// Globals is shared by every command.
type Globals struct {
	Config    string `short:"c" help:"YAML configuration file overlaying VITEPAGES_* variables." type:"path"`
	Verbose   bool   `short:"v" help:"Enable debug logging."`
	LogFormat string `help:"Log format: text or json."`

	ctx    context.Context
	cfg    config.Config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type CLI struct {
	Globals

	Create   CreateCmd   `cmd:"" default:"withargs" help:"Generate, configure, commit, push and deploy a new Vite project."`
	Patch    PatchCmd    `cmd:"" help:"Set the base path and deploy scripts of an existing project."`
	BasePath BasePathCmd `cmd:"" name:"base-path" help:"Print the base path derived from a repository URL."`
}

// AfterApply loads configuration and sets up logging once flags are parsed.
func (c *CLI) AfterApply() error {
	cfg, err := config.Get(c.Config)
	if err != nil {
		return err
	}
	level, format := cfg.Log.Level, cfg.Log.Format
	if c.Verbose {
		level = "debug"
	}
	if c.LogFormat != "" {
		format = c.LogFormat
	}
	logger.Setup(c.stderr, level, format)
	c.cfg = cfg
	return nil
}

func (g *Globals) prompter() prompt.Prompter {
	in, inOK := g.stdin.(*os.File)
	out, outOK := g.stdout.(*os.File)
	if inOK && outOK {
		return prompt.New(in, out)
	}
	return prompt.NewLinePrompter(g.stdin, g.stdout)
}

type CreateCmd struct {
	Name        string `short:"n" help:"Project name; also the generated directory."`
	Repo        string `short:"r" help:"GitHub repository URL the project is pushed to."`
	AuthorName  string `help:"Git author name."`
	AuthorEmail string `help:"Git author email."`
	Dir         string `short:"d" help:"Directory the project is created in." default:"." type:"path"`
	Template    string `short:"t" help:"create-vite template (react, vue-ts, ...)."`
	Yes         bool   `short:"y" help:"Do not prompt; fail if a required value is missing."`
	SkipDeploy  bool   `help:"Stop after pushing; do not run npm run deploy."`
}

func (c *CreateCmd) Run(g *Globals) error {
	a := bootstrap.New(g.cfg, exec.NewRealRunner(), g.prompter(), g.stdout)
	p, err := a.Resolve(bootstrap.Params{
		Name:        c.Name,
		RepoURL:     c.Repo,
		AuthorName:  c.AuthorName,
		AuthorEmail: c.AuthorEmail,
		Dir:         c.Dir,
		Template:    c.Template,
		Yes:         c.Yes,
		SkipDeploy:  c.SkipDeploy,
	})
	if err != nil {
		return err
	}
	_, err = a.Create(g.ctx, p)
	return err
}

type PatchCmd struct {
	Dir      string `short:"d" help:"Project directory." default:"." type:"path"`
	Repo     string `short:"r" xor:"base" help:"Repository URL to derive the base path and homepage from."`
	Base     string `short:"b" xor:"base" help:"Base path, e.g. /my-repo/."`
	Template string `short:"t" help:"create-vite template used when the config file is missing."`
}

func (c *PatchCmd) Run(g *Globals) error {
	base := c.Base
	if c.Repo != "" {
		var err error
		if base, err = basepath.FromRepoURL(c.Repo); err != nil {
			return err
		}
	}
	if base == "" {
		return fmt.Errorf("%w: one of --repo or --base is required", bootstrap.ErrInvalidParams)
	}
	a := bootstrap.New(g.cfg, exec.NewRealRunner(), g.prompter(), g.stdout)
	if err := a.PatchProject(g.ctx, c.Dir, base, basepath.PagesURL(c.Repo), c.Template); err != nil {
		return err
	}
	fmt.Fprintf(g.stdout, "base path set to %s\n", base)
	return nil
}

type BasePathCmd struct {
	URL string `arg:"" help:"Repository URL."`
}

func (c *BasePathCmd) Run(g *Globals) error {
	p, err := basepath.FromRepoURL(c.URL)
	if err != nil {
		return err
	}
	fmt.Fprintln(g.stdout, p)
	return nil
}
