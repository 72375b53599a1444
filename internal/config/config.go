package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Generator Generator `yaml:"generator"`
	Patch     Patch     `yaml:"patch"`
	Deploy    Deploy    `yaml:"deploy"`
	Git       Git       `yaml:"git"`
	Preflight Preflight `yaml:"preflight"`
	Log       Log       `yaml:"log"`
}

// Get loads .env (if present), reads VITEPAGES_* variables and overlays
// the YAML file at path when path is not empty.
func Get(path string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to load env vars: %w", err)
		}
	}

	cfg := fromEnv()
	if path != "" {
		if err := overlayFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func fromEnv() Config {
	return Config{
		Generator: generatorConfig(),
		Patch:     patchConfig(),
		Deploy:    deployConfig(),
		Git:       gitConfig(),
		Preflight: preflightConfig(),
		Log:       logConfig(),
	}
}

func overlayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the pipeline cannot work with.
func (c Config) Validate() error {
	var errs []error
	if c.Generator.Package == "" {
		errs = append(errs, errors.New("generator.package must not be empty"))
	}
	if c.Patch.ViteConfig == "" {
		errs = append(errs, errors.New("patch.vite_config must not be empty"))
	}
	if c.Git.Branch == "" {
		errs = append(errs, errors.New("git.branch must not be empty"))
	}
	if c.Git.Remote == "" {
		errs = append(errs, errors.New("git.remote must not be empty"))
	}
	switch c.Git.PushMode {
	case PushAuto, PushGoGit, PushCLI:
	default:
		errs = append(errs, fmt.Errorf("git.push_mode %q is not one of auto, go-git, cli", c.Git.PushMode))
	}
	if c.Patch.LockTimeout <= 0 {
		errs = append(errs, errors.New("patch.lock_timeout must be positive"))
	}
	return errors.Join(errs...)
}

type Generator struct {
	// Package is passed to `npm create`, e.g. vite@latest.
	Package  string `yaml:"package"`
	Template string `yaml:"template"`
}

func generatorConfig() Generator {
	return Generator{
		Package:  getEnvDefault("VITEPAGES_GENERATOR_PACKAGE", "vite@latest"),
		Template: getEnvDefault("VITEPAGES_GENERATOR_TEMPLATE", "react"),
	}
}

type Patch struct {
	ViteConfig  string        `yaml:"vite_config"`
	PackageJSON string        `yaml:"package_json"`
	LockTimeout time.Duration `yaml:"lock_timeout"`
}

func patchConfig() Patch {
	return Patch{
		ViteConfig:  getEnvDefault("VITEPAGES_VITE_CONFIG", "vite.config.js"),
		PackageJSON: getEnvDefault("VITEPAGES_PACKAGE_JSON", "package.json"),
		LockTimeout: getEnvAsDuration("VITEPAGES_LOCK_TIMEOUT", 5*time.Second),
	}
}

type Deploy struct {
	// Dir is the build output directory published by gh-pages.
	Dir        string `yaml:"dir"`
	Script     string `yaml:"script"`
	PagesDep   string `yaml:"pages_dependency"`
	SkipDeploy bool   `yaml:"skip"`
}

func deployConfig() Deploy {
	return Deploy{
		Dir:        getEnvDefault("VITEPAGES_DEPLOY_DIR", "dist"),
		Script:     getEnvDefault("VITEPAGES_DEPLOY_SCRIPT", "deploy"),
		PagesDep:   getEnvDefault("VITEPAGES_PAGES_DEPENDENCY", "gh-pages"),
		SkipDeploy: getEnvAsBool("VITEPAGES_SKIP_DEPLOY", false),
	}
}

const (
	PushAuto  = "auto"
	PushGoGit = "go-git"
	PushCLI   = "cli"
)

type Git struct {
	Branch        string `yaml:"branch"`
	Remote        string `yaml:"remote"`
	CommitMessage string `yaml:"commit_message"`
	PushMode      string `yaml:"push_mode"`
	// Token is used as HTTP basic auth password for go-git pushes.
	Token       string `yaml:"-"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

func gitConfig() Git {
	return Git{
		Branch:        getEnvDefault("VITEPAGES_GIT_BRANCH", "main"),
		Remote:        getEnvDefault("VITEPAGES_GIT_REMOTE", "origin"),
		CommitMessage: getEnvDefault("VITEPAGES_COMMIT_MESSAGE", "Initial commit"),
		PushMode:      getEnvDefault("VITEPAGES_PUSH_MODE", PushAuto),
		Token:         getEnvDefault("VITEPAGES_GIT_TOKEN", os.Getenv("GITHUB_TOKEN")),
		AuthorName:    os.Getenv("VITEPAGES_AUTHOR_NAME"),
		AuthorEmail:   os.Getenv("VITEPAGES_AUTHOR_EMAIL"),
	}
}

type Preflight struct {
	// MinNode is the lowest accepted `node --version`, e.g. v18.0.0.
	MinNode string `yaml:"min_node"`
	Skip    bool   `yaml:"skip"`
}

func preflightConfig() Preflight {
	p := Preflight{
		MinNode: getEnvDefault("VITEPAGES_MIN_NODE", "v18.0.0"),
		Skip:    getEnvAsBool("VITEPAGES_SKIP_PREFLIGHT", false),
	}
	if p.MinNode != "" && p.MinNode[0] != 'v' {
		p.MinNode = "v" + p.MinNode
	}
	return p
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func logConfig() Log {
	return Log{
		Level:  getEnvDefault("VITEPAGES_LOG_LEVEL", "info"),
		Format: getEnvDefault("VITEPAGES_LOG_FORMAT", "text"),
	}
}
