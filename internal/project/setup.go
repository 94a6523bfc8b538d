// Package project turns a materialized project tree into a working
// repository: git init, dependency installation, hook setup, and the
// initial commit.
package project

import (
	"context"
	"strings"

	"github.com/jayanthkoushik/shiny-pyseed/internal/config"
	"github.com/jayanthkoushik/shiny-pyseed/internal/shell"
	"github.com/jayanthkoushik/shiny-pyseed/internal/ui"
)

// splitDeps parses a ";" separated dependency list, dropping empty
// entries.
func splitDeps(raw string) []string {
	var deps []string
	for _, part := range strings.Split(raw, ";") {
		if dep := strings.TrimSpace(part); dep != "" {
			deps = append(deps, dep)
		}
	}
	return deps
}

// Setup initializes the project as a git repository, installs
// dependencies with poetry, sets up pre-commit hooks, and creates the
// initial commit. All commands run inside the project directory.
func Setup(ctx context.Context, cfg *config.Config, runner shell.Runner, log *ui.ActionLog) error {
	projectPath := cfg.Str(config.KeyProject)
	barebones := cfg.Barebones()

	run := func(opts shell.RunOptions, argv ...string) error {
		opts.Dir = projectPath
		_, err := runner.Run(ctx, argv, opts)
		return err
	}

	if err := run(shell.RunOptions{}, "git", "init", "-b", "master"); err != nil {
		return err
	}

	if err := run(shell.RunOptions{}, "poetry", "install", "--all-extras"); err != nil {
		return err
	}

	devDeps := []string{"pre-commit", "ruff", "mypy"}
	if !barebones {
		devDeps = append(devDeps,
			"sphinx", "git+https://github.com/liran-funaro/sphinx-markdown-builder")
	}
	devDeps = append(devDeps, splitDeps(cfg.Str(config.KeyAddDevDeps))...)
	addArgv := append([]string{"poetry", "add", "--group", "dev"}, devDeps...)
	if err := run(shell.RunOptions{}, addArgv...); err != nil {
		return err
	}

	if !barebones {
		siteDeps := []string{
			"mkdocstrings[python-legacy]",
			"mkdocs-material",
			"mkdocs-gen-files",
			"mkdocs-literate-nav",
			"git+https://github.com/jimporter/mike",
		}
		argv := append([]string{"poetry", "add", "--group", "site"}, siteDeps...)
		if err := run(shell.RunOptions{}, argv...); err != nil {
			return err
		}
	}

	if deps := splitDeps(cfg.Str(config.KeyAddDeps)); len(deps) > 0 {
		argv := append([]string{"poetry", "add"}, deps...)
		if err := run(shell.RunOptions{}, argv...); err != nil {
			return err
		}
	}

	if err := run(shell.RunOptions{}, "poetry", "run", "pre-commit", "install"); err != nil {
		return err
	}
	if err := run(shell.RunOptions{}, "poetry", "run", "pre-commit", "autoupdate"); err != nil {
		return err
	}

	if !barebones {
		// Prettier reformats the generated manifests; a non-zero exit
		// just means it made changes.
		if err := run(shell.RunOptions{NonFatal: true},
			"poetry", "run", "pre-commit", "run", "prettier",
			"--files", "pyproject.toml", "mkdocs.yml", "LICENSE.md", "README.md"); err != nil {
			return err
		}
		if err := run(shell.RunOptions{}, "poetry", "run", "python", "scripts/make_docs.py"); err != nil {
			return err
		}
		if err := run(shell.RunOptions{}, "poetry", "run", "mkdocs", "build"); err != nil {
			return err
		}
	}

	if err := run(shell.RunOptions{}, "git", "add", "."); err != nil {
		return err
	}
	commitMsg := "chore: initial commit"
	if barebones {
		commitMsg = "Initial commit"
	}
	if err := run(shell.RunOptions{Env: map[string]string{"SKIP": "cspell"}},
		"git", "commit", "-m", commitMsg); err != nil {
		return err
	}

	log.Printf("\nsuccessfully initialized project at %s", projectPath)
	return nil
}
