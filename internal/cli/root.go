// Package cli wires the configuration engine to the materializer and
// the external collaborators, and owns the exit-code policy.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jayanthkoushik/shiny-pyseed/internal/config"
	"github.com/jayanthkoushik/shiny-pyseed/internal/github"
	"github.com/jayanthkoushik/shiny-pyseed/internal/project"
	"github.com/jayanthkoushik/shiny-pyseed/internal/shell"
	"github.com/jayanthkoushik/shiny-pyseed/internal/template"
	"github.com/jayanthkoushik/shiny-pyseed/internal/ui"
	"github.com/jayanthkoushik/shiny-pyseed/pkg/version"
)

// App holds the run's collaborators. Fields are replaceable in tests;
// zero values get production defaults from NewApp.
type App struct {
	Stderr      io.Writer
	Prompter    ui.Prompter
	NewRunner   func(log *ui.ActionLog) shell.Runner
	Setup       func(ctx context.Context, cfg *config.Config, runner shell.Runner, log *ui.ActionLog) error
	SetupGitHub func(ctx context.Context, cfg *config.Config, prompter ui.Prompter, runner shell.Runner, log *ui.ActionLog) error
}

// NewApp creates an App with the production collaborators.
func NewApp() *App {
	return &App{
		Stderr:      os.Stderr,
		NewRunner:   func(log *ui.ActionLog) shell.Runner { return shell.NewExecRunner(log) },
		Setup:       project.Setup,
		SetupGitHub: github.Setup,
	}
}

// Run executes one seeding run with the given raw arguments. A non-nil
// return is always an *ExitError.
func (a *App) Run(ctx context.Context, args []string) error {
	mode := config.DetectMode(args)

	var authorsDefault *string
	if gitUser, ok := shell.GitUser(ctx); ok {
		authorsDefault = &gitUser
	}
	reg := config.NewRegistry(authorsDefault)

	var silent bool
	cmd := &cobra.Command{
		Use:           "pyseed",
		Short:         "Bootstrap python projects managed by poetry",
		Version:       version.GetVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().BoolP("interactive", "i", false, "configure project creation interactively")
	cmd.Flags().BoolVarP(&silent, "silent", "s", false, "suppress output")
	reg.RegisterAll(cmd, mode == config.ModeInteractive)

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return a.run(cmd.Context(), cmd, reg, mode, silent)
	}
	cmd.SetArgs(args)
	cmd.SetOut(a.Stderr)
	cmd.SetErr(a.Stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return err
		}
		// Parse or usage error from the flag layer.
		fmt.Fprintf(a.Stderr, "error: %v\n", err)
		fmt.Fprint(a.Stderr, cmd.UsageString())
		return &ExitError{Code: 1, Err: err}
	}
	return nil
}

func (a *App) run(ctx context.Context, cmd *cobra.Command, reg *config.Registry, mode config.Mode, silent bool) error {
	log := ui.NewActionLog(a.Stderr, !silent)
	runner := a.NewRunner(log)

	prompter := a.Prompter
	if prompter == nil {
		prompter = ui.NewFormPrompter()
	}
	resolver := config.NewResolver(reg, prompter)

	var cfg *config.Config
	if mode == config.ModeInteractive {
		resolved, err := resolver.ResolveInteractive(resolver.Seed(cmd.Flags()))
		if err != nil {
			// Interrupt during configuration: terminate with no
			// cleanup, nothing has been created yet.
			if !errors.Is(err, ui.ErrInterrupted) {
				fmt.Fprintf(a.Stderr, "error: %v\n", err)
			}
			return &ExitError{Code: 1, Err: err}
		}
		cfg = resolved
	} else {
		cfg = resolver.ResolveFlags(cmd.Flags())
	}

	created := false
	err := func() error {
		if err := template.NewMaterializer(log).Materialize(cfg); err != nil {
			return err
		}
		if err := a.Setup(ctx, cfg, runner, log); err != nil {
			return err
		}
		created = true

		if mode == config.ModeNonInteractive || cfg.Barebones() || cfg.Bool(config.KeyNoGitHub) {
			return nil
		}
		doSetup, err := prompter.Confirm(
			"create and configure github repository for project", config.BoolDefault(true))
		if err != nil {
			return err
		}
		if !doSetup {
			return nil
		}
		return a.SetupGitHub(ctx, cfg, prompter, runner, log)
	}()
	if err != nil {
		// Prompt interrupts terminate with code 1 unconditionally,
		// bypassing error surfacing and cleanup.
		if errors.Is(err, ui.ErrInterrupted) {
			return &ExitError{Code: 1, Err: err}
		}
		fmt.Fprintln(a.Stderr, err)
		if created {
			return &ExitError{Code: 2, Err: err}
		}
		if mode == config.ModeInteractive {
			a.offerCleanup(cfg, prompter)
		}
		return &ExitError{Code: 1, Err: err}
	}
	return nil
}

// offerCleanup asks whether to remove the partially created project
// tree. Cleanup failures are reported but do not change the exit code.
func (a *App) offerCleanup(cfg *config.Config, prompter ui.Prompter) {
	projectPath := cfg.Str(config.KeyProject)
	doClean, err := prompter.Confirm(
		fmt.Sprintf("clean project folder '%s'", projectPath), config.BoolDefault(true))
	if err != nil || !doClean {
		return
	}
	if err := os.RemoveAll(projectPath); err != nil {
		fmt.Fprintln(a.Stderr, err)
	}
}
