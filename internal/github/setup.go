package github

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jayanthkoushik/shiny-pyseed/internal/config"
	"github.com/jayanthkoushik/shiny-pyseed/internal/shell"
	"github.com/jayanthkoushik/shiny-pyseed/internal/ui"
)

var (
	pyprojectRepoPattern = regexp.MustCompile(`# repository = .*`)
	mkdocsRepoPattern    = regexp.MustCompile(`# repo_url: .*`)
)

// Setup creates and configures a repository for an already
// materialized project. It is only run interactively: access tokens
// cannot safely be passed on the command line, and the API cannot
// create them, so a fully scripted setup is not possible anyway.
func Setup(ctx context.Context, cfg *config.Config, prompter ui.Prompter, runner shell.Runner, log *ui.ActionLog) error {
	token, err := prompter.InputSecret(
		"enter personal access token for github api " +
			"(with 'administration:write' and 'secrets:write' permissions)")
	if err != nil {
		return err
	}
	client := NewClient(token, log)

	projectPath := cfg.Str(config.KeyProject)
	projectName := projectStem(projectPath)

	useSSH, err := prompter.Confirm("use ssh for connecting to github (instead of https)", config.BoolDefault(true))
	if err != nil {
		return err
	}

	created, err := client.Call(ctx, "POST", "user/repos", map[string]any{
		"name":        projectName,
		"description": cfg.Str(config.KeyDescription),
		"homepage":    cfg.Str(config.KeyURL),
	})
	if err != nil {
		return err
	}
	owner, err := strField(created, "owner", "login")
	if err != nil {
		return err
	}
	repoURL, err := strField(created, "html_url")
	if err != nil {
		return err
	}
	origin := repoURL
	if useSSH {
		if origin, err = strField(created, "ssh_url"); err != nil {
			return err
		}
	}

	if err := patchFile(log, filepath.Join(projectPath, "pyproject.toml"),
		pyprojectRepoPattern, fmt.Sprintf("repository = %q", repoURL)); err != nil {
		return err
	}
	run := func(argv ...string) error {
		_, err := runner.Run(ctx, argv, shell.RunOptions{Dir: projectPath})
		return err
	}
	if err := run("poetry", "lock", "--no-update"); err != nil {
		return err
	}

	if err := patchFile(log, filepath.Join(projectPath, "mkdocs.yml"),
		mkdocsRepoPattern, fmt.Sprintf("repo_url: %q", repoURL)); err != nil {
		return err
	}

	for _, argv := range [][]string{
		{"git", "add", "pyproject.toml", "mkdocs.yml"},
		{"git", "commit", "--amend", "--no-edit"},
		{"git", "remote", "add", "origin", origin},
		{"git", "push", "-u", "origin", "master"},
	} {
		if err := run(argv...); err != nil {
			return err
		}
	}

	repoPrefix := fmt.Sprintf("repos/%s/%s", owner, projectName)
	if _, err := client.Call(ctx, "PUT", repoPrefix+"/branches/master/protection", map[string]any{
		"required_status_checks":        nil,
		"enforce_admins":                nil,
		"required_pull_request_reviews": nil,
		"restrictions":                  nil,
		"required_linear_history":       true,
	}); err != nil {
		return err
	}
	if _, err := client.Call(ctx, "PATCH",
		repoPrefix+"/branches/master/protection/required_pull_request_reviews",
		map[string]any{"required_approving_review_count": 0}); err != nil {
		return err
	}
	if _, err := client.Call(ctx, "POST", repoPrefix+"/tags/protection",
		map[string]any{"pattern": "v*"}); err != nil {
		return err
	}
	if _, err := client.Call(ctx, "PUT", repoPrefix+"/actions/permissions/workflow", map[string]any{
		"default_workflow_permissions":     "read",
		"can_approve_pull_request_reviews": true,
	}); err != nil {
		return err
	}

	releaseToken, err := prompter.InputSecret(fmt.Sprintf(
		"create a personal access token with 'contents:write' "+
			"and 'pull_requests:write' permissions for this project's repo "+
			"(https://github.com/settings/personal-access-tokens/new) "+
			"(%s/%s), and enter it here "+
			"(or leave empty to skip this step)", owner, projectName))
	if err != nil {
		return err
	}
	if releaseToken != "" {
		if err := client.PutActionsSecret(ctx, owner, projectName, "REPO_PAT", releaseToken); err != nil {
			return err
		}
	}

	pypiToken, err := prompter.InputSecret(
		"enter token for uploading releases to pypi " +
			"(or leave empty to skip this step)")
	if err != nil {
		return err
	}
	if pypiToken != "" {
		if err := client.PutActionsSecret(ctx, owner, projectName, "PYPI_TOKEN", pypiToken); err != nil {
			return err
		}
	}

	log.Printf("\nsuccessfully configured github for project")
	return nil
}

// patchFile replaces the first match of pattern in the file at path.
func patchFile(log *ui.ActionLog, path string, pattern *regexp.Regexp, replacement string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	patched := replaceFirst(pattern, string(data), replacement)
	log.Action("UPDATE", filepath.Base(path))
	return os.WriteFile(path, []byte(patched), 0o644)
}

func replaceFirst(pattern *regexp.Regexp, text, replacement string) string {
	done := false
	return pattern.ReplaceAllStringFunc(text, func(m string) string {
		if done {
			return m
		}
		done = true
		return replacement
	})
}

// projectStem returns the final path segment without extension. A
// dot-leading segment with no other dot has no extension.
func projectStem(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
