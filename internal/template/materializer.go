package template

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jayanthkoushik/shiny-pyseed/internal/config"
	"github.com/jayanthkoushik/shiny-pyseed/internal/ui"
)

// hookUpdateSchedule is the cron stanza added to the hook-update
// workflow when monthly updates are enabled.
const hookUpdateSchedule = "  schedule:\n" + `    - cron: "0 0 1 * *"`

// fileCopy maps one destination path (relative to the project root) to
// a static template body.
type fileCopy struct {
	dest string
	src  string
}

// Materializer writes a resolved configuration out as a project tree:
// rendered manifests, static config files, helper scripts, package
// markers, symbolic links, and executable permissions. It must be
// called with a fully resolved configuration; every file it writes is
// a fresh create, and a pre-existing destination is a fatal error.
type Materializer struct {
	fsys     fs.FS
	renderer Renderer
	log      *ui.ActionLog
}

// NewMaterializer creates a Materializer backed by the embedded
// template bodies.
func NewMaterializer(log *ui.ActionLog) *Materializer {
	fsys := Templates()
	return &Materializer{fsys: fsys, renderer: NewRenderer(fsys), log: log}
}

// Materialize creates the project tree for cfg. Filesystem errors are
// fatal and propagate unchanged; cleanup of a partial tree is the
// caller's responsibility.
func (m *Materializer) Materialize(cfg *config.Config) error {
	entries, names := ParseAuthors(cfg.Str(config.KeyAuthors))
	if entries == nil {
		entries = []string{}
	}
	authorLine := strings.Join(names, ", ")

	projectPath := cfg.Str(config.KeyProject)
	projectName := projectStem(projectPath)
	mainPkg := cfg.Str(config.KeyMainPkg)
	minPy := cfg.Str(config.KeyMinPyVersion)
	barebones := cfg.Barebones()

	ctx := &RenderContext{
		ProjectName:  projectName,
		Description:  cfg.Str(config.KeyDescription),
		Package:      mainPkg,
		AuthorsJSON:  mustJSON(entries),
		AuthorLine:   authorLine,
		MinPyVersion: minPy,
		MypyTarget:   "py3" + strings.Split(minPy, ".")[1],
	}
	if cfg.Bool(config.KeyMITLicense) {
		ctx.License = "MIT"
	}

	if err := m.createRoot(projectPath); err != nil {
		return err
	}

	pyprojectTmpl := "pyproject.toml.tmpl"
	if barebones {
		pyprojectTmpl = "pyproject_simple.toml.tmpl"
	}
	if err := m.render(projectPath, "pyproject.toml", pyprojectTmpl, ctx); err != nil {
		return err
	}

	if !barebones {
		ctx.SiteURL = cfg.Str(config.KeyURL)
		ctx.SiteDescription = fmt.Sprintf("Documentation for '%s'.", projectName)
		ctx.Copyright = "Copyright (c) " + authorLine
		if err := m.render(projectPath, "mkdocs.yml", "mkdocs.yml.tmpl", ctx); err != nil {
			return err
		}
	}

	if cfg.Bool(config.KeyMITLicense) {
		if err := m.render(projectPath, "LICENSE.md", "mit_license.md.tmpl", ctx); err != nil {
			return err
		}
	} else if err := m.write(projectPath, "LICENSE.md", nil); err != nil {
		return err
	}

	if barebones {
		return m.materializeBarebones(projectPath, mainPkg, ctx)
	}
	return m.materializeFull(cfg, projectPath, mainPkg, ctx)
}

// materializeBarebones writes the reduced file set: no docs site, no
// CI, no changelog, no symlinks, and a flat package directory.
func (m *Materializer) materializeBarebones(projectPath, mainPkg string, ctx *RenderContext) error {
	if err := m.render(projectPath, "README.md", "readme.md.tmpl", ctx); err != nil {
		return err
	}
	for _, f := range []fileCopy{
		{".cspell.json", "cspell.json"},
		{".editorconfig", "editorconfig"},
		{".gitignore", "gitignore"},
		{".pre-commit-config.yaml", "pre_commit_config_simple.yaml"},
	} {
		if err := m.copy(projectPath, f.dest, f.src); err != nil {
			return err
		}
	}

	if err := m.mkdir(projectPath, mainPkg); err != nil {
		return err
	}
	if err := m.touch(projectPath, filepath.Join(mainPkg, "__init__.py")); err != nil {
		return err
	}
	return m.touch(projectPath, "project-words.txt")
}

// materializeFull writes the complete project shape.
func (m *Materializer) materializeFull(cfg *config.Config, projectPath, mainPkg string, ctx *RenderContext) error {
	noGitHub := cfg.Bool(config.KeyNoGitHub)

	if !noGitHub {
		versions, err := PythonVersionRange(
			cfg.Str(config.KeyMinPyVersion), cfg.Str(config.KeyMaxPyVersion))
		if err != nil {
			return err
		}
		ctx.PythonVersions = versions
		if cfg.Bool(config.KeyHookCron) {
			ctx.Schedule = hookUpdateSchedule
		}

		workflowsDir := filepath.Join(".github", "workflows")
		if err := m.mkdir(projectPath, workflowsDir); err != nil {
			return err
		}
		for _, f := range []fileCopy{
			{"check-pr.yml", "workflows/check_pr.yml"},
			{"release-new-version.yml", "workflows/release_new_version.yml"},
			{"create-github-release.yml", "workflows/create_github_release.yml"},
			{"publish-to-pypi.yml", "workflows/publish_to_pypi.yml"},
			{"deploy-project-site.yml", "workflows/deploy_project_site.yml"},
		} {
			if err := m.copy(projectPath, filepath.Join(workflowsDir, f.dest), f.src); err != nil {
				return err
			}
		}
		if err := m.render(projectPath, filepath.Join(workflowsDir, "run-tests.yml"),
			"workflows/run_tests.yml.tmpl", ctx); err != nil {
			return err
		}
		if err := m.render(projectPath, filepath.Join(workflowsDir, "update-pre-commit-hooks.yml"),
			"workflows/update_pre_commit_hooks.yml.tmpl", ctx); err != nil {
			return err
		}
	}

	pkgDir := filepath.Join("src", mainPkg)
	for _, dir := range []string{
		"scripts", pkgDir, "tests",
		filepath.Join("www", "src"),
		filepath.Join("www", "theme", "overrides"),
	} {
		if err := m.mkdir(projectPath, dir); err != nil {
			return err
		}
	}

	scriptFiles := []fileCopy{
		{"gen_site_usage_pages.py", "scripts/gen_site_usage_pages.py"},
		{"make_docs.py", "scripts/make_docs.py"},
	}
	if noGitHub {
		// With CI disabled the release script must be self-contained.
		scriptFiles = append(scriptFiles, fileCopy{"release_new_version.py", "scripts/release_new_version.py"})
	} else {
		scriptFiles = append(scriptFiles,
			fileCopy{"commit_and_tag_version.py", "scripts/commit_and_tag_version.py"},
			fileCopy{"verify_pr_commits.py", "scripts/verify_pr_commits.py"})
	}

	if err := m.render(projectPath, "README.md", "readme.md.tmpl", ctx); err != nil {
		return err
	}
	copies := []fileCopy{
		{".commitlintrc.yaml", "commitlintrc.yaml"},
		{".cspell.json", "cspell.json"},
		{".editorconfig", "editorconfig"},
		{".gitattributes", "gitattributes"},
		{".gitignore", "gitignore"},
		{".pre-commit-config.yaml", "pre_commit_config.yaml"},
		{".prettierignore", "prettierignore"},
		{".prettierrc.js", "prettierrc.js"},
		{filepath.Join(pkgDir, "__init__.py"), "init.py"},
		{filepath.Join(pkgDir, "_version.py"), "version.py"},
		{filepath.Join("www", "theme", "overrides", "main.html"), "theme_override_main.html"},
	}
	for _, f := range scriptFiles {
		copies = append(copies, fileCopy{filepath.Join("scripts", f.dest), f.src})
	}
	for _, f := range copies {
		if err := m.copy(projectPath, f.dest, f.src); err != nil {
			return err
		}
	}

	for _, f := range []string{"project-words.txt", "CHANGELOG.md"} {
		if err := m.touch(projectPath, f); err != nil {
			return err
		}
	}
	if cfg.Bool(config.KeyPyTyped) {
		if err := m.touch(projectPath, filepath.Join(pkgDir, "py.typed")); err != nil {
			return err
		}
	}
	if err := m.touch(projectPath, filepath.Join("tests", "__init__.py")); err != nil {
		return err
	}

	if !cfg.Bool(config.KeyNoDoctests) {
		if err := m.render(projectPath, filepath.Join("tests", "test_doctests.py"),
			"test_doctests.py.tmpl", ctx); err != nil {
			return err
		}
	}

	// Docs-source links back to the top-level files; the README link is
	// renamed to the site index.
	webSrcDir := filepath.Join(projectPath, "www", "src")
	for _, link := range []struct{ src, target string }{
		{"CHANGELOG.md", "CHANGELOG.md"},
		{"LICENSE.md", "LICENSE.md"},
		{"README.md", "index.md"},
	} {
		linkPath := filepath.Join(webSrcDir, link.target)
		linkSrc := filepath.Join("..", "..", link.src)
		m.log.Action("SYMLINK", fmt.Sprintf("%s -> %s", linkPath, link.src))
		if err := os.Symlink(linkSrc, linkPath); err != nil {
			return err
		}
	}

	// Helper scripts become executable after being written.
	scriptsDir := filepath.Join(projectPath, "scripts")
	scriptEntries, err := os.ReadDir(scriptsDir)
	if err != nil {
		return err
	}
	for _, entry := range scriptEntries {
		scriptPath := filepath.Join(scriptsDir, entry.Name())
		m.log.Action("CHMOD+x", scriptPath)
		if err := os.Chmod(scriptPath, 0o755); err != nil {
			return err
		}
	}

	return nil
}

// createRoot creates the project directory, creating parents as needed
// but failing if the directory itself already exists.
func (m *Materializer) createRoot(projectPath string) error {
	if parent := filepath.Dir(projectPath); parent != "." && parent != string(filepath.Separator) {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return err
		}
	}
	m.log.Action("MKDIR", projectPath)
	if err := os.Mkdir(projectPath, 0o755); err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", ErrDestinationExists, projectPath)
		}
		return err
	}
	return nil
}

// render renders a template and writes it under the project root.
func (m *Materializer) render(projectPath, dest, tmplName string, ctx *RenderContext) error {
	content, err := m.renderer.Render(tmplName, ctx)
	if err != nil {
		return err
	}
	return m.write(projectPath, dest, content)
}

// copy writes a static template body under the project root.
func (m *Materializer) copy(projectPath, dest, src string) error {
	content, err := fs.ReadFile(m.fsys, src)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, src)
	}
	return m.write(projectPath, dest, content)
}

// write normalizes and writes one text file.
func (m *Materializer) write(projectPath, dest string, content []byte) error {
	path := filepath.Join(projectPath, dest)
	m.log.Action("WRITE", path)
	return os.WriteFile(path, normalize(content), 0o644)
}

// touch creates an empty file.
func (m *Materializer) touch(projectPath, dest string) error {
	path := filepath.Join(projectPath, dest)
	m.log.Action("TOUCH", path)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

// mkdir creates a directory tree under the project root.
func (m *Materializer) mkdir(projectPath, dir string) error {
	path := filepath.Join(projectPath, dir)
	m.log.Action("MKDIR", path)
	return os.MkdirAll(path, 0o755)
}

// normalize strips trailing whitespace from every line and enforces
// exactly one trailing newline.
func normalize(content []byte) []byte {
	text := strings.TrimSpace(string(content))
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}

// projectStem returns the final path segment without extension. A
// dot-leading segment with no other dot has no extension.
func projectStem(projectPath string) string {
	base := filepath.Base(projectPath)
	if ext := filepath.Ext(base); ext != base {
		return strings.TrimSuffix(base, ext)
	}
	return base
}
