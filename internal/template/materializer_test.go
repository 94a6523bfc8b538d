package template

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/jayanthkoushik/shiny-pyseed/internal/config"
	"github.com/jayanthkoushik/shiny-pyseed/internal/ui"
)

// fullConfig builds a resolved full-mode configuration rooted in a
// fresh temp directory.
func fullConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Set(config.KeyBarebones, false)
	cfg.Set(config.KeyProject, filepath.Join(t.TempDir(), "my-proj"))
	cfg.Set(config.KeyDescription, "a test project")
	cfg.Set(config.KeyURL, "https://example.com/docs")
	cfg.Set(config.KeyMainPkg, "my_proj")
	cfg.Set(config.KeyMITLicense, true)
	cfg.Set(config.KeyAuthors, "Jane Doe <jane@example.com>")
	cfg.Set(config.KeyMinPyVersion, "3.9")
	cfg.Set(config.KeyMaxPyVersion, "3.11")
	cfg.Set(config.KeyPyTyped, true)
	cfg.Set(config.KeyHookCron, true)
	cfg.Set(config.KeyAddDeps, "")
	cfg.Set(config.KeyAddDevDeps, "")
	cfg.Set(config.KeyNoGitHub, false)
	cfg.Set(config.KeyNoDoctests, false)
	return cfg
}

// barebonesConfig builds a resolved barebones configuration; mode
// ignored keys are absent, like the resolver leaves them.
func barebonesConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Set(config.KeyBarebones, true)
	cfg.Set(config.KeyProject, filepath.Join(t.TempDir(), "tiny-proj"))
	cfg.Set(config.KeyDescription, "a tiny project")
	cfg.Set(config.KeyMainPkg, "tiny_proj")
	cfg.Set(config.KeyMITLicense, true)
	cfg.Set(config.KeyAuthors, "Jane Doe <jane@example.com>")
	cfg.Set(config.KeyMinPyVersion, "3.9")
	cfg.Set(config.KeyPyTyped, true)
	cfg.Set(config.KeyAddDeps, "")
	cfg.Set(config.KeyAddDevDeps, "")
	return cfg
}

func materialize(t *testing.T, cfg *config.Config) string {
	t.Helper()
	m := NewMaterializer(ui.NewActionLog(nil, false))
	if err := m.Materialize(cfg); err != nil {
		t.Fatalf("Materialize() error: %v", err)
	}
	return cfg.Str(config.KeyProject)
}

func mustNotExist(t *testing.T, root string, rels ...string) {
	t.Helper()
	for _, rel := range rels {
		if _, err := os.Lstat(filepath.Join(root, rel)); !os.IsNotExist(err) {
			t.Errorf("%s exists, want absent", rel)
		}
	}
}

func mustExist(t *testing.T, root string, rels ...string) {
	t.Helper()
	for _, rel := range rels {
		if _, err := os.Lstat(filepath.Join(root, rel)); err != nil {
			t.Errorf("%s: %v", rel, err)
		}
	}
}

func TestMaterializeFullLayout(t *testing.T) {
	t.Parallel()

	root := materialize(t, fullConfig(t))

	mustExist(t, root,
		"pyproject.toml",
		"mkdocs.yml",
		"LICENSE.md",
		"README.md",
		"CHANGELOG.md",
		"project-words.txt",
		".commitlintrc.yaml",
		".cspell.json",
		".editorconfig",
		".gitattributes",
		".gitignore",
		".pre-commit-config.yaml",
		".prettierignore",
		".prettierrc.js",
		filepath.Join("src", "my_proj", "__init__.py"),
		filepath.Join("src", "my_proj", "_version.py"),
		filepath.Join("src", "my_proj", "py.typed"),
		filepath.Join("tests", "__init__.py"),
		filepath.Join("tests", "test_doctests.py"),
		filepath.Join("scripts", "gen_site_usage_pages.py"),
		filepath.Join("scripts", "make_docs.py"),
		filepath.Join("scripts", "commit_and_tag_version.py"),
		filepath.Join("scripts", "verify_pr_commits.py"),
		filepath.Join("www", "theme", "overrides", "main.html"),
		filepath.Join(".github", "workflows", "check-pr.yml"),
		filepath.Join(".github", "workflows", "release-new-version.yml"),
		filepath.Join(".github", "workflows", "create-github-release.yml"),
		filepath.Join(".github", "workflows", "publish-to-pypi.yml"),
		filepath.Join(".github", "workflows", "deploy-project-site.yml"),
		filepath.Join(".github", "workflows", "run-tests.yml"),
		filepath.Join(".github", "workflows", "update-pre-commit-hooks.yml"),
	)
	// The self-contained release script belongs to CI-less projects only.
	mustNotExist(t, root, filepath.Join("scripts", "release_new_version.py"))
}

func TestMaterializeFullSymlinks(t *testing.T) {
	t.Parallel()

	root := materialize(t, fullConfig(t))

	links := map[string]string{
		filepath.Join("www", "src", "CHANGELOG.md"): filepath.Join("..", "..", "CHANGELOG.md"),
		filepath.Join("www", "src", "LICENSE.md"):   filepath.Join("..", "..", "LICENSE.md"),
		filepath.Join("www", "src", "index.md"):     filepath.Join("..", "..", "README.md"),
	}
	for link, want := range links {
		target, err := os.Readlink(filepath.Join(root, link))
		if err != nil {
			t.Errorf("Readlink(%s): %v", link, err)
			continue
		}
		if target != want {
			t.Errorf("symlink %s -> %s, want %s", link, target, want)
		}
	}
}

func TestMaterializeScriptsExecutable(t *testing.T) {
	t.Parallel()

	root := materialize(t, fullConfig(t))
	entries, err := os.ReadDir(filepath.Join(root, "scripts"))
	if err != nil {
		t.Fatalf("ReadDir(scripts): %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("scripts directory is empty")
	}
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			t.Fatalf("Info(%s): %v", entry.Name(), err)
		}
		if info.Mode().Perm()&0o111 == 0 {
			t.Errorf("script %s is not executable (%v)", entry.Name(), info.Mode())
		}
	}
}

func TestMaterializeRunTestsWorkflowMatrix(t *testing.T) {
	t.Parallel()

	root := materialize(t, fullConfig(t))
	data, err := os.ReadFile(filepath.Join(root, ".github", "workflows", "run-tests.yml"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	var wf struct {
		Jobs struct {
			Main struct {
				Strategy struct {
					Matrix struct {
						PythonVersion []string `yaml:"python-version"`
					} `yaml:"matrix"`
				} `yaml:"strategy"`
			} `yaml:"main"`
		} `yaml:"jobs"`
	}
	if err := yaml.Unmarshal(data, &wf); err != nil {
		t.Fatalf("workflow is not valid yaml: %v", err)
	}
	got := wf.Jobs.Main.Strategy.Matrix.PythonVersion
	want := []string{"3.9", "3.10", "3.11"}
	if len(got) != len(want) {
		t.Fatalf("matrix python-version = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("matrix[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMaterializeHookCronSchedule(t *testing.T) {
	t.Parallel()

	t.Run("enabled", func(t *testing.T) {
		t.Parallel()
		root := materialize(t, fullConfig(t))
		data, err := os.ReadFile(filepath.Join(root, ".github", "workflows", "update-pre-commit-hooks.yml"))
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if !strings.Contains(string(data), `cron: "0 0 1 * *"`) {
			t.Error("hook-update workflow missing cron schedule")
		}
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		cfg := fullConfig(t)
		cfg.Set(config.KeyHookCron, false)
		root := materialize(t, cfg)
		data, err := os.ReadFile(filepath.Join(root, ".github", "workflows", "update-pre-commit-hooks.yml"))
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if strings.Contains(string(data), "cron:") {
			t.Error("hook-update workflow has cron schedule when disabled")
		}
	})
}

func TestMaterializeNoGitHub(t *testing.T) {
	t.Parallel()

	cfg := fullConfig(t)
	cfg.Set(config.KeyNoGitHub, true)
	root := materialize(t, cfg)

	mustNotExist(t, root, ".github",
		filepath.Join("scripts", "commit_and_tag_version.py"),
		filepath.Join("scripts", "verify_pr_commits.py"))
	mustExist(t, root, filepath.Join("scripts", "release_new_version.py"))
}

func TestMaterializeOptionalMarkers(t *testing.T) {
	t.Parallel()

	cfg := fullConfig(t)
	cfg.Set(config.KeyPyTyped, false)
	cfg.Set(config.KeyNoDoctests, true)
	root := materialize(t, cfg)

	mustNotExist(t, root,
		filepath.Join("src", "my_proj", "py.typed"),
		filepath.Join("tests", "test_doctests.py"))
}

func TestMaterializeDoctestStubReferencesPackage(t *testing.T) {
	t.Parallel()

	root := materialize(t, fullConfig(t))
	data, err := os.ReadFile(filepath.Join(root, "tests", "test_doctests.py"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "my_proj") {
		t.Error("doctest stub does not reference the main package")
	}
}

func TestMaterializeLicense(t *testing.T) {
	t.Parallel()

	t.Run("mit", func(t *testing.T) {
		t.Parallel()
		root := materialize(t, fullConfig(t))
		data, err := os.ReadFile(filepath.Join(root, "LICENSE.md"))
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		text := string(data)
		if !strings.Contains(text, "MIT License") || !strings.Contains(text, "Jane Doe") {
			t.Errorf("license content = %q", text)
		}
	})

	t.Run("no mit", func(t *testing.T) {
		t.Parallel()
		cfg := fullConfig(t)
		cfg.Set(config.KeyMITLicense, false)
		root := materialize(t, cfg)
		data, err := os.ReadFile(filepath.Join(root, "LICENSE.md"))
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if got := string(data); got != "\n" {
			t.Errorf("LICENSE.md = %q, want empty", got)
		}
	})
}

func TestMaterializeBarebonesLayout(t *testing.T) {
	t.Parallel()

	root := materialize(t, barebonesConfig(t))

	mustExist(t, root,
		"pyproject.toml",
		"LICENSE.md",
		"README.md",
		"project-words.txt",
		".cspell.json",
		".editorconfig",
		".gitignore",
		".pre-commit-config.yaml",
		filepath.Join("tiny_proj", "__init__.py"),
	)
	mustNotExist(t, root,
		"mkdocs.yml",
		"CHANGELOG.md",
		".commitlintrc.yaml",
		".gitattributes",
		".prettierignore",
		".prettierrc.js",
		".github",
		"scripts",
		"src",
		"tests",
		"www",
	)

	// The reduced manifest does not package the project.
	data, err := os.ReadFile(filepath.Join(root, "pyproject.toml"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "package-mode = false") {
		t.Error("barebones pyproject missing package-mode = false")
	}
}

func TestMaterializeExistingDestination(t *testing.T) {
	t.Parallel()

	cfg := fullConfig(t)
	if err := os.Mkdir(cfg.Str(config.KeyProject), 0o755); err != nil {
		t.Fatal(err)
	}

	m := NewMaterializer(ui.NewActionLog(nil, false))
	err := m.Materialize(cfg)
	if !errors.Is(err, ErrDestinationExists) {
		t.Errorf("Materialize() error = %v, want ErrDestinationExists", err)
	}
}

func TestMaterializeCreatesParents(t *testing.T) {
	t.Parallel()

	cfg := fullConfig(t)
	cfg.Set(config.KeyProject, filepath.Join(t.TempDir(), "deep", "nested", "proj"))
	root := materialize(t, cfg)
	mustExist(t, root, "pyproject.toml")
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"a\nb", "a\nb\n"},
		{"a  \nb\t\n", "a\nb\n"},
		{"\n\n  text  \n\n\n", "text\n"},
		{"line\n\nline", "line\n\nline\n"},
	}
	for _, tt := range tests {
		if got := string(normalize([]byte(tt.in))); got != tt.want {
			t.Errorf("normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProjectStem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"work/my-proj", "my-proj"},
		{"work/my-proj.py", "my-proj"},
		{".myproj", ".myproj"},
		{"work/.myproj", ".myproj"},
		{".conf.d", ".conf"},
	}
	for _, tt := range tests {
		if got := projectStem(tt.path); got != tt.want {
			t.Errorf("projectStem(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
