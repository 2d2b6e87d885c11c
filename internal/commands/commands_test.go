package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyssieth/devenv/internal/config"
	"github.com/lyssieth/devenv/internal/generator"
	"github.com/lyssieth/devenv/internal/output"
	"github.com/lyssieth/devenv/internal/record"
	"github.com/lyssieth/devenv/internal/registry"
	"github.com/lyssieth/devenv/internal/store"
)

type env struct {
	root    string
	project string
	files   string
}

// setup points the data root at a temp dir, writes a config with an extra
// "just" tool and changes into a project directory named My-App.
func setup(t *testing.T) *env {
	t.Helper()

	e := &env{
		root:  t.TempDir(),
		files: t.TempDir(),
	}
	e.project = filepath.Join(t.TempDir(), "My-App")
	require.NoError(t, os.Mkdir(e.project, 0o755))

	t.Setenv("DEVENV_ROOT", e.root)
	t.Setenv("DEVENV_PLATFORM", "")
	t.Setenv("DEVENV_LANGUAGE", "")

	cfg := config.Default()
	cfg.Tools = append(cfg.Tools, registry.Tool{
		Entity:   registry.Entity{Name: "just", Aliases: []string{"justfile"}},
		Filename: "justfile",
	})
	require.NoError(t, cfg.Save(config.Path(e.root)))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(e.project))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return e
}

func (e *env) template(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(e.files, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

type result struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()

	var out, errOut bytes.Buffer
	output.SetWriters(&out, &errOut)
	t.Cleanup(func() {
		output.SetWriters(nil, nil)
		output.SetVerbose(false)
	})

	root := RootCmd()
	root.AddCommand(CreateCmd(), GenerateCmd(), ConfigCmd(), ListCmd())
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)

	err := root.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func TestCreateThenGenerate(t *testing.T) {
	e := setup(t)
	tpl := e.template(t, "Dockerfile", "FROM base\n# {ProjectName}")

	r := run(t, "", "create", "docker", tpl)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Stored docker template for x86-rust")
	assert.FileExists(t, filepath.Join(e.root, "docker", "x86-rust.bin"))

	r = run(t, "", "generate", "docker")
	require.NoError(t, r.err)

	got, err := os.ReadFile(filepath.Join(e.project, "Dockerfile"))
	require.NoError(t, err)
	assert.Equal(t, "FROM base\n# My-App", string(got))
	assert.Contains(t, r.stdout, "Created Dockerfile")
}

func TestCreate_ResolvesAliases(t *testing.T) {
	e := setup(t)
	tpl := e.template(t, "pipeline", "kind: pipeline\n")

	r := run(t, "", "create", ".drone.yml", tpl, "-p", "x64", "-l", "rs")
	require.NoError(t, r.err)

	rec, err := store.New(e.root).Fetch(
		registry.Tool{Entity: registry.Entity{Name: "drone"}},
		registry.Entity{Name: "x86"},
		registry.Entity{Name: "rust"})
	require.NoError(t, err)
	assert.Equal(t, "kind: pipeline\n", rec.Body)
	assert.Equal(t, ".drone.yml", rec.Tool.Filename)
	assert.Equal(t, []string{"rs"}, rec.Language.Aliases)
}

func TestCreate_EnvSelectsLanguage(t *testing.T) {
	e := setup(t)
	t.Setenv("DEVENV_LANGUAGE", "any")
	tpl := e.template(t, "justfile", "build:\n")

	r := run(t, "", "create", "just", tpl)
	require.NoError(t, r.err)
	assert.FileExists(t, filepath.Join(e.root, "just", "x86-any.bin"))
}

func TestCreate_Check(t *testing.T) {
	e := setup(t)
	tpl := e.template(t, "Dockerfile", "ENV PATH=${PATH}\n")

	r := run(t, "", "create", "docker", tpl)
	require.NoError(t, r.err, "placeholders are not validated without --check")

	r = run(t, "", "create", "docker", tpl, "-l", "any", "--check")
	require.Error(t, r.err)
	assert.NoFileExists(t, filepath.Join(e.root, "docker", "x86-any.bin"))
}

func TestCreate_MissingFile(t *testing.T) {
	e := setup(t)
	r := run(t, "", "create", "docker", filepath.Join(e.files, "nope"))
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "reading template")
}

func TestGenerate_FallsBackToAnyLanguage(t *testing.T) {
	e := setup(t)
	tpl := e.template(t, "justfile", "run:\n\tcargo run --bin {ProjectName_Lowercase}\n")
	require.NoError(t, run(t, "", "create", "just", tpl, "-l", "any").err)

	r := run(t, "", "generate", "just", "-l", "rust", "-v")
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "any-language fallback")
	assert.Contains(t, r.stdout, "Using x86-any template for just")

	got, err := os.ReadFile(filepath.Join(e.project, "justfile"))
	require.NoError(t, err)
	assert.Equal(t, "run:\n\tcargo run --bin my-app\n", string(got))
}

func TestGenerate_TotalMissWritesNothing(t *testing.T) {
	e := setup(t)

	r := run(t, "", "generate", "drone")
	require.Error(t, r.err)
	assert.Contains(t, r.stderr, "no x86-rust or x86-any template stored for drone")

	entries, err := os.ReadDir(e.project)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoDirExists(t, filepath.Join(e.root, "drone"))
}

func TestGenerate_BatchContinuesAfterMiss(t *testing.T) {
	e := setup(t)
	tpl := e.template(t, "Dockerfile", "FROM {ProjectName_DashesToUnderscores}\n")
	require.NoError(t, run(t, "", "create", "docker", tpl).err)

	r := run(t, "", "generate", "drone", "docker")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "1 of 2 tools failed")

	got, err := os.ReadFile(filepath.Join(e.project, "Dockerfile"))
	require.NoError(t, err)
	assert.Equal(t, "FROM My_App\n", string(got))
	assert.NoFileExists(t, filepath.Join(e.project, ".drone.yml"))
}

func TestGenerate_UnknownNamesAreFatal(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		category registry.Category
	}{
		{"tool", []string{"generate", "docker", "podman"}, registry.CategoryTool},
		{"platform", []string{"generate", "docker", "-p", "arm"}, registry.CategoryPlatform},
		{"language", []string{"generate", "docker", "-l", "zig"}, registry.CategoryLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := setup(t)
			tpl := e.template(t, "Dockerfile", "FROM base\n")
			require.NoError(t, run(t, "", "create", "docker", tpl).err)
			require.NoError(t, run(t, "", "create", "docker", tpl, "-l", "any").err)

			r := run(t, "", tt.args...)
			require.Error(t, r.err)

			var unknown *registry.UnknownEntityError
			require.True(t, errors.As(r.err, &unknown))
			assert.Equal(t, tt.category, unknown.Category)
			assert.Equal(t, config.Path(e.root), unknown.ConfigPath)
			assert.NoFileExists(t, filepath.Join(e.project, "Dockerfile"))
		})
	}
}

func TestGenerate_ExistingFiles(t *testing.T) {
	e := setup(t)
	tpl := e.template(t, "Dockerfile", "FROM new\n")
	require.NoError(t, run(t, "", "create", "docker", tpl).err)

	dockerfile := filepath.Join(e.project, "Dockerfile")
	require.NoError(t, os.WriteFile(dockerfile, []byte("FROM old\n"), 0o644))

	r := run(t, "", "generate", "docker", "--skip")
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "Skipped Dockerfile")
	got, _ := os.ReadFile(dockerfile)
	assert.Equal(t, "FROM old\n", string(got))

	r = run(t, "", "generate", "docker", "--force", "--dry-run")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "[dry run] Overwrote Dockerfile")
	got, _ = os.ReadFile(dockerfile)
	assert.Equal(t, "FROM old\n", string(got))

	r = run(t, "", "generate", "docker", "--force")
	require.NoError(t, r.err)
	got, _ = os.ReadFile(dockerfile)
	assert.Equal(t, "FROM new\n", string(got))

	r = run(t, "", "generate", "docker", "--skip")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Dockerfile is up to date")
}

func TestGenerate_ConflictingFlags(t *testing.T) {
	setup(t)
	r := run(t, "", "generate", "docker", "--force", "--skip")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "cannot be combined")
}

func TestGenerate_RenderErrorIsPerTool(t *testing.T) {
	e := setup(t)
	require.NoError(t, run(t, "", "create", "docker", e.template(t, "bad", "FROM {Nope}\n")).err)

	r := run(t, "", "generate", "docker")
	require.Error(t, r.err)
	assert.Contains(t, r.stderr, "docker:")
	assert.NoFileExists(t, filepath.Join(e.project, "Dockerfile"))
}

func TestGenerate_CorruptRecord(t *testing.T) {
	e := setup(t)
	require.NoError(t, os.MkdirAll(filepath.Join(e.root, "docker"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.root, "docker", "x86-rust.bin"), []byte("garbage"), 0o644))

	r := run(t, "", "generate", "docker")
	require.Error(t, r.err)
	assert.Contains(t, r.stderr, "docker:")
}

func TestList(t *testing.T) {
	e := setup(t)

	r := run(t, "", "list")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "No templates stored yet")

	tpl := e.template(t, "t", "x")
	require.NoError(t, run(t, "", "create", "docker", tpl).err)
	require.NoError(t, run(t, "", "create", "just", tpl, "-l", "any").err)

	r = run(t, "", "list")
	require.NoError(t, r.err)
	assert.Equal(t, "docker  x86-rust\njust    x86-any\n", r.stdout)
}

func TestConfigPath(t *testing.T) {
	e := setup(t)
	r := run(t, "", "config", "path")
	require.NoError(t, r.err)
	assert.Equal(t, config.Path(e.root)+"\n", r.stdout)
}

func TestConfigShow(t *testing.T) {
	setup(t)
	r := run(t, "", "config", "show")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "name: docker")
	assert.Contains(t, r.stdout, "filename: justfile")
}

func TestConfigRegenerate(t *testing.T) {
	e := setup(t)
	path := config.Path(e.root)

	r := run(t, "n\n", "config", "regenerate")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Kept existing config")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Tools, 3)

	r = run(t, "y\n", "config", "regenerate")
	require.NoError(t, r.err)
	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestConfigRegenerate_Yes(t *testing.T) {
	e := setup(t)
	r := run(t, "", "config", "regenerate", "--yes")
	require.NoError(t, r.err)

	cfg, err := config.Load(config.Path(e.root))
	require.NoError(t, err)
	assert.Len(t, cfg.Tools, 2)
}

func TestFirstRunWritesDefaultConfig(t *testing.T) {
	e := setup(t)
	require.NoError(t, os.Remove(config.Path(e.root)))

	r := run(t, "", "list")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Created default config")
	assert.FileExists(t, config.Path(e.root))
}

func TestRecordKeyMatchesStoreLayout(t *testing.T) {
	e := setup(t)
	tpl := e.template(t, "t", "x")
	require.NoError(t, run(t, "", "create", "docker", tpl, "-l", "any").err)

	keys, err := store.New(e.root).List()
	require.NoError(t, err)
	assert.Equal(t, []record.Key{{Tool: "docker", Platform: "x86", Language: "any"}}, keys)
}

func TestGenerate_UnwritableTargetIsPerTool(t *testing.T) {
	e := setup(t)
	require.NoError(t, run(t, "", "create", "docker", e.template(t, "Dockerfile", "FROM base\n")).err)
	require.NoError(t, run(t, "", "create", "drone", e.template(t, "drone", "kind: pipeline\n")).err)
	require.NoError(t, os.Mkdir(filepath.Join(e.project, "Dockerfile"), 0o755))

	r := run(t, "", "generate", "docker", "drone")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "1 of 2 tools failed")
	assert.Contains(t, r.stderr, "is a directory")
	assert.Contains(t, r.stdout, "Created .drone.yml")

	got, err := os.ReadFile(filepath.Join(e.project, ".drone.yml"))
	require.NoError(t, err)
	assert.Equal(t, "kind: pipeline\n", string(got))
	assert.DirExists(t, filepath.Join(e.project, "Dockerfile"))
}

type cancelAll struct{}

func (cancelAll) Resolve(string, []byte, []byte) (generator.Resolution, error) {
	return generator.Cancel, nil
}

func TestGenerate_CancelIsAnError(t *testing.T) {
	e := setup(t)
	require.NoError(t, run(t, "", "create", "docker", e.template(t, "Dockerfile", "FROM new\n")).err)
	require.NoError(t, run(t, "", "create", "drone", e.template(t, "drone", "kind: pipeline\n")).err)

	dockerfile := filepath.Join(e.project, "Dockerfile")
	require.NoError(t, os.WriteFile(dockerfile, []byte("FROM old\n"), 0o644))

	var out, errOut bytes.Buffer
	output.SetWriters(&out, &errOut)
	t.Cleanup(func() { output.SetWriters(nil, nil) })

	root := RootCmd()
	gen := GenerateCmd()
	root.AddCommand(gen)
	gen.SetContext(context.Background())
	gen.SetErr(&errOut)

	err := runGenerate(gen, []string{"docker", "drone"}, generator.NewResolverWith(cancelAll{}), false)
	require.ErrorIs(t, err, generator.ErrCancelled)
	assert.Contains(t, err.Error(), "not written: Dockerfile, .drone.yml")

	got, _ := os.ReadFile(dockerfile)
	assert.Equal(t, "FROM old\n", string(got))
	assert.NoFileExists(t, filepath.Join(e.project, ".drone.yml"))
}
