package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapEnv map[string]string

func (m mapEnv) Get(key string) string {
	return m[key]
}

func TestRoot_EnvOverride(t *testing.T) {
	root, err := Root(mapEnv{RootEnv: "/srv/devenv/"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/srv/devenv"), root)
}

func TestRoot_UserConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("HOME", home)

	root, err := Root(mapEnv{})
	require.NoError(t, err)

	want, err := os.UserConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(want, AppName), root)
}

func TestOSEnv(t *testing.T) {
	t.Setenv(RootEnv, "/tmp/x")
	assert.Equal(t, "/tmp/x", OSEnv{}.Get(RootEnv))
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
