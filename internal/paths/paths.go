// Package paths resolves the devenv application data root.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootEnv overrides the data root when set.
const RootEnv = "DEVENV_ROOT"

// AppName is the directory created under the user config directory.
const AppName = "devenv"

// Env looks up environment variables. Unset variables return "".
type Env interface {
	Get(key string) string
}

// OSEnv reads the process environment.
type OSEnv struct{}

func (OSEnv) Get(key string) string {
	return os.Getenv(key)
}

// Root returns the data root: $DEVENV_ROOT if set, otherwise
// <user config dir>/devenv. It does not touch the filesystem.
func Root(env Env) (string, error) {
	if v := env.Get(RootEnv); v != "" {
		return filepath.Clean(v), nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}
