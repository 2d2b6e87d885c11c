package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoProjectName is returned when no project name can be derived from the
// working directory.
var ErrNoProjectName = errors.New("cannot determine project name from working directory")

// Context carries the values available to placeholders.
type Context struct {
	Name string // base name of the project directory
}

// ContextFromDir derives the context from a project directory path.
func ContextFromDir(dir string) (Context, error) {
	if dir == "" {
		return Context{}, ErrNoProjectName
	}

	base := filepath.Base(filepath.Clean(dir))
	if base == "." || base == ".." || base == string(filepath.Separator) || base == "" {
		return Context{}, fmt.Errorf("%w: %s", ErrNoProjectName, dir)
	}
	return Context{Name: base}, nil
}

// CurrentContext derives the context from the process working directory.
func CurrentContext() (Context, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Context{}, fmt.Errorf("%w: %w", ErrNoProjectName, err)
	}
	return ContextFromDir(wd)
}

func (c Context) values() map[string]string {
	return map[string]string{
		ProjectName:                   c.Name,
		ProjectNameDashesToUnderscore: strings.ReplaceAll(c.Name, "-", "_"),
		ProjectNameLowercase:          strings.ToLower(c.Name),
	}
}
