package registry

import "fmt"

// Category names the kind of entity being looked up.
type Category string

const (
	CategoryTool     Category = "tool"
	CategoryLanguage Category = "language"
	CategoryPlatform Category = "platform"
)

// UnknownEntityError is returned when a name matches no entity or alias.
type UnknownEntityError struct {
	Category   Category
	Name       string
	ConfigPath string // where the user can define it; may be empty
}

func (e *UnknownEntityError) Error() string {
	if e.ConfigPath == "" {
		return fmt.Sprintf("unknown %s: %s", e.Category, e.Name)
	}
	return fmt.Sprintf("unknown %s: %s (define it in %s)", e.Category, e.Name, e.ConfigPath)
}

// DuplicateEntityError is returned by New when two entities of the same
// category share a name or alias.
type DuplicateEntityError struct {
	Category Category
	Name     string // the clashing name or alias
	First    string // entity that claimed it first
	Second   string // entity that claimed it again
}

func (e *DuplicateEntityError) Error() string {
	if e.First == e.Second {
		return fmt.Sprintf("%s %q lists %q more than once", e.Category, e.First, e.Name)
	}
	return fmt.Sprintf("%s name %q is used by both %q and %q", e.Category, e.Name, e.First, e.Second)
}
