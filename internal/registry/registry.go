// Package registry resolves user-supplied tool, language and platform names
// to their canonical definitions.
//
// A Registry is built once per process from the configuration document and
// is read-only afterwards. Lookups match the canonical name first, then any
// alias, case-sensitively. Languages and platforms additionally accept the
// wildcard "any", which always resolves to a synthesized sentinel.
package registry

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Registry holds the known tools, languages and platforms.
type Registry struct {
	tools      []Tool
	languages  []Entity
	platforms  []Entity
	configPath string
}

// Option configures a Registry.
type Option func(*Registry)

// WithConfigPath records where the definitions came from, so lookup errors
// can tell the user which file to edit.
func WithConfigPath(path string) Option {
	return func(r *Registry) {
		r.configPath = path
	}
}

// New validates the definitions and builds a Registry.
// Names and aliases must be unique within each category and usable as a
// single path element, tools need a plain output filename, no language or
// platform may claim the name "any", and canonical language names may not
// contain '-' (it separates platform and language in storage file names).
func New(languages, platforms []Entity, tools []Tool, opts ...Option) (*Registry, error) {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}

	if err := validateEntities(CategoryLanguage, languages); err != nil {
		return nil, err
	}
	if err := validateEntities(CategoryPlatform, platforms); err != nil {
		return nil, err
	}

	toolEntities := make([]Entity, len(tools))
	for i, t := range tools {
		toolEntities[i] = t.Entity
		if err := checkNames(CategoryTool, t.Entity); err != nil {
			return nil, err
		}
		if err := validateFilename(t); err != nil {
			return nil, err
		}
	}
	if err := checkUnique(CategoryTool, toolEntities); err != nil {
		return nil, err
	}

	for _, l := range languages {
		r.languages = append(r.languages, l.clone())
	}
	for _, p := range platforms {
		r.platforms = append(r.platforms, p.clone())
	}
	for _, t := range tools {
		r.tools = append(r.tools, t.clone())
	}

	return r, nil
}

// ConfigPath returns the path passed via WithConfigPath.
func (r *Registry) ConfigPath() string {
	return r.configPath
}

// FindTool resolves a tool by name or alias.
func (r *Registry) FindTool(name string) (Tool, error) {
	for _, t := range r.tools {
		if t.Matches(name) {
			return t.clone(), nil
		}
	}
	return Tool{}, r.unknown(CategoryTool, name)
}

// FindLanguage resolves a language by name or alias. "any" always succeeds.
func (r *Registry) FindLanguage(name string) (Entity, error) {
	return r.find(CategoryLanguage, r.languages, name)
}

// FindPlatform resolves a platform by name or alias. "any" always succeeds.
func (r *Registry) FindPlatform(name string) (Entity, error) {
	return r.find(CategoryPlatform, r.platforms, name)
}

// Tools returns a copy of the configured tools in definition order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, len(r.tools))
	for i, t := range r.tools {
		out[i] = t.clone()
	}
	return out
}

// Languages returns a copy of the configured languages in definition order.
func (r *Registry) Languages() []Entity {
	return cloneAll(r.languages)
}

// Platforms returns a copy of the configured platforms in definition order.
func (r *Registry) Platforms() []Entity {
	return cloneAll(r.platforms)
}

func (r *Registry) find(category Category, entities []Entity, name string) (Entity, error) {
	if name == Any {
		return AnyEntity(), nil
	}
	for _, e := range entities {
		if e.Matches(name) {
			return e.clone(), nil
		}
	}
	return Entity{}, r.unknown(category, name)
}

func (r *Registry) unknown(category Category, name string) error {
	return &UnknownEntityError{Category: category, Name: name, ConfigPath: r.configPath}
}

func validateEntities(category Category, entities []Entity) error {
	for _, e := range entities {
		if slices.Contains(e.Names(), Any) {
			return fmt.Errorf("%s %q: the name %q is reserved", category, e.Name, Any)
		}
		if err := checkNames(category, e); err != nil {
			return err
		}
	}
	return checkUnique(category, entities)
}

func checkNames(category Category, e Entity) error {
	for _, n := range e.Names() {
		if n == "" {
			continue // reported by checkUnique
		}
		if strings.ContainsAny(n, `/\`) || n == "." || n == ".." {
			return fmt.Errorf("%s %q: %q cannot be used as a file name", category, e.Name, n)
		}
	}
	if e.Name == "" {
		return nil
	}
	return ValidateKeyName(category, e.Name)
}

// ValidateKeyName reports whether a canonical name can be part of a storage
// key: a single path element, and for languages free of '-'. The wildcard
// "any" is valid for every category.
func ValidateKeyName(category Category, name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%s name is empty", category)
	case strings.ContainsAny(name, `/\`) || name == "." || name == "..":
		return fmt.Errorf("%s name %q cannot be used as a file name", category, name)
	case category == CategoryLanguage && strings.Contains(name, "-"):
		return fmt.Errorf("language name %q cannot contain '-' (use an alias instead)", name)
	}
	return nil
}

// checkUnique makes sure every name and alias points at exactly one entity.
func checkUnique(category Category, entities []Entity) error {
	owners := make(map[string]string)
	for _, e := range entities {
		if e.Name == "" {
			return fmt.Errorf("%s with aliases %v has no name", category, e.Aliases)
		}
		seen := make(map[string]bool)
		for _, n := range e.Names() {
			if n == "" {
				return fmt.Errorf("%s %q has an empty alias", category, e.Name)
			}
			if seen[n] {
				return &DuplicateEntityError{Category: category, Name: n, First: e.Name, Second: e.Name}
			}
			seen[n] = true
			if owner, ok := owners[n]; ok {
				return &DuplicateEntityError{Category: category, Name: n, First: owner, Second: e.Name}
			}
			owners[n] = e.Name
		}
	}
	return nil
}

func validateFilename(t Tool) error {
	f := t.Filename
	if f == "" {
		return fmt.Errorf("tool %q has no filename", t.Name)
	}
	if filepath.Base(f) != f || f == "." || f == ".." {
		return fmt.Errorf("tool %q: filename %q must be a plain file name", t.Name, f)
	}
	return nil
}

func cloneAll(entities []Entity) []Entity {
	out := make([]Entity, len(entities))
	for i, e := range entities {
		out[i] = e.clone()
	}
	return out
}
