package registry

import "slices"

// Any is the name of the wildcard language/platform. It is never stored in
// the configuration; FindLanguage and FindPlatform synthesize it on demand.
const Any = "any"

// Entity is a named language or platform with optional aliases.
type Entity struct {
	Name    string   `yaml:"name" mapstructure:"name"`
	Aliases []string `yaml:"aliases" mapstructure:"aliases"`
}

// Tool is an entity that produces one output file (e.g. docker → Dockerfile).
type Tool struct {
	Entity   `yaml:",inline" mapstructure:",squash"`
	Filename string `yaml:"filename" mapstructure:"filename"`
}

// AnyEntity returns the wildcard sentinel.
func AnyEntity() Entity {
	return Entity{Name: Any}
}

// IsAny reports whether e is the wildcard sentinel.
func (e Entity) IsAny() bool {
	return e.Name == Any
}

// Matches reports whether name is the entity's name or one of its aliases.
// Matching is case-sensitive.
func (e Entity) Matches(name string) bool {
	return e.Name == name || slices.Contains(e.Aliases, name)
}

// Names returns the entity's name followed by its aliases.
func (e Entity) Names() []string {
	return append([]string{e.Name}, e.Aliases...)
}

func (e Entity) clone() Entity {
	e.Aliases = slices.Clone(e.Aliases)
	return e
}

func (t Tool) clone() Tool {
	t.Entity = t.Entity.clone()
	return t
}
