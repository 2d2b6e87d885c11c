// Package record defines the stored template unit and its binary encoding.
//
// A record is persisted as a 4-byte magic ("DVNV"), a format version byte,
// and a CBOR map with integer keys in core deterministic encoding. The
// format is private to devenv: it only has to stay readable by later runs
// of the same build.
package record

import (
	"github.com/lyssieth/devenv/internal/registry"
)

// Record is one template body stored for one (tool, platform, language) key.
type Record struct {
	Language registry.Entity
	Platform registry.Entity
	Tool     registry.Tool
	Body     string
}

// Key returns the storage key of the record.
func (r Record) Key() Key {
	return Key{Tool: r.Tool.Name, Platform: r.Platform.Name, Language: r.Language.Name}
}

// Key identifies a stored template by canonical names.
type Key struct {
	Tool     string
	Platform string
	Language string
}

// WithLanguage returns a copy of k with the language replaced.
func (k Key) WithLanguage(language string) Key {
	k.Language = language
	return k
}

func (k Key) String() string {
	return k.Tool + ":" + k.Platform + "-" + k.Language
}
