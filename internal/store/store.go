// Package store persists template records on disk, one file per key.
//
// Layout:
//
//	<root>/<tool>/<platform>-<language>.bin
//
// The .bin extension marks the files as encoded records rather than
// templates meant for hand editing. Fetch falls back from the requested
// language to "any" for the same tool and platform; there is no fallback on
// platform or tool.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lyssieth/devenv/internal/logger"
	"github.com/lyssieth/devenv/internal/record"
	"github.com/lyssieth/devenv/internal/registry"
)

// Extension is the file extension of stored records.
const Extension = ".bin"

const (
	dirMode  fs.FileMode = 0o755
	fileMode fs.FileMode = 0o644
)

// Store reads and writes template records under a root directory.
type Store struct {
	root string
	log  logger.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the diagnostics logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// New creates a Store rooted at root. The directory does not need to exist.
func New(root string, opts ...Option) *Store {
	s := &Store{root: root, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// ToolDir returns the directory holding every record of a tool.
func (s *Store) ToolDir(tool string) string {
	return filepath.Join(s.root, tool)
}

// Path returns the file that holds the record for key.
func (s *Store) Path(key record.Key) string {
	return filepath.Join(s.ToolDir(key.Tool), key.Platform+"-"+key.Language+Extension)
}

// Create writes rec, replacing any record already stored under its key.
// The tool directory is created when missing.
func (s *Store) Create(rec record.Record) error {
	key := rec.Key()
	if err := validateKey(key); err != nil {
		return err
	}
	dir := s.ToolDir(key.Tool)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("creating template directory %s: %w", dir, err)
	}

	data, err := record.Encode(rec)
	if err != nil {
		return err
	}

	path := s.Path(key)
	if err := writeFileAtomic(path, data, fileMode); err != nil {
		return fmt.Errorf("writing template %s: %w", path, err)
	}

	s.log.Debug("stored template", logger.F("key", key), logger.F("path", path), logger.F("bytes", len(data)))
	return nil
}

// Fetch returns the record for (tool, platform, language). When none is
// stored it tries (tool, platform, "any") once. If both are missing it
// returns a *NoMatchingTemplateError. Fetch never writes to disk.
func (s *Store) Fetch(tool registry.Tool, platform, language registry.Entity) (record.Record, error) {
	key := record.Key{Tool: tool.Name, Platform: platform.Name, Language: language.Name}
	if err := validateKey(key); err != nil {
		return record.Record{}, err
	}

	rec, found, err := s.load(key)
	if err != nil || found {
		return rec, err
	}

	if !language.IsAny() {
		fallback := key.WithLanguage(registry.Any)
		s.log.Debug("no exact template, trying any-language fallback",
			logger.F("key", key), logger.F("fallback", fallback))

		rec, found, err = s.load(fallback)
		if err != nil || found {
			return rec, err
		}
	}

	s.log.Debug("no template found", logger.F("key", key))
	return record.Record{}, &NoMatchingTemplateError{
		Tool:     tool.Name,
		Platform: platform.Name,
		Language: language.Name,
	}
}

// load reads one record. found is false when the file does not exist.
func (s *Store) load(key record.Key) (rec record.Record, found bool, err error) {
	path := s.Path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return record.Record{}, false, nil
		}
		return record.Record{}, false, fmt.Errorf("reading template %s: %w", path, err)
	}

	rec, err = record.Decode(data)
	if err != nil {
		return record.Record{}, true, fmt.Errorf("template %s: %w", path, err)
	}
	if got := rec.Key(); got != key {
		return record.Record{}, true, fmt.Errorf("template %s: %w", path, &record.CorruptRecordError{
			Reason: fmt.Sprintf("file holds %s, expected %s", got, key),
		})
	}

	s.log.Debug("loaded template", logger.F("key", key), logger.F("path", path))
	return rec, true, nil
}

// List returns the keys of all stored records sorted by tool, platform and
// language. A missing root yields no keys. Files that do not carry the
// record extension are ignored.
func (s *Store) List() ([]record.Key, error) {
	tools, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing templates in %s: %w", s.root, err)
	}

	var keys []record.Key
	for _, toolDir := range tools {
		if !toolDir.IsDir() {
			continue
		}

		dir := s.ToolDir(toolDir.Name())
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("listing templates in %s: %w", dir, err)
		}

		for _, e := range entries {
			key, ok := parseFileName(toolDir.Name(), e)
			if ok {
				keys = append(keys, key)
			}
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Tool != b.Tool {
			return a.Tool < b.Tool
		}
		if a.Platform != b.Platform {
			return a.Platform < b.Platform
		}
		return a.Language < b.Language
	})
	return keys, nil
}

// validateKey rejects keys whose names would escape the tool directory or
// make "<platform>-<language>" ambiguous.
func validateKey(key record.Key) error {
	for _, part := range []struct {
		category registry.Category
		name     string
	}{
		{registry.CategoryTool, key.Tool},
		{registry.CategoryPlatform, key.Platform},
		{registry.CategoryLanguage, key.Language},
	} {
		if err := registry.ValidateKeyName(part.category, part.name); err != nil {
			return fmt.Errorf("invalid template key %s: %w", key, err)
		}
	}
	return nil
}

// parseFileName recovers a key from "<platform>-<language>.bin".
// The language is whatever follows the last dash.
func parseFileName(tool string, e fs.DirEntry) (record.Key, bool) {
	name := e.Name()
	if e.IsDir() || !strings.HasSuffix(name, Extension) {
		return record.Key{}, false
	}

	stem := strings.TrimSuffix(name, Extension)
	i := strings.LastIndex(stem, "-")
	if i <= 0 || i == len(stem)-1 {
		return record.Key{}, false
	}

	return record.Key{Tool: tool, Platform: stem[:i], Language: stem[i+1:]}, true
}
