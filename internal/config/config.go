// Package config loads and saves the user-editable definitions of tools,
// languages and platforms (config.yml in the devenv data root).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/lyssieth/devenv/internal/registry"
)

// FileName is the config file name inside the data root.
const FileName = "config.yml"

// Config is the persisted registry document.
type Config struct {
	Languages []registry.Entity `yaml:"languages" mapstructure:"languages"`
	Platforms []registry.Entity `yaml:"platforms" mapstructure:"platforms"`
	Tools     []registry.Tool   `yaml:"tools" mapstructure:"tools"`
}

// Path returns the config file location for a data root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Default returns the built-in configuration written on first run.
func Default() *Config {
	return &Config{
		Languages: []registry.Entity{
			{Name: "rust", Aliases: []string{"rs"}},
		},
		Platforms: []registry.Entity{
			{Name: "x86", Aliases: []string{"x86_64", "x64"}},
		},
		Tools: []registry.Tool{
			{
				Entity:   registry.Entity{Name: "docker", Aliases: []string{"dockerfile"}},
				Filename: "Dockerfile",
			},
			{
				Entity:   registry.Entity{Name: "drone", Aliases: []string{"drone.yml", ".drone.yml"}},
				Filename: ".drone.yml",
			},
		},
	}
}

// Load reads the config file at path.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file %s not found: %w", path, err)
		}
		return nil, fmt.Errorf("checking config file %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes cfg to path as YAML, creating the parent directory if needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// Registry validates the definitions and builds a registry whose lookup
// errors point the user at path.
func (c *Config) Registry(path string) (*registry.Registry, error) {
	r, err := registry.New(c.Languages, c.Platforms, c.Tools, registry.WithConfigPath(path))
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return r, nil
}

// EnsureExists writes the default config to path when no file exists there.
// It reports whether a new file was written.
func EnsureExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("checking config file %s: %w", path, err)
	}

	if err := Default().Save(path); err != nil {
		return false, err
	}
	return true, nil
}
