package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lyssieth/devenv/internal/config"
	"github.com/lyssieth/devenv/internal/logger"
	"github.com/lyssieth/devenv/internal/output"
	"github.com/lyssieth/devenv/internal/paths"
	"github.com/lyssieth/devenv/internal/registry"
	"github.com/lyssieth/devenv/internal/store"
)

// app is what a command needs after startup: the loaded registry and the
// template store, both rooted at the same data directory.
type app struct {
	root       string
	configPath string
	config     *config.Config
	registry   *registry.Registry
	store      *store.Store
	log        logger.Logger
	settings   *viper.Viper
}

// dataRoot resolves the data root and makes sure it exists.
func dataRoot() (string, error) {
	root, err := paths.Root(paths.OSEnv{})
	if err != nil {
		return "", err
	}
	if err := paths.EnsureDir(root); err != nil {
		return "", err
	}
	return root, nil
}

// loadApp reads the config (writing the default on first run) and builds
// the registry and store.
func loadApp(cmd *cobra.Command) (*app, error) {
	root, err := dataRoot()
	if err != nil {
		return nil, err
	}

	log := newLogger(cmd)
	path := config.Path(root)

	created, err := config.EnsureExists(path)
	if err != nil {
		return nil, err
	}
	if created {
		output.Info(fmt.Sprintf("Created default config at %s", path))
		output.Step("Edit it to add your own tools, platforms and languages")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	reg, err := cfg.Registry(path)
	if err != nil {
		return nil, err
	}

	settings, err := bindSettings(cmd)
	if err != nil {
		return nil, err
	}

	log.Debug("loaded config", logger.F("path", path),
		logger.F("tools", len(reg.Tools())),
		logger.F("languages", len(reg.Languages())),
		logger.F("platforms", len(reg.Platforms())))

	return &app{
		root:       root,
		configPath: path,
		config:     cfg,
		registry:   reg,
		store:      store.New(root, store.WithLogger(log)),
		log:        log,
		settings:   settings,
	}, nil
}

// bindSettings layers the --platform and --language flags over the
// DEVENV_PLATFORM and DEVENV_LANGUAGE environment variables.
func bindSettings(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("devenv")

	for _, key := range []string{"platform", "language"} {
		if flag := cmd.Flags().Lookup(key); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("binding --%s: %w", key, err)
			}
		}
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s environment: %w", key, err)
		}
	}

	v.SetDefault("platform", defaultPlatform)
	v.SetDefault("language", defaultLanguage)
	return v, nil
}

func newLogger(cmd *cobra.Command) logger.Logger {
	level := logger.LevelWarn
	if output.IsVerbose() {
		level = logger.LevelDebug
	}
	return logger.New(level, cmd.ErrOrStderr())
}

// target resolves the platform and language selected for this invocation.
func (a *app) target() (platform, language registry.Entity, err error) {
	platform, err = a.registry.FindPlatform(a.settings.GetString("platform"))
	if err != nil {
		return registry.Entity{}, registry.Entity{}, err
	}
	language, err = a.registry.FindLanguage(a.settings.GetString("language"))
	if err != nil {
		return registry.Entity{}, registry.Entity{}, err
	}
	return platform, language, nil
}
