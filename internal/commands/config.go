package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lyssieth/devenv/internal/config"
	"github.com/lyssieth/devenv/internal/input"
	"github.com/lyssieth/devenv/internal/output"
)

// ConfigCmd creates and returns the 'config' command group
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or reset the tool, platform and language definitions",
	}

	cmd.AddCommand(configPathCmd())
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configRegenerateCmd())

	return cmd
}

func configPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the location of config.yml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := dataRoot()
			if err != nil {
				return err
			}
			output.Plain(config.Path(root))
			return nil
		},
	}
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the loaded configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(a.config)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			output.Verbose(a.configPath)
			output.Plain(strings.TrimRight(string(data), "\n"))
			return nil
		},
	}
}

func configRegenerateCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "regenerate",
		Short: "Replace config.yml with the built-in default",
		Long: `Replace config.yml with the built-in default definitions. Stored
templates are not touched, but templates for tools you defined yourself can
no longer be generated until you add those tools again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := dataRoot()
			if err != nil {
				return err
			}
			path := config.Path(root)

			if _, err := os.Stat(path); err == nil && !yes {
				p := input.New(cmd.InOrStdin(), cmd.OutOrStdout())
				if !p.Confirm(fmt.Sprintf("Overwrite %s with the default config?", path), false) {
					output.Info("Kept existing config")
					return nil
				}
			}

			if err := config.Default().Save(path); err != nil {
				return err
			}
			output.Success(fmt.Sprintf("Wrote default config to %s", path))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Overwrite without asking")

	return cmd
}
