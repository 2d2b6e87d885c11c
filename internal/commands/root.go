package commands

import (
	"github.com/spf13/cobra"

	"github.com/lyssieth/devenv"
	"github.com/lyssieth/devenv/internal/output"
)

const (
	defaultPlatform = "x86"
	defaultLanguage = "rust"
)

// RootCmd creates and returns the root command for the devenv CLI
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "devenv",
		Short: "Store project templates once, generate them everywhere",
		Long: `devenv keeps reusable project files (Dockerfiles, CI pipelines, task
runners) keyed by tool, platform and language, and writes them into new
projects with the project name filled in.

Templates may use these placeholders:
  {ProjectName}                     directory name of the project
  {ProjectName_DashesToUnderscores} the same with '-' replaced by '_'
  {ProjectName_Lowercase}           the same, lowercased

Tools, platforms and languages are defined in config.yml under the data
root ($DEVENV_ROOT, or your user config directory). Run 'devenv config path'
to find it.`,
		Version:       devenv.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	flags.StringP("platform", "p", defaultPlatform, "Platform name or alias (env DEVENV_PLATFORM)")
	flags.StringP("language", "l", defaultLanguage, "Language name or alias, or \"any\" (env DEVENV_LANGUAGE)")

	return cmd
}
