package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lyssieth/devenv/internal/output"
	"github.com/lyssieth/devenv/internal/record"
	"github.com/lyssieth/devenv/internal/render"
)

// CreateCmd creates and returns the 'create' command, which stores a
// template file under a tool, platform and language
func CreateCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "create <tool> <template-file>",
		Short: "Store a template for a tool",
		Long: `Store the contents of a file as the template for a tool on the selected
platform and language. An existing template for the same key is replaced.

Use --language any to store a template that serves every language on the
platform that has no template of its own.

Examples:
  devenv create docker ./Dockerfile
  devenv create drone .drone.yml -p x64 -l rs
  devenv create just justfile -l any --check`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args[0], args[1], check)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Reject templates with malformed placeholders")

	return cmd
}

func runCreate(cmd *cobra.Command, toolName, file string, check bool) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	tool, err := a.registry.FindTool(toolName)
	if err != nil {
		return err
	}
	platform, language, err := a.target()
	if err != nil {
		return err
	}

	body, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading template %s: %w", file, err)
	}
	if check {
		if err := render.Check(string(body)); err != nil {
			output.Step("Known placeholders: {" + strings.Join(render.Placeholders(), "}, {") + "}")
			output.Step(`Write \{ and \} for literal braces`)
			return fmt.Errorf("%s: %w", file, err)
		}
	}

	rec := record.Record{
		Language: language,
		Platform: platform,
		Tool:     tool,
		Body:     string(body),
	}
	if err := a.store.Create(rec); err != nil {
		return err
	}

	output.Success(fmt.Sprintf("Stored %s template for %s-%s", tool.Name, platform.Name, language.Name))
	output.Verbose(a.store.Path(rec.Key()))
	return nil
}
