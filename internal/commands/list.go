package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lyssieth/devenv/internal/output"
)

// ListCmd creates and returns the 'list' command, which prints every stored
// template key
func ListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}

			keys, err := a.store.List()
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				output.Info("No templates stored yet")
				output.Step("Add one with: devenv create <tool> <template-file>")
				return nil
			}

			width := 0
			for _, k := range keys {
				width = max(width, len(k.Tool))
			}
			for _, k := range keys {
				output.Plain(fmt.Sprintf("%-*s  %s-%s", width, k.Tool, k.Platform, k.Language))
			}
			return nil
		},
	}
}
