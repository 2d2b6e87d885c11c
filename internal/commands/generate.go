package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lyssieth/devenv/internal/generator"
	"github.com/lyssieth/devenv/internal/logger"
	"github.com/lyssieth/devenv/internal/output"
	"github.com/lyssieth/devenv/internal/registry"
	"github.com/lyssieth/devenv/internal/render"
)

// GenerateCmd creates and returns the 'generate' command, which renders
// stored templates into the working directory
func GenerateCmd() *cobra.Command {
	var force, skip, diff, dryRun bool

	cmd := &cobra.Command{
		Use:   "generate <tool>...",
		Short: "Write templates for one or more tools into the current directory",
		Long: `Render the stored template of each tool for the selected platform and
language and write it to the tool's file in the current directory.

When no template exists for the language, the platform's "any" template is
used instead. Unknown tools, platforms or languages stop the command before
anything is written. A tool without a template is reported and the other
tools are still generated.

Existing files with different content are handled by:
  --force   overwrite them
  --skip    keep them
  --diff    show the changes, then ask
Without a flag devenv asks; when not attached to a terminal it keeps them.

Examples:
  devenv generate docker drone
  devenv generate docker -l any --dry-run
  devenv generate drone --diff`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := generator.NewResolver(force, skip, diff)
			if err != nil {
				return err
			}
			return runGenerate(cmd, args, resolver, dryRun)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&skip, "skip", false, "Keep existing files")
	cmd.Flags().BoolVar(&diff, "diff", false, "Show a diff for existing files before deciding")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be written without writing")

	return cmd
}

func runGenerate(cmd *cobra.Command, toolNames []string, resolver *generator.Resolver, dryRun bool) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	platform, language, err := a.target()
	if err != nil {
		return err
	}
	tools := make([]registry.Tool, 0, len(toolNames))
	for _, name := range toolNames {
		tool, err := a.registry.FindTool(name)
		if err != nil {
			return err
		}
		tools = append(tools, tool)
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}
	project, err := render.ContextFromDir(wd)
	if err != nil {
		return err
	}
	output.Verbose(fmt.Sprintf("Project name: %s", project.Name))

	failed := 0
	var ops []generator.Operation
	for _, tool := range tools {
		content, err := renderTool(a, tool, platform, language, project)
		if err != nil {
			output.Error(fmt.Sprintf("%s: %v", tool.Name, err))
			failed++
			continue
		}
		ops = append(ops, &generator.WriteFileOp{
			Path:    filepath.Join(wd, tool.Filename),
			Content: []byte(content),
			Mode:    0o644,
		})
	}

	results, err := generator.Execute(cmd.Context(), ops, generator.ExecuteOptions{
		DryRun:   dryRun,
		Writer:   io.Discard,
		Resolver: resolver,
	})
	var cancelled []string
	for _, r := range results {
		if r.Outcome == generator.Cancelled {
			cancelled = append(cancelled, resultName(r))
			continue
		}
		if reportResult(r, dryRun) {
			failed++
		}
	}
	if errors.Is(err, generator.ErrCancelled) {
		return fmt.Errorf("%w: not written: %s", err, strings.Join(cancelled, ", "))
	}
	if err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d tools failed", failed, len(tools))
	}
	return nil
}

func renderTool(a *app, tool registry.Tool, platform, language registry.Entity, project render.Context) (string, error) {
	rec, err := a.store.Fetch(tool, platform, language)
	if err != nil {
		return "", err
	}
	if rec.Language.Name != language.Name {
		output.Verbose(fmt.Sprintf("Using %s-%s template for %s", rec.Platform.Name, rec.Language.Name, tool.Name))
	}

	content, err := render.Render(rec.Body, project)
	if err != nil {
		return "", err
	}
	a.log.Debug("rendered template", logger.F("key", rec.Key()), logger.F("bytes", len(content)))
	return content, nil
}

// reportResult prints one outcome and reports whether it was a failure.
func reportResult(r generator.Result, dryRun bool) bool {
	name := resultName(r)
	prefix := ""
	if dryRun {
		prefix = "[dry run] "
	}

	switch r.Outcome {
	case generator.Created:
		output.Success(prefix + "Created " + name)
	case generator.Overwritten:
		output.Success(prefix + "Overwrote " + name)
	case generator.Unchanged:
		output.Info(name + " is up to date")
	case generator.Skipped:
		output.Warn(fmt.Sprintf("Skipped %s (already exists, use --force to overwrite)", name))
	case generator.Failed:
		output.Error(fmt.Sprintf("%s: %v", name, r.Err))
		return true
	}
	return false
}

func resultName(r generator.Result) string {
	if op, ok := r.Op.(*generator.WriteFileOp); ok {
		return filepath.Base(op.Path)
	}
	return r.Op.Description()
}
