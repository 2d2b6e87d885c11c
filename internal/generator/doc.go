// Package generator writes rendered templates into a project directory.
//
// Existing files are never replaced silently. A Resolver decides per file,
// following the --force, --skip and --diff flags or asking interactively:
//
//	resolver, err := generator.NewResolver(force, skip, diff)
//	results, err := generator.Execute(ctx, ops, generator.ExecuteOptions{
//		Resolver: resolver,
//	})
//
// Files whose content already matches are reported Unchanged and left
// alone.
package generator
