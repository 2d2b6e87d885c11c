// Package devenv stores project scaffolding templates and regenerates them
// for new projects.
package devenv

// Version is the current devenv release.
const Version = "0.3.0"
