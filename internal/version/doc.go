// Package version exposes build metadata (semantic version, commit, build
// time) injected via ldflags, and attaches a `version` subcommand to the
// medhealthd CLI.
package version
