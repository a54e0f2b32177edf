// Package cli implements the quadplan command-line interface.
//
// This package provides commands for inspecting the built-in 4C catalog,
// scaffolding and validating project files, renumbering doors, browsing a
// project interactively, and serving the JSON API. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - catalog: List door types and frame models
//   - new: Scaffold a project file
//   - validate: Check a project file for save-readiness
//   - number: Renumber or reset door labels in a project file
//   - inspect: Browse a project file in an interactive TUI
//   - serve: Serve a project over the JSON API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with
// values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the quadplan CLI and returns an error if any command fails.
//
// The function sets up the root command with all subcommands, configures
// logging based on the --verbose flag, and executes the command tree. The
// logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "quadplan",
		Short:        "QuadPlan lays out 4C mailbox walls",
		Long:         `QuadPlan is the state and layout engine for 4C mailbox configurations: place cabinet frames along walls and levels, rearrange and substitute doors under physical packing rules, and assign sequential tenant and parcel numbers.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("quadplan %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newCatalogCmd())
	root.AddCommand(newNewCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newNumberCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}
