// Package cmd implements the treestate command line.
package cmd

import (
	"github.com/grovetools/treestate/cli"
	"github.com/grovetools/treestate/pkg/profiling"
	"github.com/grovetools/treestate/version"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the treestate command tree.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand(
		"treestate",
		"Global state container for component trees",
	)
	root.Long = `treestate keeps one immutable snapshot per store, notifies subscribers on
every update and re-renders only the connected components whose selected
props changed. These commands replay scripted scenarios, run an interactive
demo and inspect the configuration.

Examples:
  # Replay a scenario and show which components re-rendered
  treestate replay testdata/todos.yml

  # Only report on the list components
  treestate replay testdata/todos.yml --only 'list*'

  # Time every step
  treestate replay testdata/todos.yml --timing

  # Try the interactive demo
  treestate demo`
	root.SilenceUsage = true
	root.SilenceErrors = true
	cli.SetVersionTemplate(root, version.GetInfo())
	profiling.NewCobraProfiler().Attach(root)

	root.AddCommand(NewReplayCmd())
	root.AddCommand(NewDemoCmd())
	root.AddCommand(NewSchemaCmd())
	root.AddCommand(NewConfigCmd())
	root.AddCommand(NewLogsCmd())
	root.AddCommand(cli.NewVersionCommand("treestate", version.GetInfo()))
	return root
}

// Execute runs the command tree and reports errors through cli.ErrorHandler.
func Execute(args []string) error {
	root := NewRootCmd()
	root.SetArgs(args)
	cmd, err := root.ExecuteC()
	if err != nil {
		verbose := cmd != nil && cli.GetOptions(cmd).Verbose
		return cli.NewErrorHandler(verbose, root.ErrOrStderr()).Handle(err)
	}
	return nil
}
