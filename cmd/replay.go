package cmd

import (
	"fmt"

	"github.com/grovetools/treestate/cli"
	"github.com/grovetools/treestate/logging"
	"github.com/grovetools/treestate/replay"
	"github.com/grovetools/treestate/tui/components"
	"github.com/spf13/cobra"
)

// NewReplayCmd creates the `replay` command.
func NewReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <script>",
		Short: "Replay a scripted sequence of store updates",
		Long: `Builds a store from the script's initial state, connects one component per
entry under components, and applies every step in order. After each step the
tree is rendered and the command reports which components re-rendered and
which were skipped because their selected props did not change.

Steps may list expectations; the command fails when any of them is not met.

Examples:
  # Replay and print the report
  treestate replay todos.yml

  # Include the rendered tree after each step
  treestate replay todos.yml --tree

  # Report only on components matching a pattern
  treestate replay todos.yml --only 'list*' --only '!list/footer'`,
		Args: cobra.ExactArgs(1),
		RunE: runReplayE,
	}
	cmd.Flags().StringSlice("only", nil, "Component name patterns to report on")
	cmd.Flags().Bool("tree", false, "Print the rendered tree after each step")
	cmd.Flags().Bool("debug", false, "Trace store updates and notifications")
	cmd.Flags().Int("width", 0, "Report width (default: terminal width)")
	return cmd
}

func runReplayE(cmd *cobra.Command, args []string) error {
	cfg, _, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}
	script, err := replay.Load(args[0])
	if err != nil {
		return err
	}

	debug, _ := cmd.Flags().GetBool("debug")
	logger := cli.GetLogger(cmd)
	if debug || cfg.Debug {
		// Tracing goes to stderr even on a terminal.
		logger = logging.New("treestate.replay", logging.Config{
			Format: logging.FormatConfig{Preset: "simple", StructuredToStderr: "always"},
		})
	}

	runner := replay.NewRunner(script, replay.Options{
		Logger:         logger,
		Debug:          debug || cfg.Debug,
		CheckSelectors: cfg.Dev.CheckSelectors,
	})
	report := runner.Run()
	runner.Close()

	only, _ := cmd.Flags().GetStringSlice("only")
	shown, err := report.Filter(only)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cli.GetOptions(cmd).JSONOutput {
		data, err := shown.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, data)
	} else {
		width, _ := cmd.Flags().GetInt("width")
		if width <= 0 {
			width = cli.TerminalWidth(0)
		}
		if tree, _ := cmd.Flags().GetBool("tree"); tree {
			for _, step := range shown.Steps {
				fmt.Fprintln(out, components.RenderSection(step.Name, step.Output))
			}
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, shown.Table(width))
	}

	if report.Failed() {
		return fmt.Errorf("%d of %d steps did not meet their expectations", report.Failures, len(report.Steps))
	}
	return nil
}
