package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/treestate/cli"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the `config` command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Loads treestate.yml (or treestate.toml) from --config or the nearest parent
directory, applies defaults and environment overrides, validates it and
prints the result. Without any file the defaults are printed.`,
		Args: cobra.NoArgs,
		RunE: runConfigE,
	}
	cmd.Flags().String("format", "yaml", "Output format: yaml, toml")
	return cmd
}

func runConfigE(cmd *cobra.Command, args []string) error {
	cfg, path, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if cli.GetOptions(cmd).JSONOutput {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	format, _ := cmd.Flags().GetString("format")
	var data []byte
	switch format {
	case "yaml":
		data, err = cfg.YAML()
	case "toml":
		data, err = cfg.TOML()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}

	if path != "" {
		fmt.Fprintf(out, "# Source: %s\n", path)
	} else {
		fmt.Fprintln(out, "# Source: defaults")
	}
	fmt.Fprint(out, string(data))
	return nil
}
