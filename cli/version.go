package cli

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/treestate/version"
	"github.com/spf13/cobra"
)

// SetVersionTemplate makes --version print the build details.
func SetVersionTemplate(cmd *cobra.Command, info version.Info) {
	cmd.Version = info.Version
	cmd.SetVersionTemplate(fmt.Sprintf(`{{.Name}} {{.Version}}
  Commit:    %s
  Built:     %s
  Platform:  %s
`, info.Commit, info.BuildDate, info.Platform))
}

// NewVersionCommand creates the version command.
func NewVersionCommand(componentName string, info version.Info) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: fmt.Sprintf("Print the version of %s", componentName),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if GetOptions(cmd).JSONOutput {
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			fmt.Fprintf(out, "%s %s\n", componentName, info.Version)
			fmt.Fprintf(out, "  Commit:    %s\n", info.Commit)
			fmt.Fprintf(out, "  Built:     %s\n", info.BuildDate)
			fmt.Fprintf(out, "  Go:        %s\n", info.GoVersion)
			fmt.Fprintf(out, "  Platform:  %s\n", info.Platform)
			return nil
		},
	}
}
