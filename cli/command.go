package cli

import (
	"os"

	"github.com/grovetools/treestate/config"
	"github.com/grovetools/treestate/errors"
	"github.com/grovetools/treestate/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommandOptions holds the persistent flags every treestate command accepts.
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a command with the standard flags.
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to treestate.yml config file")

	SetStyledHelp(cmd)
	return cmd
}

// GetLogger returns the CLI logger adjusted to the command's flags.
func GetLogger(cmd *cobra.Command) *logrus.Entry {
	entry := logging.NewLogger("treestate-cli")
	opts := GetOptions(cmd)
	if opts.Verbose {
		entry.Logger.SetLevel(logrus.DebugLevel)
	}
	if opts.JSONOutput {
		entry.Logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return entry
}

// GetOptions extracts the standard flags from a command.
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// InitConfig resolves the configuration file path: the --config flag when
// given, otherwise the nearest treestate.yml. An empty path means none was
// found, which is fine for most commands.
func InitConfig(configFile string) (string, error) {
	if configFile != "" {
		return configFile, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	found, err := config.FindConfigFile(cwd)
	if err != nil {
		return "", nil
	}
	return found, nil
}

// LoadConfig loads the configuration selected by the command's flags. With
// no file anywhere it returns the defaults and an empty path.
func LoadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, err := InitConfig(GetOptions(cmd).ConfigFile)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return config.Default(), "", nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, errors.ErrCodeConfigNotFound) && GetOptions(cmd).ConfigFile == "" {
			return config.Default(), "", nil
		}
		return nil, path, err
	}
	return cfg, path, nil
}
