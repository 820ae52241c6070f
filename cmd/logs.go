package cmd

import (
	"bufio"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/treestate/cli"
	"github.com/grovetools/treestate/config"
	"github.com/grovetools/treestate/logging"
	"github.com/grovetools/treestate/pkg/paths"
	"github.com/grovetools/treestate/tui"
	"github.com/grovetools/treestate/tui/components"
	"github.com/grovetools/treestate/tui/components/logviewer"
	"github.com/grovetools/treestate/tui/keymap"
	"github.com/grovetools/treestate/tui/theme"
	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"
)

// NewLogsCmd creates the `logs` command.
func NewLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the log file written by treestate",
		Long: `Prints the file configured under logging.file in treestate.yml. JSON lines,
as written by the json preset, are shown one entry per line.

Examples:
  # Print the last 20 lines
  treestate logs --tail 20

  # Follow the log in a scrolling view
  treestate logs -f -i`,
		Args: cobra.NoArgs,
		RunE: runLogsE,
	}
	cmd.Flags().BoolP("follow", "f", false, "Follow log output")
	cmd.Flags().Int("tail", -1, "Number of lines to show from the end of the log (default: all)")
	cmd.Flags().BoolP("tui", "i", false, "Show the log in an interactive pager")
	cmd.Flags().String("file", "", "Log file to read instead of the configured one")
	return cmd
}

func runLogsE(cmd *cobra.Command, args []string) error {
	cfg, _, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		var logCfg logging.Config
		if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
			return err
		}
		if !logCfg.File.Enabled {
			return fmt.Errorf("file logging is disabled; set logging.file.enabled or pass --file")
		}
		path = logCfg.File.Path
		if path == "" {
			path = paths.DefaultLogFile()
		}
	}
	if path, err = paths.Expand(path); err != nil {
		return err
	}

	follow, _ := cmd.Flags().GetBool("follow")
	interactive, _ := cmd.Flags().GetBool("tui")
	last, _ := cmd.Flags().GetInt("tail")

	if interactive {
		return runLogsTUI(cfg, path)
	}

	out := cmd.OutOrStdout()
	if err := printLastLines(out, path, last); err != nil {
		return err
	}
	if !follow {
		return nil
	}

	t, err := tail.TailFile(path, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		Logger:   stdlog.New(io.Discard, "", 0),
	})
	if err != nil {
		return fmt.Errorf("failed to follow %s: %w", path, err)
	}
	defer t.Cleanup()
	for line := range t.Lines {
		fmt.Fprintln(out, logviewer.FormatLine("", line.Text))
	}
	return t.Err()
}

func printLastLines(out io.Writer, path string, last int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if last >= 0 && len(lines) > last {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Fprintln(out, logviewer.FormatLine("", line))
	}
	return nil
}

type logsModel struct {
	viewer logviewer.Model
	help   help.Model
	path   string
}

func (m logsModel) Init() tea.Cmd { return nil }

func (m logsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keys := m.viewer.Keys()
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.viewer.Stop()
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		// Title and help line.
		msg.Height -= 2
		var cmd tea.Cmd
		m.viewer, cmd = m.viewer.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.viewer, cmd = m.viewer.Update(msg)
	return m, cmd
}

func (m logsModel) View() string {
	title := components.RenderHeader(m.path)
	if m.viewer.IsFollowing() {
		title += theme.DefaultTheme.Muted.Render("  following")
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, m.viewer.View(), m.help.View(m.viewer.Keys()))
}

func runLogsTUI(cfg *config.Config, path string) error {
	tui.InitializeTUI()
	viewer := logviewer.New(80, 22, 5000)
	viewer.SetKeys(keymap.NewLogsKeys(cfg))
	first, err := viewer.Tail(map[string]string{filepath.Base(path): path})
	if err != nil {
		return err
	}
	p := tea.NewProgram(logsModel{viewer: viewer, help: help.New(), path: path}, tea.WithAltScreen())
	go p.Send(first())
	_, err = p.Run()
	return err
}
