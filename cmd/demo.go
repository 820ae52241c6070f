package cmd

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/treestate/cli"
	"github.com/grovetools/treestate/config"
	"github.com/grovetools/treestate/logging"
	"github.com/grovetools/treestate/tui"
	"github.com/grovetools/treestate/tui/components"
	"github.com/grovetools/treestate/tui/components/logviewer"
	"github.com/grovetools/treestate/tui/theme"
	"github.com/spf13/cobra"
)

// NewDemoCmd creates the `demo` command.
func NewDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run an interactive counter and todo list built on treestate",
		Long: `Opens a terminal UI whose counter, todo list and summary are connected
components reading one store. The bottom line shows, per component, whether
the last update re-rendered it (●) or was skipped by its gate (○).

Press t to trace store updates into the log pane. Editing debug in
treestate.yml while the demo runs toggles tracing as well.`,
		Args: cobra.NoArgs,
		RunE: runDemoE,
	}
}

// configReloadedMsg reports a configuration change picked up by the watcher.
type configReloadedMsg struct {
	debug bool
}

type demoModel struct {
	app  *demoApp
	ui   *tui.Model
	logs logviewer.Model
}

func (m *demoModel) Init() tea.Cmd {
	return m.ui.Init()
}

func (m *demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case logviewer.LogLineMsg:
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return m, cmd
	case configReloadedMsg:
		_, cmd := m.ui.Update(tui.StatusMsg("config reloaded, tracing " + onOff(msg.debug)))
		return m, cmd
	case tea.WindowSizeMsg:
		m.logs, _ = m.logs.Update(tea.WindowSizeMsg{Width: msg.Width, Height: 6})
	}
	_, cmd := m.ui.Update(msg)
	return m, cmd
}

func (m *demoModel) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.ui.View(),
		components.RenderDivider(lipgloss.Width(m.ui.Tree())),
		m.logs.View(),
	)
}

func runDemoE(cmd *cobra.Command, args []string) error {
	cfg, path, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}
	tui.InitializeTUI()

	logger := logging.New("treestate.demo", logging.Config{
		Format: logging.FormatConfig{Preset: "simple", StructuredToStderr: "always"},
	})
	app := newDemoApp(cfg, logger)

	ui := tui.New(app.root,
		tui.WithTitle(cfg.Demo.Title),
		tui.WithKeys(app.keys, app.keys.Base),
		tui.WithKeyHandler(app.handleKey),
		tui.WithTheme(theme.NewThemeWithName(cfg.Demo.Theme)),
	)
	model := &demoModel{app: app, ui: ui, logs: logviewer.New(80, 6, 200)}
	p := tea.NewProgram(model, tea.WithAltScreen())

	logging.SetGlobalOutput(logviewer.NewStreamWriter(p.Send, ""))
	defer logging.SetGlobalOutput(os.Stderr)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if path != "" {
		w, err := config.NewWatcher(path, config.DefaultDebounce, logger, func(next *config.Config) {
			app.store.SetDebug(next.Debug)
			p.Send(configReloadedMsg{debug: next.Debug})
		})
		if err != nil {
			logger.WithError(err).Warn("config watcher disabled")
		} else {
			go w.Start(ctx)
		}
	}

	_, err = p.Run()
	return err
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
