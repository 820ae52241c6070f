// Package tui runs a provider-rooted view tree as a bubbletea program.
package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/treestate/provider"
	"github.com/grovetools/treestate/tui/keymap"
	"github.com/grovetools/treestate/tui/theme"
	"github.com/grovetools/treestate/view"
	"github.com/muesli/termenv"
)

// InitializeTUI sets the lipgloss color profile to TrueColor when
// CLICOLOR_FORCE=1 or COLORTERM=truecolor, so output stays colored when
// stdout is not a terminal. Call it at the start of main.
func InitializeTUI() {
	if os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor" {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}

// ChangedMsg reports that the provider received a new snapshot.
type ChangedMsg struct {
	Value any
}

// WaitForChange returns a command that blocks until p signals a change.
// Changes that arrive while nobody waits are coalesced into one message.
func WaitForChange(p *provider.Provider) tea.Cmd {
	return func() tea.Msg {
		<-p.Changes()
		return ChangedMsg{Value: p.Snapshot()}
	}
}

// StatusMsg replaces the status line.
type StatusMsg string

// KeyHandler reacts to keys the model itself does not handle. The returned
// status is shown under the tree; an empty string keeps the previous one.
type KeyHandler func(msg tea.KeyMsg) (status string, cmd tea.Cmd)

// Model renders the children of a provider and re-renders them whenever the
// provider's store changes. The provider is mounted by New and unmounted
// when the program quits.
type Model struct {
	Title string
	Keys  help.KeyMap

	root     *provider.Provider
	quit     key.Binding
	showHelp key.Binding
	onKey    KeyHandler
	help     help.Model
	theme    *theme.Theme

	tree    string
	status  string
	width   int
	renders int
}

// Option configures a Model.
type Option func(*Model)

// WithTitle sets the header line.
func WithTitle(title string) Option {
	return func(m *Model) { m.Title = title }
}

// WithKeys sets the bindings shown in the help line and used for quit and
// help. keys may embed keymap.Base or carry extra bindings for onKey.
func WithKeys(keys help.KeyMap, base keymap.Base) Option {
	return func(m *Model) {
		m.Keys = keys
		m.quit = base.Quit
		m.showHelp = base.Help
	}
}

// WithKeyHandler installs the handler for application keys.
func WithKeyHandler(fn KeyHandler) Option {
	return func(m *Model) { m.onKey = fn }
}

// WithTheme overrides theme.DefaultTheme.
func WithTheme(t *theme.Theme) Option {
	return func(m *Model) { m.theme = t }
}

// New mounts root and returns a model rendering it.
func New(root *provider.Provider, opts ...Option) *Model {
	base := keymap.NewBase()
	m := &Model{
		Keys:     base,
		root:     root,
		quit:     base.Quit,
		showHelp: base.Help,
		help:     help.New(),
		theme:    theme.DefaultTheme,
	}
	for _, opt := range opts {
		opt(m)
	}
	root.Mount()
	m.render()
	return m
}

// Init starts waiting for store changes.
func (m *Model) Init() tea.Cmd {
	return WaitForChange(m.root)
}

// Update handles store changes, resizes and keys.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ChangedMsg:
		m.render()
		return m, WaitForChange(m.root)

	case StatusMsg:
		m.status = string(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.quit):
			m.root.Unmount()
			return m, tea.Quit
		case key.Matches(msg, m.showHelp):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if m.onKey == nil {
			return m, nil
		}
		status, cmd := m.onKey(msg)
		if status != "" {
			m.status = status
		}
		return m, cmd
	}
	return m, nil
}

// View draws the title, the last rendered tree, the status line and help.
func (m *Model) View() string {
	var b strings.Builder
	if m.Title != "" {
		b.WriteString(m.theme.Header.Render(m.Title))
		b.WriteString("\n")
	}
	tree := m.tree
	if m.width > 4 {
		tree = m.theme.Box.Width(m.width - 2).Render(tree)
	} else {
		tree = m.theme.Box.Render(tree)
	}
	b.WriteString(tree)
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.theme.Muted.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.Keys))
	return b.String()
}

// Tree returns the output of the latest render.
func (m *Model) Tree() string {
	return m.tree
}

// Renders counts how often the tree was rendered.
func (m *Model) Renders() int {
	return m.renders
}

func (m *Model) render() {
	m.tree = m.root.Render(view.Background(), nil)
	m.renders++
}
