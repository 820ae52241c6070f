// Package logviewer shows a scrolling pane of log lines, fed either by
// tailing files or by a StreamWriter.
package logviewer

import (
	"encoding/json"
	"fmt"
	"io"
	stdlog "log"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/treestate/tui/keymap"
	"github.com/grovetools/treestate/tui/theme"
	"github.com/grovetools/treestate/tui/utils/scrollbar"
	"github.com/hpcloud/tail"
)

// LogLineMsg carries one log line.
type LogLineMsg struct {
	Source string
	Line   string
}

// Model is the log pane.
type Model struct {
	viewport viewport.Model
	keys     keymap.LogsKeys
	follow   bool
	ready    bool
	maxLines int
	lines    []string

	mu    *sync.Mutex
	tails []*tail.Tail
	feed  chan LogLineMsg
}

// New creates a log pane of the given size. It keeps at most maxLines
// lines; zero means unlimited.
func New(width, height, maxLines int) Model {
	m := Model{
		viewport: viewport.New(width-1, height),
		follow:   true,
		maxLines: maxLines,
		mu:       &sync.Mutex{},
		feed:     make(chan LogLineMsg, 100),
	}
	m.ready = width > 1 && height > 0
	m.SetKeys(keymap.NewLogsKeys(nil))
	return m
}

// SetKeys replaces the pane's bindings.
func (m *Model) SetKeys(k keymap.LogsKeys) {
	m.keys = k
	m.viewport.KeyMap = k.Viewport()
}

// Keys returns the pane's bindings.
func (m Model) Keys() keymap.LogsKeys {
	return m.keys
}

// Tail follows files, keyed by the source name shown beside each line. The
// returned command delivers the first line; Update re-arms it.
func (m *Model) Tail(files map[string]string) (tea.Cmd, error) {
	m.Stop()
	m.mu.Lock()
	defer m.mu.Unlock()

	for source, path := range files {
		t, err := tail.TailFile(path, tail.Config{
			Follow:   true,
			ReOpen:   true,
			Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekStart},
			Logger:   stdlog.New(io.Discard, "", 0),
		})
		if err != nil {
			return nil, fmt.Errorf("tail %s: %w", path, err)
		}
		m.tails = append(m.tails, t)

		go func(source string, t *tail.Tail) {
			for line := range t.Lines {
				m.feed <- LogLineMsg{Source: source, Line: line.Text}
			}
		}(source, t)
	}
	return m.waitForLine(), nil
}

// Stop halts all tailing.
func (m *Model) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tails {
		_ = t.Stop()
	}
	m.tails = nil
}

func (m *Model) waitForLine() tea.Cmd {
	feed := m.feed
	return func() tea.Msg {
		return <-feed
	}
}

// Lines returns the formatted lines held by the pane.
func (m Model) Lines() []string {
	return m.lines
}

// IsFollowing reports whether the pane sticks to the newest line.
func (m Model) IsFollowing() bool {
	return m.follow
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles resizes, new lines and the follow toggle.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width - 1
		m.viewport.Height = msg.Height
		m.ready = msg.Width > 1 && msg.Height > 0
		m.setContent()
	case LogLineMsg:
		m.lines = append(m.lines, FormatLine(msg.Source, msg.Line))
		if m.maxLines > 0 && len(m.lines) > m.maxLines {
			m.lines = m.lines[len(m.lines)-m.maxLines:]
		}
		m.setContent()
		if len(m.tails) > 0 {
			cmds = append(cmds, m.waitForLine())
		}
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.ToggleFollow):
			m.follow = !m.follow
			if m.follow {
				m.viewport.GotoBottom()
			}
		case key.Matches(msg, m.keys.GotoTop):
			m.follow = false
			m.viewport.GotoTop()
		case key.Matches(msg, m.keys.GotoEnd):
			m.follow = true
			m.viewport.GotoBottom()
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) setContent() {
	if !m.ready {
		return
	}
	wrap := lipgloss.NewStyle().Width(max(m.viewport.Width, 1))
	wrapped := make([]string, len(m.lines))
	for i, line := range m.lines {
		wrapped[i] = wrap.Render(line)
	}
	m.viewport.SetContent(strings.Join(wrapped, "\n"))
	if m.follow {
		m.viewport.GotoBottom()
	}
}

// View renders the pane with its scrollbar.
func (m Model) View() string {
	if !m.ready {
		return ""
	}
	return scrollbar.Overlay(&m.viewport)
}

// FormatLine renders a raw line. JSON lines written by the json logging
// preset are shown as "time [source] LEVEL: msg"; anything else is shown
// as is, prefixed by its source when one is set.
func FormatLine(source, line string) string {
	t := theme.DefaultTheme

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		if source == "" {
			return line
		}
		return fmt.Sprintf("[%s] %s", t.Accent.Render(source), line)
	}

	msg, _ := entry["msg"].(string)
	level, _ := entry["level"].(string)
	ts, _ := entry["time"].(string)

	var parts []string
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err == nil {
		parts = append(parts, parsed.Format("15:04:05"))
	}
	if source != "" {
		parts = append(parts, fmt.Sprintf("[%s]", t.Accent.Render(source)))
	}

	levelStyle := t.Info
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		levelStyle = t.Error
	case "warning":
		levelStyle = t.Warning
	}
	parts = append(parts, levelStyle.Render(strings.ToUpper(level))+":", msg)
	if component, ok := entry["component"].(string); ok {
		parts = append(parts, t.Muted.Render(component))
	}
	return strings.Join(parts, " ")
}
