package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/grovetools/treestate/config"
)

// LogsKeys defines the bindings of the log viewer.
type LogsKeys struct {
	Base
	PageUp       key.Binding
	PageDown     key.Binding
	HalfUp       key.Binding
	HalfDown     key.Binding
	GotoTop      key.Binding
	GotoEnd      key.Binding
	ToggleFollow key.Binding
}

// NewLogsKeys returns the log viewer bindings for cfg, which may be nil.
func NewLogsKeys(cfg *config.Config) LogsKeys {
	k := LogsKeys{
		Base: Load(cfg),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		HalfUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "half page up"),
		),
		HalfDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "half page down"),
		),
		GotoTop: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		GotoEnd: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to end"),
		),
		ToggleFollow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "toggle follow"),
		),
	}
	if cfg != nil {
		var keys Config
		if err := cfg.UnmarshalExtension("keys", &keys); err == nil {
			ApplyOverrides(&k, keys.Overrides)
		}
	}
	return k
}

// Viewport maps the scrolling bindings onto a viewport key map.
func (k LogsKeys) Viewport() viewport.KeyMap {
	return viewport.KeyMap{
		Up:           k.Up,
		Down:         k.Down,
		PageUp:       k.PageUp,
		PageDown:     k.PageDown,
		HalfPageUp:   k.HalfUp,
		HalfPageDown: k.HalfDown,
		Left:         key.NewBinding(key.WithDisabled()),
		Right:        key.NewBinding(key.WithDisabled()),
	}
}

func (k LogsKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleFollow, k.GotoEnd, k.Help, k.Quit}
}

func (k LogsKeys) Sections() []Section {
	return []Section{
		NavigationSection(k.Up, k.Down, k.PageUp, k.PageDown, k.HalfUp, k.HalfDown, k.GotoTop, k.GotoEnd),
		LogsSection(k.ToggleFollow),
		SystemSection(k.Help, k.Quit),
	}
}

func (k LogsKeys) FullHelp() [][]key.Binding {
	return SectionsToColumns(k.Sections())
}
