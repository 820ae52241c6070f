package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/grovetools/treestate/config"
)

// Base contains the keybindings shared by treestate TUIs.
type Base struct {
	Up   key.Binding
	Down key.Binding

	Confirm key.Binding
	Delete  key.Binding
	Refresh key.Binding

	Help key.Binding
	Quit key.Binding
}

// NewBase creates a new Base keymap with the default (vim style) bindings.
func NewBase() Base {
	return DefaultVim()
}

// DefaultVim returns the default vim-style keymap.
func DefaultVim() Base {
	return Base{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// DefaultArrows returns a keymap without letter navigation.
func DefaultArrows() Base {
	base := DefaultVim()
	base.Up = key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "up"),
	)
	base.Down = key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "down"),
	)
	base.Delete = key.NewBinding(
		key.WithKeys("delete", "backspace"),
		key.WithHelp("del", "delete"),
	)
	return base
}

// Config is the "keys" extension of treestate.yml:
//
//	keys:
//	  preset: arrows
//	  overrides:
//	    quit: ["Q", "ctrl+c"]
type Config struct {
	Preset    string    `yaml:"preset"`
	Overrides Overrides `yaml:"overrides"`
}

// Load builds a keymap from the preset named in cfg and applies its global
// overrides. A nil config or a missing extension yields DefaultVim.
func Load(cfg *config.Config) Base {
	if cfg == nil {
		return DefaultVim()
	}
	var keys Config
	if err := cfg.UnmarshalExtension("keys", &keys); err != nil {
		return DefaultVim()
	}

	var base Base
	switch keys.Preset {
	case "arrows":
		base = DefaultArrows()
	default:
		base = DefaultVim()
	}
	ApplyOverrides(&base, keys.Overrides)
	return base
}

// ShortHelp returns the bindings shown in the one-line help view.
func (k Base) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// Sections groups all bindings for the full help view.
func (k Base) Sections() []Section {
	return []Section{
		NavigationSection(k.Up, k.Down),
		StoreSection(k.Confirm, k.Delete, k.Refresh),
		SystemSection(k.Help, k.Quit),
	}
}

// FullHelp returns the bindings for the full help view, one column per section.
func (k Base) FullHelp() [][]key.Binding {
	return SectionsToColumns(k.Sections())
}

// SectionsToColumns flattens sections into help columns, skipping empty ones.
func SectionsToColumns(sections []Section) [][]key.Binding {
	var result [][]key.Binding
	for _, s := range sections {
		if s.IsEmpty() {
			continue
		}
		result = append(result, s.FilterEnabled())
	}
	return result
}
