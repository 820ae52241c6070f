package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/treestate/config"
)

const defaultThemeName = "dusk"

// Colors is the palette a theme is built from.
type Colors struct {
	Green     lipgloss.TerminalColor
	Yellow    lipgloss.TerminalColor
	Red       lipgloss.TerminalColor
	Orange    lipgloss.TerminalColor
	Cyan      lipgloss.TerminalColor
	Violet    lipgloss.TerminalColor
	Text      lipgloss.TerminalColor
	MutedText lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
}

// Theme holds the pre-configured styles used by the CLI, the demo and log output.
type Theme struct {
	Name   string
	Colors Colors

	Header lipgloss.Style
	Title  lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Bold   lipgloss.Style
	Muted  lipgloss.Style
	Accent lipgloss.Style

	// Rendered and Skipped mark gate outcomes in the demo and replay reports.
	Rendered lipgloss.Style
	Skipped  lipgloss.Style

	TableHeader lipgloss.Style
	TableBorder lipgloss.Style
	Box         lipgloss.Style
}

var palettes = map[string]func() Colors{
	"dusk": func() Colors {
		return Colors{
			Green:     lipgloss.AdaptiveColor{Light: "#3F7D4E", Dark: "#9CCF7A"},
			Yellow:    lipgloss.AdaptiveColor{Light: "#9A7B2F", Dark: "#F2C66D"},
			Red:       lipgloss.AdaptiveColor{Light: "#B3363B", Dark: "#F07178"},
			Orange:    lipgloss.AdaptiveColor{Light: "#B85E2D", Dark: "#F5A36B"},
			Cyan:      lipgloss.AdaptiveColor{Light: "#2F6F8F", Dark: "#7FC8E0"},
			Violet:    lipgloss.AdaptiveColor{Light: "#6A4C93", Dark: "#B39DDB"},
			Text:      lipgloss.AdaptiveColor{Light: "#2A2D3A", Dark: "#E3E1D8"},
			MutedText: lipgloss.AdaptiveColor{Light: "#6E7385", Dark: "#7C7A73"},
			Border:    lipgloss.AdaptiveColor{Light: "#B9C0CA", Dark: "#3B3C4A"},
		}
	},
	"terminal": func() Colors {
		return Colors{
			Green:     lipgloss.Color("2"),
			Yellow:    lipgloss.Color("3"),
			Red:       lipgloss.Color("1"),
			Orange:    lipgloss.Color("208"),
			Cyan:      lipgloss.Color("6"),
			Violet:    lipgloss.Color("5"),
			Text:      lipgloss.Color("7"),
			MutedText: lipgloss.Color("8"),
			Border:    lipgloss.Color("8"),
		}
	},
}

// DefaultTheme is resolved once from TREESTATE_THEME or the demo.theme setting.
var DefaultTheme = NewThemeWithName(getThemeName())

// NewThemeWithName builds a theme from a palette name. Unknown names fall
// back to the default palette.
func NewThemeWithName(name string) *Theme {
	key := normalizeThemeName(name)
	build, ok := palettes[key]
	if !ok {
		key = defaultThemeName
		build = palettes[key]
	}
	return newThemeFromColors(key, build())
}

// Names lists the available palettes.
func Names() []string {
	return []string{"dusk", "terminal"}
}

func newThemeFromColors(name string, c Colors) *Theme {
	return &Theme{
		Name:   name,
		Colors: c,

		Header: lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Title:  lipgloss.NewStyle().Bold(true).Underline(true),

		Success: lipgloss.NewStyle().Foreground(c.Green).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(c.Red).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(c.Yellow).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(c.Cyan).Bold(true),

		Bold:   lipgloss.NewStyle().Bold(true),
		Muted:  lipgloss.NewStyle().Faint(true),
		Accent: lipgloss.NewStyle().Foreground(c.Violet).Bold(true),

		Rendered: lipgloss.NewStyle().Foreground(c.Orange).Bold(true),
		Skipped:  lipgloss.NewStyle().Foreground(c.MutedText),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(c.Text).Padding(0, 1),
		TableBorder: lipgloss.NewStyle().Foreground(c.Border),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c.Border).
			Padding(0, 1),
	}
}

// RenderStatus renders text with the style matching status.
func RenderStatus(status, text string) string {
	switch status {
	case "success":
		return DefaultTheme.Success.Render(text)
	case "error":
		return DefaultTheme.Error.Render(text)
	case "warning":
		return DefaultTheme.Warning.Render(text)
	case "info":
		return DefaultTheme.Info.Render(text)
	default:
		return text
	}
}

func normalizeThemeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	return strings.ReplaceAll(normalized, "_", "-")
}

func getThemeName() string {
	if name := normalizeThemeName(os.Getenv("TREESTATE_THEME")); name != "" {
		return name
	}
	cfg, err := config.LoadDefault()
	if err != nil || cfg == nil {
		return defaultThemeName
	}
	if name := normalizeThemeName(cfg.Demo.Theme); name != "" {
		return name
	}
	return defaultThemeName
}
