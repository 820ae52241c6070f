// Package components holds small lipgloss renderers shared by the demo and
// the CLI reports.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/treestate/tui/theme"
)

// RenderHeader renders a title with an optional muted subtitle.
func RenderHeader(title string, subtitle ...string) string {
	t := theme.DefaultTheme
	header := t.Header.Render(title)
	if len(subtitle) > 0 && subtitle[0] != "" {
		return lipgloss.JoinVertical(lipgloss.Left, header, t.Muted.Render(subtitle[0]))
	}
	return header
}

// RenderDivider renders a horizontal rule.
func RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return theme.DefaultTheme.TableBorder.Render(strings.Repeat("─", width))
}

// RenderKeyValue renders "key: value" with a muted key.
func RenderKeyValue(key, value string) string {
	return fmt.Sprintf("%s %s", theme.DefaultTheme.Muted.Render(key+":"), value)
}

// RenderSection renders a titled, indented block.
func RenderSection(title, content string) string {
	t := theme.DefaultTheme
	body := lipgloss.NewStyle().MarginLeft(2).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, t.Bold.Render(title), body)
}

// RenderGateMarker renders the outcome of a gated render: a filled dot and
// the render count when the component ran, a hollow one when it was skipped.
func RenderGateMarker(rendered bool, renders int) string {
	t := theme.DefaultTheme
	if rendered {
		return t.Rendered.Render(fmt.Sprintf("● %d", renders))
	}
	return t.Skipped.Render(fmt.Sprintf("○ %d", renders))
}
