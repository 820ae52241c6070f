// Package scrollbar draws a one-column scrollbar beside a viewport.
package scrollbar

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/grovetools/treestate/tui/theme"
)

const (
	thumb = "█"
	track = "░"
)

// Generate returns one scrollbar cell per line for a column of the given height.
func Generate(vp *viewport.Model, height int) []string {
	if height <= 0 {
		return []string{}
	}
	muted := theme.DefaultTheme.Muted
	cells := make([]string, height)

	total := vp.TotalLineCount()
	if total == 0 {
		for i := range cells {
			cells[i] = " "
		}
		return cells
	}
	if total <= vp.Height {
		for i := range cells {
			cells[i] = muted.Render(thumb)
		}
		return cells
	}

	thumbSize := max(1, height*vp.Height/total)
	percent := min(max(vp.ScrollPercent(), 0), 1)
	maxStart := height - thumbSize
	start := min(max(int(float64(maxStart)*percent+0.5), 0), maxStart)

	for i := range cells {
		if i >= start && i < start+thumbSize {
			cells[i] = muted.Render(thumb)
		} else {
			cells[i] = muted.Render(track)
		}
	}
	return cells
}

// Overlay returns the visible viewport content with the scrollbar appended
// to each line.
func Overlay(vp *viewport.Model) string {
	lines := strings.Split(vp.View(), "\n")
	cells := Generate(vp, len(lines))
	for i := range lines {
		lines[i] += cells[i]
	}
	return strings.Join(lines, "\n")
}
