// Package table builds lipgloss tables in the treestate theme.
package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/treestate/tui/theme"
)

// Options configures a table.
type Options struct {
	Bordered bool
	// Width, when positive, makes the table fill exactly that many columns.
	Width int
	Theme *theme.Theme
	// CellStyle, when set, styles individual data cells. row is 0-based.
	CellStyle func(row, col int, base lipgloss.Style) lipgloss.Style
}

// DefaultOptions returns the default table options.
func DefaultOptions() Options {
	return Options{
		Bordered: true,
		Theme:    theme.DefaultTheme,
	}
}

// Builder provides a fluent interface for creating styled tables.
type Builder struct {
	headers []string
	rows    [][]string
	options Options
}

// NewBuilder creates a new table builder.
func NewBuilder() *Builder {
	return &Builder{options: DefaultOptions()}
}

// WithTheme sets the theme.
func (b *Builder) WithTheme(t *theme.Theme) *Builder {
	b.options.Theme = t
	return b
}

// WithBorder enables or disables the border.
func (b *Builder) WithBorder(bordered bool) *Builder {
	b.options.Bordered = bordered
	return b
}

// WithWidth sets the total table width.
func (b *Builder) WithWidth(width int) *Builder {
	b.options.Width = width
	return b
}

// WithCellStyle installs a per-cell style hook.
func (b *Builder) WithCellStyle(fn func(row, col int, base lipgloss.Style) lipgloss.Style) *Builder {
	b.options.CellStyle = fn
	return b
}

// WithHeaders sets the table headers.
func (b *Builder) WithHeaders(headers ...string) *Builder {
	b.headers = headers
	return b
}

// WithRows appends rows.
func (b *Builder) WithRows(rows ...[]string) *Builder {
	b.rows = append(b.rows, rows...)
	return b
}

// Build creates the styled table.
func (b *Builder) Build() *ltable.Table {
	opts := b.options
	if opts.Theme == nil {
		opts.Theme = theme.DefaultTheme
	}
	t := opts.Theme

	table := ltable.New().Headers(b.headers...).Rows(b.rows...)
	if opts.Bordered {
		table = table.
			Border(lipgloss.RoundedBorder()).
			BorderStyle(t.TableBorder)
	} else {
		table = table.
			BorderTop(false).BorderBottom(false).
			BorderLeft(false).BorderRight(false).
			BorderHeader(false).BorderColumn(false)
	}
	if opts.Width > 0 {
		table = table.Width(opts.Width)
	}

	return table.StyleFunc(func(row, col int) lipgloss.Style {
		if row == ltable.HeaderRow {
			return t.TableHeader
		}
		style := lipgloss.NewStyle().Padding(0, 1)
		if opts.CellStyle != nil {
			style = opts.CellStyle(row, col, style)
		}
		return style
	})
}

// String renders the table.
func (b *Builder) String() string {
	return b.Build().String()
}

// SimpleTable creates a basic bordered table.
func SimpleTable(headers []string, rows [][]string) string {
	return NewBuilder().WithHeaders(headers...).WithRows(rows...).String()
}

// StatusTable renders label/value pairs without borders.
func StatusTable(items [][]string) string {
	var rows [][]string
	for _, item := range items {
		if len(item) >= 2 {
			rows = append(rows, []string{theme.DefaultTheme.Muted.Render(item[0] + ":"), item[1]})
		}
	}
	return NewBuilder().WithBorder(false).WithRows(rows...).String()
}

// SelectableTable renders a bordered table with a marker left of the
// selected data row. A negative index selects nothing.
func SelectableTable(headers []string, rows [][]string, selectedIndex int) string {
	lines := strings.Split(SimpleTable(headers, rows), "\n")

	// Top border, then header and its separator when present.
	first := 1
	if len(headers) > 0 {
		first = 3
	}
	selected := -1
	if selectedIndex >= 0 {
		selected = first + selectedIndex
	}

	marker := theme.DefaultTheme.Accent.Render(">")
	for i, line := range lines {
		if i == selected {
			lines[i] = marker + " " + line
		} else {
			lines[i] = "  " + line
		}
	}
	return strings.Join(lines, "\n")
}
