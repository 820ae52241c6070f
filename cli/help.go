package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/treestate/tui/theme"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const (
	maxHelpWidth = 60
	minWidth     = 40
)

// TerminalWidth returns the width of stdout, or fallback when stdout is not
// a terminal or is narrower than 40 columns.
func TerminalWidth(fallback int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < minWidth {
		return fallback
	}
	return width
}

// wrapText wraps text to width, preserving existing line breaks.
func wrapText(text string, width int) string {
	if width <= 0 {
		width = maxHelpWidth
	}

	var result []string
	for _, paragraph := range strings.Split(text, "\n") {
		if len(paragraph) <= width {
			result = append(result, paragraph)
			continue
		}
		var line string
		for _, word := range strings.Fields(paragraph) {
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) <= width:
				line += " " + word
			default:
				result = append(result, line)
				line = word
			}
		}
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}

// SetStyledHelp applies the themed help layout to cmd and, through
// inheritance, to its subcommands.
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(styledHelpFunc)
}

// PrintError prints a styled error with a help hint.
func PrintError(cmd *cobra.Command, err error) {
	t := theme.DefaultTheme
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", t.Error.Render("Error:"), err.Error())
	fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", t.Muted.Render(fmt.Sprintf("Run '%s --help' for usage.", cmd.CommandPath())))
}

// parseDescription splits a long description into text and examples.
func parseDescription(long string) (description string, examples string) {
	for _, marker := range []string{"\nExamples:\n", "\nExample:\n"} {
		if idx := strings.Index(long, marker); idx != -1 {
			return strings.TrimSpace(long[:idx]), strings.TrimSpace(long[idx+len(marker):])
		}
	}
	return long, ""
}

func styledHelpFunc(cmd *cobra.Command, _ []string) {
	writeHelp(cmd.OutOrStdout(), cmd, min(TerminalWidth(maxHelpWidth), maxHelpWidth)-2)
}

func writeHelp(out io.Writer, cmd *cobra.Command, width int) {
	t := theme.DefaultTheme
	section := lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Orange)
	name := lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Cyan)
	flagStyle := lipgloss.NewStyle().Foreground(t.Colors.Violet)

	fmt.Fprintln(out, " "+section.Render(strings.ToUpper(cmd.CommandPath())))

	description, examples := cmd.Short, ""
	if cmd.Long != "" {
		description, examples = parseDescription(cmd.Long)
	}
	if cmd.Short != "" {
		for _, line := range strings.Split(wrapText(cmd.Short, width), "\n") {
			fmt.Fprintln(out, " "+t.Muted.Render(line))
		}
	}
	if description != "" && description != cmd.Short {
		fmt.Fprintln(out)
		for _, line := range strings.Split(wrapText(description, width), "\n") {
			fmt.Fprintln(out, " "+line)
		}
	}

	if cmd.Runnable() || cmd.HasSubCommands() {
		fmt.Fprintln(out, "\n "+section.Render("USAGE"))
		if cmd.Runnable() {
			fmt.Fprintf(out, " %s\n", cmd.UseLine())
		}
		if cmd.HasSubCommands() {
			fmt.Fprintf(out, " %s [command]\n", cmd.CommandPath())
		}
	}

	if cmd.HasAvailableSubCommands() {
		maxLen := 0
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() && len(sub.Name()) > maxLen {
				maxLen = len(sub.Name())
			}
		}
		fmt.Fprintln(out, "\n "+section.Render("COMMANDS"))
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				padding := strings.Repeat(" ", maxLen-len(sub.Name()))
				fmt.Fprintf(out, " %s%s  %s\n", name.Render(sub.Name()), padding, sub.Short)
			}
		}
	}

	var flags []*pflag.Flag
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			flags = append(flags, f)
		}
	})
	if len(flags) > 0 {
		fmt.Fprintln(out, "\n "+section.Render("FLAGS"))
		maxLen := 0
		for _, f := range flags {
			maxLen = max(maxLen, len(formatFlagName(f)))
		}
		for _, f := range flags {
			flagStr := formatFlagName(f)
			usage := f.Usage
			if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "[]" {
				usage += t.Muted.Render(fmt.Sprintf(" (default: %s)", f.DefValue))
			}
			fmt.Fprintf(out, " %s%s  %s\n", flagStyle.Render(flagStr), strings.Repeat(" ", maxLen-len(flagStr)), usage)
		}
	}

	if cmd.Example != "" {
		examples = cmd.Example
	}
	if examples != "" {
		fmt.Fprintln(out, "\n "+section.Render("EXAMPLES"))
		for _, line := range strings.Split(examples, "\n") {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "#") {
				fmt.Fprintln(out, "   "+t.Muted.Render(trimmed))
			} else {
				fmt.Fprintln(out, "   "+trimmed)
			}
		}
	}

	if cmd.HasSubCommands() {
		fmt.Fprintf(out, "\n Use \"%s [command] --help\" for more information.\n", cmd.CommandPath())
	}
}

// formatFlagName returns "-f, --flag" or "    --flag".
func formatFlagName(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	}
	return fmt.Sprintf("    --%s", f.Name)
}
