package replay

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/treestate/tui/components/table"
	"github.com/grovetools/treestate/tui/theme"
	"github.com/moby/patternmatcher"
)

// StepResult is what one step did.
type StepResult struct {
	Name string `json:"name"`
	// Version is the store version after the step.
	Version uint64 `json:"version"`
	// Notified counts deliveries to a direct store subscriber.
	Notified   int      `json:"notified"`
	Rendered   []string `json:"rendered"`
	Skipped    []string `json:"skipped"`
	Output     string   `json:"output"`
	Error      string   `json:"error,omitempty"`
	Mismatches []string `json:"mismatches,omitempty"`
}

// OK reports whether every expectation of the step held.
func (r StepResult) OK() bool {
	return len(r.Mismatches) == 0
}

// Report collects the results of a run.
type Report struct {
	Script   string       `json:"script"`
	Steps    []StepResult `json:"steps"`
	Failures int          `json:"failures"`
}

func (r *Report) add(step StepResult) {
	if !step.OK() {
		r.Failures++
	}
	r.Steps = append(r.Steps, step)
}

// Failed reports whether any expectation failed.
func (r *Report) Failed() bool {
	return r.Failures > 0
}

// Filter returns a copy of the report that only mentions components whose
// names match one of patterns, using .dockerignore-style globs ("todos/*",
// "**/item", "!footer"). Outputs and mismatches are kept as they are.
func (r *Report) Filter(patterns []string) (*Report, error) {
	if len(patterns) == 0 {
		return r, nil
	}
	pm, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, fmt.Errorf("invalid component pattern: %w", err)
	}
	keep := func(names []string) ([]string, error) {
		var out []string
		for _, name := range names {
			ok, err := pm.MatchesOrParentMatches(name)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, name)
			}
		}
		return out, nil
	}

	filtered := &Report{Script: r.Script, Failures: r.Failures}
	for _, step := range r.Steps {
		var err error
		if step.Rendered, err = keep(step.Rendered); err != nil {
			return nil, err
		}
		if step.Skipped, err = keep(step.Skipped); err != nil {
			return nil, err
		}
		filtered.Steps = append(filtered.Steps, step)
	}
	return filtered, nil
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

const (
	colStep = iota
	colNotified
	colRendered
	colSkipped
	colResult
)

// Table renders the report as a table at most width columns wide. A width
// of zero or less lets the table size itself.
func (r *Report) Table(width int) string {
	t := theme.DefaultTheme
	rows := make([][]string, 0, len(r.Steps))
	for _, step := range r.Steps {
		rows = append(rows, []string{
			step.Name,
			fmt.Sprintf("%d", step.Notified),
			strings.Join(step.Rendered, ", "),
			strings.Join(step.Skipped, ", "),
			result(step),
		})
	}

	b := table.NewBuilder().
		WithHeaders("STEP", "NOTIFIED", "RENDERED", "SKIPPED", "RESULT").
		WithRows(rows...).
		WithCellStyle(func(row, col int, base lipgloss.Style) lipgloss.Style {
			switch col {
			case colRendered:
				return base.Inherit(t.Rendered)
			case colSkipped:
				return base.Inherit(t.Skipped)
			case colResult:
				if row < len(r.Steps) && !r.Steps[row].OK() {
					return base.Inherit(t.Error)
				}
				return base.Inherit(t.Success)
			}
			return base
		})
	if width > 0 {
		b = b.WithWidth(width)
	}

	summary := t.Success.Render(fmt.Sprintf("%s: %d steps, all expectations met", r.Script, len(r.Steps)))
	if r.Failed() {
		summary = t.Error.Render(fmt.Sprintf("%s: %d of %d steps failed", r.Script, r.Failures, len(r.Steps)))
	}
	return b.String() + "\n" + summary
}

func result(step StepResult) string {
	switch {
	case !step.OK():
		return strings.Join(step.Mismatches, "; ")
	case step.Error != "":
		return "discarded: " + step.Error
	default:
		return "ok"
	}
}
