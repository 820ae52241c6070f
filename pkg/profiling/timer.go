// Package profiling times nested spans of a command run and prints them as
// a table on exit.
package profiling

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/grovetools/treestate/tui/components/table"
)

// Stopper ends a span.
type Stopper interface {
	Stop()
}

// span aggregates every run of one name under one parent.
type span struct {
	name     string
	calls    int
	total    time.Duration
	children []*span
}

func (s *span) child(name string) *span {
	for _, c := range s.children {
		if c.name == name {
			return c
		}
	}
	c := &span{name: name}
	s.children = append(s.children, c)
	return c
}

type running struct {
	p     *Profiler
	s     *span
	start time.Time
}

func (r *running) Stop() {
	r.p.end(r, time.Since(r.start))
}

// Profiler collects spans. Spans nest in the order they are started, so a
// Profiler is meant for one goroutine's call tree.
type Profiler struct {
	mu      sync.Mutex
	enabled bool
	started time.Time
	root    *span
	stack   []*span
}

// New returns an enabled profiler.
func New() *Profiler {
	p := &Profiler{}
	p.enable()
	return p
}

var defaultProfiler = &Profiler{}

// Enable turns on the process-wide profiler used by Start and Summarize.
func Enable() {
	defaultProfiler.enable()
}

// Enabled reports whether the process-wide profiler is on.
func Enabled() bool {
	defaultProfiler.mu.Lock()
	defer defaultProfiler.mu.Unlock()
	return defaultProfiler.enabled
}

// Reset turns the process-wide profiler off and drops its spans.
func Reset() {
	defaultProfiler.mu.Lock()
	defer defaultProfiler.mu.Unlock()
	defaultProfiler.enabled = false
	defaultProfiler.root = nil
	defaultProfiler.stack = nil
}

// Start begins a span on the process-wide profiler. It is a no-op while
// profiling is off.
func Start(name string) Stopper {
	return defaultProfiler.Start(name)
}

// Summarize writes the process-wide profile to w.
func Summarize(w io.Writer) {
	defaultProfiler.Summarize(w)
}

func (p *Profiler) enable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		return
	}
	p.enabled = true
	p.started = time.Now()
	p.root = &span{name: "total"}
	p.stack = []*span{p.root}
}

// Start begins a span nested in the innermost running one.
func (p *Profiler) Start(name string) Stopper {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return noop{}
	}
	s := p.stack[len(p.stack)-1].child(name)
	p.stack = append(p.stack, s)
	return &running{p: p, s: s, start: time.Now()}
}

func (p *Profiler) end(r *running, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r.s.calls++
	r.s.total += d
	for i := len(p.stack) - 1; i > 0; i-- {
		if p.stack[i] == r.s {
			p.stack = p.stack[:i]
			return
		}
	}
}

// Rows returns one row per span path: name indented by depth, calls,
// total time and share of the run.
func (p *Profiler) Rows() [][]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return nil
	}
	elapsed := time.Since(p.started)
	var rows [][]string
	var walk func(s *span, depth int)
	walk = func(s *span, depth int) {
		for _, c := range s.children {
			share := 0.0
			if elapsed > 0 {
				share = float64(c.total) / float64(elapsed) * 100
			}
			rows = append(rows, []string{
				strings.Repeat("  ", depth) + c.name,
				fmt.Sprintf("%d", c.calls),
				c.total.Round(100 * time.Microsecond).String(),
				fmt.Sprintf("%.1f%%", share),
			})
			walk(c, depth+1)
		}
	}
	walk(p.root, 0)
	return rows
}

// Summarize writes the spans as a table. Nothing is written while
// profiling is off.
func (p *Profiler) Summarize(w io.Writer) {
	rows := p.Rows()
	if rows == nil {
		return
	}
	fmt.Fprintln(w, table.SimpleTable([]string{"SPAN", "CALLS", "TIME", "SHARE"}, rows))
}

type noop struct{}

func (noop) Stop() {}
