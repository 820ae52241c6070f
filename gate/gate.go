// Package gate suppresses re-renders whose inputs did not change.
package gate

import (
	"github.com/grovetools/treestate/shallow"
	"github.com/grovetools/treestate/view"
)

// Gate remembers the inputs and output of the last render of one component
// instance. The zero value is ready to use. A Gate belongs to a single
// placement in the tree and is not safe for concurrent use.
type Gate struct {
	rendered bool
	parent   view.Props
	computed view.Props
	output   string

	renders int
	skips   int
}

// ShouldRender reports whether parent or computed differ, by shallow
// comparison, from the inputs of the previous render.
func (g *Gate) ShouldRender(parent, computed view.Props) bool {
	if !g.rendered {
		return true
	}
	return !shallow.Equal(g.parent, parent) || !shallow.Equal(g.computed, computed)
}

// Render renders child with computed overlaid by parent, unless both prop
// sets are shallow-equal to last time, in which case the previous output is
// returned untouched.
func (g *Gate) Render(ctx *view.Context, child view.Component, parent, computed view.Props) string {
	if !g.ShouldRender(parent, computed) {
		g.skips++
		return g.output
	}

	g.output = child.Render(ctx, view.Merge(computed, parent))
	g.parent, g.computed = parent, computed
	g.rendered = true
	g.renders++
	return g.output
}

// Renders counts renders that reached the child.
func (g *Gate) Renders() int { return g.renders }

// Skips counts renders answered from the cache.
func (g *Gate) Skips() int { return g.skips }

// Reset forgets the previous render so the next one always reaches the child.
func (g *Gate) Reset() {
	*g = Gate{}
}
