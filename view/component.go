package view

import (
	"github.com/charmbracelet/lipgloss"
)

// Component renders props within ctx.
type Component interface {
	Render(ctx *Context, props Props) string
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(ctx *Context, props Props) string

// Render calls f.
func (f ComponentFunc) Render(ctx *Context, props Props) string {
	return f(ctx, props)
}

// Element is a component placed in a tree together with its props.
type Element struct {
	Component Component
	Props     Props
}

// El builds an Element.
func El(c Component, props Props) Element {
	return Element{Component: c, Props: props}
}

// Render renders the element in ctx.
func (e Element) Render(ctx *Context) string {
	if e.Component == nil {
		return ""
	}
	return e.Component.Render(ctx, e.Props)
}

// RenderAll renders elements in order and stacks their output vertically.
func RenderAll(ctx *Context, elements []Element) string {
	if len(elements) == 0 {
		return ""
	}
	parts := make([]string, 0, len(elements))
	for _, e := range elements {
		parts = append(parts, e.Render(ctx))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
