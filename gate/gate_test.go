package gate

import (
	"fmt"
	"testing"

	"github.com/grovetools/treestate/view"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	calls []view.Props
}

func (r *recorder) Render(_ *view.Context, props view.Props) string {
	r.calls = append(r.calls, props)
	return fmt.Sprintf("render #%d %s", len(r.calls), props)
}

func TestGateSkipsShallowEqualInputs(t *testing.T) {
	items := []string{"a", "b"}
	child := &recorder{}
	var g Gate

	first := g.Render(nil, child, view.Props{"id": 1}, view.Props{"items": items})
	// New maps with identical top-level values.
	second := g.Render(nil, child, view.Props{"id": 1}, view.Props{"items": items})

	assert.Len(t, child.calls, 1)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, g.Renders())
	assert.Equal(t, 1, g.Skips())
}

func TestGateRendersWhenEitherInputChanges(t *testing.T) {
	child := &recorder{}
	var g Gate

	g.Render(nil, child, view.Props{"id": 1}, view.Props{"label": "a"})
	g.Render(nil, child, view.Props{"id": 2}, view.Props{"label": "a"})
	g.Render(nil, child, view.Props{"id": 2}, view.Props{"label": "b"})
	g.Render(nil, child, view.Props{"id": 2}, view.Props{"label": "b", "extra": true})

	assert.Len(t, child.calls, 4)
	assert.Zero(t, g.Skips())
}

func TestGateComparesOneLevelDeep(t *testing.T) {
	child := &recorder{}
	var g Gate

	// Equal contents behind a different reference count as a change.
	g.Render(nil, child, nil, view.Props{"items": []string{"a"}})
	g.Render(nil, child, nil, view.Props{"items": []string{"a"}})
	assert.Len(t, child.calls, 2)

	// A nested edit behind the same reference is invisible.
	shared := map[string]int{"n": 1}
	g.Render(nil, child, nil, view.Props{"m": shared})
	shared["n"] = 2
	g.Render(nil, child, nil, view.Props{"m": shared})
	assert.Len(t, child.calls, 3)
}

func TestGateMergesParentOverComputed(t *testing.T) {
	child := &recorder{}
	var g Gate

	g.Render(nil, child, view.Props{"label": "parent"}, view.Props{"label": "state", "count": 3})

	assert.Equal(t, view.Props{"label": "parent", "count": 3}, child.calls[0])
}

func TestGateNilAndEmptyPropsAreEqual(t *testing.T) {
	child := &recorder{}
	var g Gate

	g.Render(nil, child, nil, nil)
	g.Render(nil, child, view.Props{}, view.Props{})
	assert.Len(t, child.calls, 1)
}

func TestGateReset(t *testing.T) {
	child := &recorder{}
	var g Gate

	g.Render(nil, child, nil, view.Props{"a": 1})
	g.Reset()
	assert.True(t, g.ShouldRender(nil, view.Props{"a": 1}))
	g.Render(nil, child, nil, view.Props{"a": 1})

	assert.Len(t, child.calls, 2)
	assert.Equal(t, 1, g.Renders())
}
