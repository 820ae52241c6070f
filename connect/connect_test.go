package connect

import (
	"fmt"
	"testing"

	"github.com/grovetools/treestate/provider"
	"github.com/grovetools/treestate/store"
	"github.com/grovetools/treestate/view"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type todo struct {
	ID    int
	Title string
}

type appState struct {
	A     int
	Count int
	Todos []todo
}

type recorder struct {
	calls []view.Props
}

func (r *recorder) Render(_ *view.Context, props view.Props) string {
	r.calls = append(r.calls, props)
	return fmt.Sprintf("%v", props)
}

func quietEntry() *logrus.Entry {
	logger, _ := test.NewNullLogger()
	return logrus.NewEntry(logger)
}

func mount[T any](t *testing.T, initial T, children ...view.Element) (*store.Store[T], *provider.Provider) {
	t.Helper()
	s := store.New(initial, store.WithLogger(quietEntry()))
	p := provider.New(provider.From(s), children...).WithLogger(quietEntry())
	p.Mount()
	t.Cleanup(p.Unmount)
	return s, p
}

func TestUnchangedSelectionSkipsRender(t *testing.T) {
	target := &recorder{}
	connected := Connect(func(s appState, _ view.Props) view.Props {
		return view.Props{"a": s.A}
	})(target)

	s, p := mount(t, appState{A: 1}, view.El(connected, nil))

	direct := 0
	s.Subscribe(func(appState) { direct++ })

	p.Render(view.Background(), nil)
	require.Len(t, target.calls, 1)

	require.NoError(t, s.Update(func(d *appState) error {
		d.A = 1
		return nil
	}))
	<-p.Changes()
	p.Render(view.Background(), nil)

	assert.Len(t, target.calls, 1, "selector output is shallow-equal, so the target is skipped")
	assert.Equal(t, 1, connected.Gate().Skips())
	assert.Equal(t, 1, direct, "direct subscribers still fire")
}

func TestUnrelatedUpdateSkipsAndRelatedRenders(t *testing.T) {
	target := &recorder{}
	connected := Connect(func(s appState, _ view.Props) view.Props {
		return view.Props{"todos": s.Todos}
	})(target)

	s, p := mount(t, appState{Todos: []todo{{ID: 1, Title: "write"}}}, view.El(connected, nil))
	p.Render(view.Background(), nil)

	require.NoError(t, s.Update(func(d *appState) error { d.Count++; return nil }))
	p.Render(view.Background(), nil)
	assert.Len(t, target.calls, 1)

	require.NoError(t, s.Update(func(d *appState) error {
		d.Todos[0].Title = "rewrite"
		return nil
	}))
	p.Render(view.Background(), nil)
	require.Len(t, target.calls, 2)
	assert.Equal(t, "rewrite", target.calls[1]["todos"].([]todo)[0].Title)
}

func TestSelectorReceivesOwnProps(t *testing.T) {
	target := &recorder{}
	item := Connect(func(s appState, own view.Props) view.Props {
		id := own["id"].(int)
		for _, td := range s.Todos {
			if td.ID == id {
				return view.Props{"title": td.Title}
			}
		}
		return view.Props{"title": ""}
	}, WithName("todo-item"))(target)

	first, second := item, item.New()
	_, p := mount(t, appState{Todos: []todo{{ID: 1, Title: "one"}, {ID: 2, Title: "two"}}},
		view.El(first, view.Props{"id": 1}),
		view.El(second, view.Props{"id": 2, "title": "override"}),
	)

	p.Render(view.Background(), nil)

	require.Len(t, target.calls, 2)
	assert.Equal(t, view.Props{"id": 1, "title": "one"}, target.calls[0])
	assert.Equal(t, view.Props{"id": 2, "title": "override"}, target.calls[1], "own props win")
	assert.Equal(t, "todo-item", second.Name())
	assert.Equal(t, 1, first.Gate().Renders())
	assert.Equal(t, 1, second.Gate().Renders())
}

func TestSelectorRunsEveryRender(t *testing.T) {
	runs := 0
	connected := Connect(func(s appState, _ view.Props) view.Props {
		runs++
		return view.Props{"a": s.A}
	})(&recorder{})

	_, p := mount(t, appState{}, view.El(connected, nil))
	p.Render(view.Background(), nil)
	p.Render(view.Background(), nil)
	p.Render(view.Background(), nil)

	assert.Equal(t, 3, runs)
	assert.Equal(t, 2, connected.Gate().Skips())
}

func TestNilSelectorPassesOwnProps(t *testing.T) {
	target := &recorder{}
	connected := Connect[appState](nil)(target)

	connected.Render(view.Background(), view.Props{"x": 1})
	connected.Render(view.Background(), view.Props{"x": 1})

	assert.Equal(t, []view.Props{{"x": 1}}, target.calls)
}

func TestRenderOutsideProviderPropagatesSelectorPanic(t *testing.T) {
	connected := Connect(func(s *appState, _ view.Props) view.Props {
		return view.Props{"a": s.A}
	})(&recorder{})

	assert.Panics(t, func() {
		connected.Render(view.Background(), nil)
	})
}

func TestMismatchedStateTypeReadsZero(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	target := &recorder{}
	connected := Connect(func(s appState, _ view.Props) view.Props {
		return view.Props{"count": s.Count}
	}, WithName("counter"), WithLogger(logrus.NewEntry(logger)))(target)

	_, p := mount(t, map[string]int{"count": 9}, view.El(connected, nil))
	p.Render(view.Background(), nil)

	require.Len(t, target.calls, 1)
	assert.Equal(t, 0, target.calls[0]["count"])

	require.Len(t, hook.AllEntries(), 1)
	e := hook.LastEntry()
	assert.Equal(t, logrus.DebugLevel, e.Level)
	assert.Equal(t, "counter", e.Data["connected"])
	assert.Equal(t, "connect.appState", e.Data["want"])
	assert.Equal(t, "map[string]int", e.Data["got"])

	p.Render(view.Background(), nil)
	assert.Len(t, hook.AllEntries(), 1, "logged once per instance")
}

func TestMatchingStateTypeLogsNothing(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	connected := Connect(func(s appState, _ view.Props) view.Props {
		return view.Props{"count": s.Count}
	}, WithLogger(logrus.NewEntry(logger)), WithStabilityCheck(nil))(&recorder{})

	_, p := mount(t, appState{Count: 2}, view.El(connected, nil))
	p.Render(view.Background(), nil)
	assert.Empty(t, hook.AllEntries())
}

func TestUseContextSelector(t *testing.T) {
	var got []int
	reader := view.ComponentFunc(func(ctx *view.Context, _ view.Props) string {
		n := UseContextSelector(ctx, func(s appState) int { return len(s.Todos) })
		got = append(got, n)
		return fmt.Sprint(n)
	})

	s, p := mount(t, appState{}, view.El(reader, nil))
	p.Render(view.Background(), nil)
	require.NoError(t, s.Update(func(d *appState) error {
		d.Todos = append(d.Todos, todo{ID: 1})
		return nil
	}))
	p.Render(view.Background(), nil)
	p.Render(view.Background(), nil)

	assert.Equal(t, []int{0, 1, 1}, got, "no gating: the caller renders every time")
	assert.Equal(t, 0, UseContextSelector(view.Background(), func(s appState) int { return s.Count }))
}

func TestStabilityCheck(t *testing.T) {
	logger, hook := test.NewNullLogger()
	entry := logrus.NewEntry(logger)

	unstable := Connect(func(s appState, _ view.Props) view.Props {
		return view.Props{"ids": []int{s.A}}
	}, WithName("unstable"), WithStabilityCheck(entry))(&recorder{})

	stable := Connect(func(s appState, _ view.Props) view.Props {
		return view.Props{"a": s.A}
	}, WithName("stable"), WithStabilityCheck(entry))(&recorder{})

	_, p := mount(t, appState{A: 1}, view.El(unstable, nil), view.El(stable, nil))
	p.Render(view.Background(), nil)
	p.Render(view.Background(), nil)

	require.Len(t, hook.AllEntries(), 1, "one warning per instance")
	e := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, e.Level)
	assert.Equal(t, "unstable", e.Data["connected"])
	assert.Equal(t, 2, unstable.Gate().Renders())
}
