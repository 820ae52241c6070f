package cmd

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/treestate/config"
	"github.com/grovetools/treestate/testutil"
	"github.com/grovetools/treestate/tui/keymap"
	"github.com/grovetools/treestate/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *demoApp {
	t.Helper()
	logger, _ := testutil.LogCapture()
	app := newDemoApp(config.Default(), logger)
	app.root.Mount()
	t.Cleanup(app.root.Unmount)
	return app
}

func press(app *demoApp, k string) string {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	if k == " " {
		msg = tea.KeyMsg{Type: tea.KeySpace}
	}
	status, _ := app.handleKey(msg)
	return status
}

func renderApp(app *demoApp) string {
	return app.root.Render(view.Background(), nil)
}

func TestDemoInitialRender(t *testing.T) {
	app := newTestApp(t)
	out := renderApp(app)

	assert.Contains(t, out, "clicks: 0")
	assert.Contains(t, out, "write docs")
	assert.Contains(t, out, "0 of 2 done")
	assert.Contains(t, out, "● 1 counter")
	assert.Contains(t, out, "● 1 todos")
}

func TestDemoCounterOnlyRendersCounter(t *testing.T) {
	app := newTestApp(t)
	renderApp(app)

	assert.Equal(t, "count +1", press(app, "+"))
	out := renderApp(app)

	assert.Equal(t, 1, app.store.GetState().Count)
	assert.Contains(t, out, "clicks: 1")
	assert.Contains(t, out, "● 2 counter")
	assert.Contains(t, out, "○ 1 todos")
	assert.Contains(t, out, "○ 1 summary")

	press(app, "-")
	press(app, "-")
	assert.Equal(t, -1, app.store.GetState().Count)
}

func TestDemoTodos(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, "added todo 1", press(app, "a"))
	require.Len(t, app.store.GetState().Todos, 3)

	press(app, "j")
	press(app, "j")
	press(app, "j")
	assert.Equal(t, 2, app.store.GetState().Selected, "selection stops at the last todo")

	assert.Equal(t, "toggled", press(app, " "))
	assert.True(t, app.store.GetState().Todos[2].Done)
	assert.Contains(t, renderApp(app), "1 of 3 done")

	press(app, "k")
	assert.Equal(t, 1, app.store.GetState().Selected)

	assert.Equal(t, "deleted", press(app, "x"))
	todos := app.store.GetState().Todos
	require.Len(t, todos, 2)
	assert.Equal(t, "todo 1", todos[1].Title)
}

func TestDemoDeleteOnEmptyListReportsError(t *testing.T) {
	app := newTestApp(t)

	press(app, "x")
	press(app, "x")
	require.Empty(t, app.store.GetState().Todos)
	assert.Contains(t, renderApp(app), "nothing to do")

	version := app.store.Version()
	status := press(app, "x")
	assert.Contains(t, status, "no todo selected")
	assert.Equal(t, version, app.store.Version(), "failed edits commit nothing")
}

func TestDemoRefreshSkipsEveryComponent(t *testing.T) {
	app := newTestApp(t)
	renderApp(app)

	press(app, "r")
	out := renderApp(app)
	assert.Contains(t, out, "○ 1 counter")
	assert.Contains(t, out, "○ 1 todos")
	assert.Contains(t, out, "○ 1 summary")
}

func TestDemoTraceToggle(t *testing.T) {
	app := newTestApp(t)
	require.False(t, app.store.Debug())

	assert.Equal(t, "tracing on", press(app, "t"))
	assert.True(t, app.store.Debug())
	assert.Equal(t, "tracing off", press(app, "t"))
}

func TestDemoKeyOverrides(t *testing.T) {
	cfg, err := config.LoadFromBytes([]byte(`
keys:
  overrides:
    increment: ["i"]
`), config.FormatYAML)
	require.NoError(t, err)

	keys := newDemoKeys(cfg)
	assert.Equal(t, []string{"i"}, keys.Increment.Keys())
	assert.NotEmpty(t, keys.FullHelp())

	var names []string
	for _, s := range keys.Sections() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{keymap.SectionNavigation, keymap.SectionStore, keymap.SectionDebug, keymap.SectionSystem}, names)
	assert.Len(t, keys.Sections()[1].Bindings, 5, "counter and todo bindings share the store section")
}
