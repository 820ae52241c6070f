package replay

import (
	"strings"
	"testing"

	"github.com/grovetools/treestate/errors"
	"github.com/grovetools/treestate/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const todosScript = `
name: todos
state:
  filter: all
  count: 0
  user:
    name: ada
  todos:
    - title: milk
      done: false
components:
  - name: header
    select: {filter: filter}
  - name: counter
    select: {count: count}
    props: {label: clicks}
  - name: user
    select: {profile: user}
  - name: list
    select: {items: todos}
steps:
  - name: bump
    set: {count: 1}
    expect: {rendered: [counter], skipped: [header, user, list]}
  - name: same count
    set: {count: 1}
    expect: {rendered: [], skipped: [header, counter, user, list]}
  - name: rename
    at: user
    set: {name: grace}
    expect: {rendered: [user]}
  - name: add todo
    set: {todos.1: {title: eggs, done: false}}
    expect: {rendered: [list]}
  - name: toggle done
    set: {todos.0.done: true}
    expect: {rendered: [list]}
  - name: broken
    set: {filter: done}
    fail: true
    expect: {rendered: []}
`

func run(t *testing.T, src, format string) *Report {
	t.Helper()
	script, err := Parse([]byte(src), format)
	require.NoError(t, err)

	logger, _ := testutil.LogCapture()
	r := NewRunner(script, Options{Logger: logger})
	defer r.Close()
	return r.Run()
}

func stepNamed(t *testing.T, report *Report, name string) StepResult {
	t.Helper()
	for _, s := range report.Steps {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no step %q", name)
	return StepResult{}
}

func TestRunTodos(t *testing.T) {
	report := run(t, todosScript, "yaml")

	require.Len(t, report.Steps, 7)
	assert.False(t, report.Failed(), report.Table(0))

	initial := report.Steps[0]
	assert.Equal(t, []string{"header", "counter", "user", "list"}, initial.Rendered)
	assert.Contains(t, initial.Output, "counter {count:0 label:clicks}")

	bump := stepNamed(t, report, "bump")
	assert.Equal(t, 1, bump.Notified)
	assert.Equal(t, uint64(1), bump.Version)
	assert.Contains(t, bump.Output, "counter {count:1 label:clicks}")

	same := stepNamed(t, report, "same count")
	assert.Equal(t, 1, same.Notified, "no-op updates still notify")
	assert.Empty(t, same.Rendered)

	rename := stepNamed(t, report, "rename")
	assert.Contains(t, rename.Output, "grace")

	add := stepNamed(t, report, "add todo")
	assert.Contains(t, add.Output, "eggs")
}

func TestFailedStepIsDiscarded(t *testing.T) {
	report := run(t, todosScript, "yaml")

	broken := stepNamed(t, report, "broken")
	assert.Equal(t, 0, broken.Notified)
	assert.Contains(t, broken.Error, "step marked to fail")
	assert.Empty(t, broken.Rendered)
	assert.NotContains(t, broken.Output, "filter:done")
	assert.Equal(t, stepNamed(t, report, "toggle done").Version, broken.Version)
}

func TestMismatchIsReported(t *testing.T) {
	report := run(t, `
name: wrong
state: {a: 1, b: 1}
components:
  - {name: a, select: {v: a}}
  - {name: b, select: {v: b}}
steps:
  - name: touch a
    set: {a: 2}
    expect: {rendered: [b], skipped: [a]}
`, "yaml")

	require.True(t, report.Failed())
	step := report.Steps[1]
	assert.Equal(t, []string{
		"rendered: want [b], got [a]",
		"skipped: want [a], got [b]",
	}, step.Mismatches)
	assert.Contains(t, report.Table(0), "1 of 2 steps failed")
}

func TestRunTOML(t *testing.T) {
	report := run(t, `
name = "toml"

[state]
count = 0
label = "x"

[[components]]
name = "count"
select = { n = "count" }

[[components]]
name = "label"
select = { l = "label" }

[[steps]]
name = "bump"
set = { count = 5 }
expect = { rendered = ["count"], skipped = ["label"] }
`, "toml")

	assert.False(t, report.Failed(), report.Table(0))
	assert.Contains(t, report.Steps[1].Output, "count {n:5}")
}

func TestDeleteStep(t *testing.T) {
	report := run(t, `
state:
  todos: [a, b, c]
  tags: {x: 1, y: 2}
components:
  - {name: todos, select: {items: todos}}
  - {name: tags, select: {tags: tags}}
steps:
  - name: drop b
    delete: [todos.1]
    expect: {rendered: [todos], skipped: [tags]}
  - name: drop y
    delete: [tags.y]
    expect: {rendered: [tags], skipped: [todos]}
  - name: drop missing
    delete: [tags.zzz]
    expect: {rendered: []}
`, "yaml")

	assert.False(t, report.Failed(), report.Table(0))
	assert.Contains(t, report.Steps[1].Output, "[a c]")
	assert.Contains(t, report.Steps[3].Error, "no entry")
}

func TestUnknownAtKey(t *testing.T) {
	script, err := Parse([]byte(`
state: {user: {name: ada}}
components: [{name: u, select: {u: user}}]
steps:
  - {name: typo, at: usr, set: {name: x}}
`), "yaml")
	require.NoError(t, err)

	logger, _ := testutil.LogCapture()
	r := NewRunner(script, Options{Logger: logger})
	defer r.Close()

	res := r.Step(script.Steps[0])
	assert.Contains(t, res.Error, "did you mean 'user'")
}

func TestParseRejectsBadScripts(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown field", "components: [{name: a, selekt: {}}]", "selekt"},
		{"duplicate component", "components: [{name: a}, {name: a}]", "duplicate name"},
		{"empty step", "components: [{name: a}]\nsteps: [{name: nothing}]", "nothing to set"},
		{"unknown expected component", "components: [{name: a}]\nsteps: [{name: s, set: {x: 1}, expect: {rendered: [b]}}]", `unknown component "b"`},
		{"bad yaml", "components: [", "invalid replay script"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "yaml")
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeScriptInvalid))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "todos.yml", todosScript)

	script, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "todos", script.Name)
	assert.Len(t, script.Components, 4)

	bad := testutil.WriteFile(t, dir, "bad.toml", "name = [")
	_, err = Load(bad)
	require.Error(t, err)
	assert.Equal(t, bad, err.(*errors.StoreError).Details["path"])
}

func TestFilterAndTable(t *testing.T) {
	report := run(t, todosScript, "yaml")

	filtered, err := report.Filter([]string{"list", "user"})
	require.NoError(t, err)
	assert.Equal(t, []string{"user", "list"}, filtered.Steps[0].Rendered)
	assert.Equal(t, []string{"user"}, stepNamed(t, filtered, "bump").Skipped[:1])

	excluded, err := report.Filter([]string{"*", "!counter"})
	require.NoError(t, err)
	for _, step := range excluded.Steps {
		assert.NotContains(t, step.Rendered, "counter")
		assert.NotContains(t, step.Skipped, "counter")
	}

	out := report.Table(100)
	assert.Contains(t, out, "RENDERED")
	assert.Contains(t, out, "all expectations met")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 100)
	}

	js, err := report.JSON()
	require.NoError(t, err)
	assert.Contains(t, js, `"script": "todos"`)
}
