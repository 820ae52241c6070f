package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/treestate/config"
	"github.com/grovetools/treestate/connect"
	"github.com/grovetools/treestate/provider"
	"github.com/grovetools/treestate/store"
	"github.com/grovetools/treestate/tui/components"
	"github.com/grovetools/treestate/tui/components/table"
	"github.com/grovetools/treestate/tui/keymap"
	"github.com/grovetools/treestate/view"
	"github.com/sirupsen/logrus"
)

type todo struct {
	Title string
	Done  bool
}

type demoState struct {
	Count    int
	Todos    []todo
	Selected int
}

type demoKeys struct {
	keymap.Base
	Increment key.Binding
	Decrement key.Binding
	Add       key.Binding
	Toggle    key.Binding
	Trace     key.Binding
}

func newDemoKeys(cfg *config.Config) demoKeys {
	k := demoKeys{
		Base: keymap.Load(cfg),
		Increment: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "increment"),
		),
		Decrement: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "decrement"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add todo"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle done"),
		),
		Trace: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "trace updates"),
		),
	}
	var keys keymap.Config
	if cfg != nil && cfg.UnmarshalExtension("keys", &keys) == nil {
		keymap.ApplyOverrides(&k, keys.Overrides)
	}
	return k
}

func (k demoKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Increment, k.Add, k.Toggle, k.Help, k.Quit}
}

func (k demoKeys) Sections() []keymap.Section {
	return keymap.MergeSections(
		keymap.NavigationSection(k.Up, k.Down),
		keymap.StoreSection(k.Increment, k.Decrement),
		keymap.StoreSection(k.Add, k.Toggle, k.Delete),
		keymap.DebugSection(k.Refresh, k.Trace),
		keymap.SystemSection(k.Help, k.Quit),
	)
}

func (k demoKeys) FullHelp() [][]key.Binding {
	return keymap.SectionsToColumns(k.Sections())
}

// demoApp owns the demo store and its view tree.
type demoApp struct {
	store     *store.Store[demoState]
	root      *provider.Provider
	keys      demoKeys
	connected []*connect.Connected
	// lastRenders is read and written only while the tree renders.
	lastRenders []int
	added       int
}

func newDemoApp(cfg *config.Config, logger *logrus.Entry) *demoApp {
	a := &demoApp{keys: newDemoKeys(cfg)}
	a.store = store.New(demoState{
		Todos: []todo{{Title: "write docs"}, {Title: "ship it"}},
	},
		store.WithName("demo"),
		store.WithDebug(cfg.Debug),
		store.WithLogger(logger),
	)

	opts := func(name string) []connect.Option {
		out := []connect.Option{connect.WithName(name)}
		if cfg.Dev.CheckSelectors {
			out = append(out, connect.WithStabilityCheck(logger))
		}
		return out
	}

	counter := connect.Connect(func(s demoState, _ view.Props) view.Props {
		return view.Props{"count": s.Count}
	}, opts("counter")...)(view.ComponentFunc(renderCounter))

	list := connect.Connect(func(s demoState, _ view.Props) view.Props {
		props, _ := view.ToProps(todoListProps{Todos: s.Todos, Selected: s.Selected})
		return props
	}, opts("todos")...)(view.ComponentFunc(renderTodos))

	summary := connect.Connect(func(s demoState, _ view.Props) view.Props {
		done := 0
		for _, t := range s.Todos {
			if t.Done {
				done++
			}
		}
		return view.Props{"done": done, "total": len(s.Todos)}
	}, opts("summary")...)(view.ComponentFunc(renderSummary))

	a.connected = []*connect.Connected{counter, list, summary}
	a.lastRenders = make([]int, len(a.connected))

	a.root = provider.New(provider.From(a.store),
		view.El(counter, view.Props{"label": "clicks"}),
		view.El(list, nil),
		view.El(summary, nil),
		view.El(view.ComponentFunc(a.renderGates), nil),
	).WithLogger(logger)
	return a
}

type todoListProps struct {
	Todos    []todo `prop:"todos"`
	Selected int    `prop:"selected"`
}

type counterProps struct {
	Label string `prop:"label"`
	Count int    `prop:"count"`
}

func renderCounter(_ *view.Context, props view.Props) string {
	var p counterProps
	if err := view.Decode(props, &p); err != nil {
		return err.Error()
	}
	return components.RenderKeyValue(p.Label, fmt.Sprintf("%d", p.Count))
}

func renderTodos(_ *view.Context, props view.Props) string {
	todos, _ := props.Get("todos").([]todo)
	selected, _ := props.Get("selected").(int)
	if len(todos) == 0 {
		return "nothing to do"
	}
	rows := make([][]string, len(todos))
	for i, t := range todos {
		mark := "[ ]"
		if t.Done {
			mark = "[x]"
		}
		rows[i] = []string{mark, t.Title}
	}
	return table.SelectableTable([]string{"", "todo"}, rows, selected)
}

func renderSummary(_ *view.Context, props view.Props) string {
	return fmt.Sprintf("%v of %v done", props.Get("done"), props.Get("total"))
}

// renderGates shows, for every connected component, whether the current
// render reached it. It must come after them in the tree.
func (a *demoApp) renderGates(_ *view.Context, _ view.Props) string {
	parts := make([]string, len(a.connected))
	for i, c := range a.connected {
		renders := c.Gate().Renders()
		parts[i] = components.RenderGateMarker(renders > a.lastRenders[i], renders) + " " + c.Name()
		a.lastRenders[i] = renders
	}
	return strings.Join(parts, "   ")
}

func (a *demoApp) handleKey(msg tea.KeyMsg) (string, tea.Cmd) {
	k := a.keys
	var (
		err    error
		status string
	)

	switch {
	case key.Matches(msg, k.Increment):
		err = store.UpdateAt(a.store, "Count", func(c *int) error {
			*c++
			return nil
		})
		status = "count +1"

	case key.Matches(msg, k.Decrement):
		err = store.UpdateAt(a.store, "Count", func(c *int) error {
			*c--
			return nil
		})
		status = "count -1"

	case key.Matches(msg, k.Up):
		err = store.UpdateAt(a.store, "Selected", func(sel *int) error {
			if *sel > 0 {
				*sel--
			}
			return nil
		})

	case key.Matches(msg, k.Down):
		err = a.store.Update(func(d *demoState) error {
			if d.Selected < len(d.Todos)-1 {
				d.Selected++
			}
			return nil
		})

	case key.Matches(msg, k.Add):
		a.added++
		title := fmt.Sprintf("todo %d", a.added)
		err = store.UpdateAt(a.store, "Todos", func(todos *[]todo) error {
			*todos = append(*todos, todo{Title: title})
			return nil
		})
		status = "added " + title

	case key.Matches(msg, k.Toggle):
		err = a.store.Update(func(d *demoState) error {
			if d.Selected >= len(d.Todos) {
				return fmt.Errorf("no todo selected")
			}
			d.Todos[d.Selected].Done = !d.Todos[d.Selected].Done
			return nil
		})
		status = "toggled"

	case key.Matches(msg, k.Delete):
		err = a.store.Update(func(d *demoState) error {
			if d.Selected >= len(d.Todos) {
				return fmt.Errorf("no todo selected")
			}
			i := d.Selected
			d.Todos = append(d.Todos[:i:i], d.Todos[i+1:]...)
			if d.Selected >= len(d.Todos) && d.Selected > 0 {
				d.Selected--
			}
			return nil
		})
		status = "deleted"

	case key.Matches(msg, k.Refresh):
		err = a.store.Update(func(*demoState) error { return nil })
		status = "updated without changes"

	case key.Matches(msg, k.Trace):
		a.store.SetDebug(!a.store.Debug())
		status = "tracing " + onOff(a.store.Debug())
	}

	if err != nil {
		return err.Error(), nil
	}
	return status, nil
}
