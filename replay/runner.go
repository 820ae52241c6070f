package replay

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/grovetools/treestate/connect"
	"github.com/grovetools/treestate/logging"
	"github.com/grovetools/treestate/pkg/profiling"
	"github.com/grovetools/treestate/provider"
	"github.com/grovetools/treestate/store"
	"github.com/grovetools/treestate/view"
	"github.com/sirupsen/logrus"
)

// State is the shape of a replayed store.
type State = map[string]any

// errFailedStep is returned by edits of steps marked fail.
var errFailedStep = stderrors.New("step marked to fail")

// Options tunes a run.
type Options struct {
	// Logger receives store, provider and connector diagnostics. Defaults
	// to the "treestate.replay" component logger.
	Logger *logrus.Entry
	// Debug enables store tracing.
	Debug bool
	// CheckSelectors enables the connector stability check.
	CheckSelectors bool
}

// Runner holds the live objects of one replay. Create it with NewRunner,
// then call Run or drive it step by step.
type Runner struct {
	script *Script
	logger *logrus.Entry

	store      *store.Store[State]
	provider   *provider.Provider
	sub        *store.Subscription
	components []*connect.Connected

	mu       sync.Mutex
	notified int
}

// NewRunner builds the store, the connected components and a mounted
// provider for script.
func NewRunner(script *Script, opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger("treestate.replay")
	}
	name := script.Name
	if name == "" {
		name = "replay"
	}

	r := &Runner{script: script, logger: logger.WithField("script", name)}
	r.store = store.New(State(script.State),
		store.WithName(name),
		store.WithDebug(opts.Debug),
		store.WithLogger(logger),
	)
	r.sub = r.store.Subscribe(func(State) {
		r.mu.Lock()
		r.notified++
		r.mu.Unlock()
	})

	var connectOpts []connect.Option
	if opts.CheckSelectors {
		connectOpts = append(connectOpts, connect.WithStabilityCheck(logger))
	}

	children := make([]view.Element, 0, len(script.Components))
	for _, spec := range script.Components {
		c := connect.Connect(selector(spec.Select), append(connectOpts, connect.WithName(spec.Name))...)(target(spec.Name))
		r.components = append(r.components, c)
		children = append(children, view.El(c, spec.Props))
	}

	r.provider = provider.New(provider.From(r.store), children...).WithLogger(logger)
	r.provider.Mount()
	return r
}

// selector projects each selected path into a prop.
func selector(paths map[string]string) func(State, view.Props) view.Props {
	if len(paths) == 0 {
		return nil
	}
	props := sortedKeys(paths)
	return func(state State, _ view.Props) view.Props {
		out := make(view.Props, len(props))
		for _, prop := range props {
			out[prop] = lookup(map[string]any(state), paths[prop])
		}
		return out
	}
}

func target(name string) view.Component {
	return view.ComponentFunc(func(_ *view.Context, props view.Props) string {
		return fmt.Sprintf("%s %s", name, props)
	})
}

// Store exposes the replayed store.
func (r *Runner) Store() *store.Store[State] {
	return r.store
}

// Close unmounts the provider and drops the counting subscription.
func (r *Runner) Close() {
	r.provider.Unmount()
	r.sub.Unsubscribe()
}

// Run renders the initial tree, applies every step and returns the report.
func (r *Runner) Run() *Report {
	defer profiling.Start("replay " + r.script.Name).Stop()

	report := &Report{Script: r.script.Name}
	report.add(r.render("initial", 0, Expect{}, nil))
	for _, step := range r.script.Steps {
		report.add(r.Step(step))
	}
	r.logger.WithFields(logrus.Fields{
		"steps":    len(r.script.Steps),
		"failures": report.Failures,
	}).Debug("replay finished")
	return report
}

// Step applies one step and renders the tree.
func (r *Runner) Step(step Step) StepResult {
	defer profiling.Start("step " + step.Name).Stop()

	r.mu.Lock()
	before := r.notified
	r.mu.Unlock()

	span := profiling.Start("update")
	err := r.apply(step)
	span.Stop()

	r.mu.Lock()
	notified := r.notified - before
	r.mu.Unlock()

	return r.render(step.Name, notified, step.Expect, err)
}

func (r *Runner) apply(step Step) error {
	edit := func(root *any) error {
		for _, path := range sortedKeys(step.Set) {
			if err := setPath(root, path, step.Set[path]); err != nil {
				return err
			}
		}
		for _, path := range step.Delete {
			if err := deletePath(root, path); err != nil {
				return err
			}
		}
		if step.Fail {
			return errFailedStep
		}
		return nil
	}

	if step.At != "" {
		return store.UpdateAt(r.store, step.At, edit)
	}
	return r.store.Update(func(draft *State) error {
		var root any = map[string]any(*draft)
		if err := edit(&root); err != nil {
			return err
		}
		next, ok := root.(map[string]any)
		if !ok {
			return fmt.Errorf("state must stay a map, got %T", root)
		}
		*draft = next
		return nil
	})
}

func (r *Runner) render(name string, notified int, expect Expect, err error) StepResult {
	before := make([]int, len(r.components))
	for i, c := range r.components {
		before[i] = c.Gate().Renders()
	}

	span := profiling.Start("render")
	output := r.provider.Render(view.Background(), nil)
	span.Stop()

	result := StepResult{
		Name:     name,
		Version:  r.store.Version(),
		Notified: notified,
		Output:   output,
	}
	if err != nil {
		result.Error = err.Error()
	}
	for i, c := range r.components {
		if c.Gate().Renders() > before[i] {
			result.Rendered = append(result.Rendered, c.Name())
		} else {
			result.Skipped = append(result.Skipped, c.Name())
		}
	}
	result.Mismatches = compare(expect, result)
	return result
}

func compare(expect Expect, result StepResult) []string {
	var out []string
	check := func(label string, want, got []string) {
		if want == nil {
			return
		}
		w, g := sorted(want), sorted(got)
		if strings.Join(w, ",") != strings.Join(g, ",") {
			out = append(out, fmt.Sprintf("%s: want [%s], got [%s]", label, strings.Join(w, ", "), strings.Join(g, ", ")))
		}
	}
	check("rendered", expect.Rendered, result.Rendered)
	check("skipped", expect.Skipped, result.Skipped)
	return out
}

func sorted(in []string) []string {
	out := append([]string{}, in...)
	sort.Strings(out)
	return out
}
