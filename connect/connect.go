// Package connect binds components to the snapshot provided by the nearest
// provider.Provider.
//
// Connect wraps a component so that every render reads the provided
// snapshot, projects it through a selector, and hands the result to a
// gate.Gate together with the caller's own props. The selector always runs;
// only the gate decides whether the wrapped component does.
//
// Selectors must be deterministic: for the same snapshot and own props they
// should return props whose top-level values are identical. A selector that
// builds fresh slices or maps on every call defeats the gate.
// WithStabilityCheck helps find such selectors during development.
//
// Rendering outside any Provider is not detected. The selector receives the
// zero value of its state type and whatever it does with it, including
// panicking on a nil pointer, reaches the caller. A provided snapshot of
// another type also reads as the zero value; each instance logs that once at
// debug level.
package connect

import (
	"fmt"
	"reflect"

	"github.com/grovetools/treestate/gate"
	"github.com/grovetools/treestate/logging"
	"github.com/grovetools/treestate/provider"
	"github.com/grovetools/treestate/shallow"
	"github.com/grovetools/treestate/view"
	"github.com/sirupsen/logrus"
)

type settings struct {
	name   string
	logger *logrus.Entry
	check  bool
}

// Option configures a connector.
type Option func(*settings)

// WithName labels connected instances in logs and reports.
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

// WithStabilityCheck runs the selector twice per render and logs a warning
// through logger when the two results are not shallow-equal. A nil logger
// disables the check.
func WithStabilityCheck(logger *logrus.Entry) Option {
	return func(s *settings) {
		s.check = logger != nil
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLogger replaces the logger used for diagnostics.
func WithLogger(logger *logrus.Entry) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Connect returns a function that wraps a target component. selector may be
// nil, in which case the target only receives its own props.
func Connect[S any](selector func(state S, own view.Props) view.Props, opts ...Option) func(view.Component) *Connected {
	cfg := settings{name: "connected", logger: logging.NewLogger("treestate.connect")}
	for _, opt := range opts {
		opt(&cfg)
	}

	compute := func(ctx *view.Context, own view.Props) (view.Props, any, bool) {
		if selector == nil {
			return nil, nil, true
		}
		state, got, ok := stateFrom[S](ctx)
		return selector(state, own), got, ok
	}

	return func(target view.Component) *Connected {
		return &Connected{
			name:      cfg.name,
			stateType: typeName[S](),
			target:    target,
			compute:   compute,
			logger:    cfg.logger,
			check:     cfg.check,
		}
	}
}

// Connected is one placement of a connected component. It owns a gate, so a
// component shown in several places needs one Connected per place; see New.
type Connected struct {
	name      string
	stateType string
	target    view.Component
	// compute also returns the provided value and whether it had the
	// selector's state type.
	compute    func(ctx *view.Context, own view.Props) (view.Props, any, bool)
	logger     *logrus.Entry
	check      bool
	warned     bool
	mismatched bool

	gate gate.Gate
}

// New returns another instance of the same connected component with its own
// gate.
func (c *Connected) New() *Connected {
	return &Connected{
		name:      c.name,
		stateType: c.stateType,
		target:    c.target,
		compute:   c.compute,
		logger:    c.logger,
		check:     c.check,
	}
}

// Name returns the label given with WithName.
func (c *Connected) Name() string {
	return c.name
}

// Gate exposes the instance's render counters.
func (c *Connected) Gate() *gate.Gate {
	return &c.gate
}

// Render runs the selector against the provided snapshot and renders the
// target through the gate.
func (c *Connected) Render(ctx *view.Context, own view.Props) string {
	computed, got, ok := c.compute(ctx, own)
	if !ok && !c.mismatched {
		c.mismatched = true
		c.logger.WithFields(logrus.Fields{
			"connected": c.name,
			"want":      c.stateType,
			"got":       fmt.Sprintf("%T", got),
		}).Debug("Provided state has another type, selector reads the zero value")
	}
	if c.check {
		c.checkStability(ctx, own, computed)
	}
	return c.gate.Render(ctx, c.target, own, computed)
}

func (c *Connected) checkStability(ctx *view.Context, own, first view.Props) {
	if c.warned {
		return
	}
	second, _, _ := c.compute(ctx, own)
	if shallow.Equal(first, second) {
		return
	}
	c.warned = true
	c.logger.WithFields(logrus.Fields{
		"connected": c.name,
		"first":     first,
		"second":    second,
	}).Warn("selector returned different props for identical inputs; renders of this component cannot be skipped")
}

// UseContextSelector projects the provided snapshot through selector. No
// gating is applied: the selector runs on every call.
func UseContextSelector[S, R any](ctx *view.Context, selector func(state S) R) R {
	state, got, ok := stateFrom[S](ctx)
	if !ok {
		logging.NewLogger("treestate.connect").WithFields(logrus.Fields{
			"want": typeName[S](),
			"got":  fmt.Sprintf("%T", got),
		}).Debug("Provided state has another type, selector reads the zero value")
	}
	return selector(state)
}

// stateFrom returns the provided snapshot as S. ok is false only when a
// non-nil snapshot of another type is provided; the zero value is returned
// then and when nothing is provided.
func stateFrom[S any](ctx *view.Context) (state S, got any, ok bool) {
	got, provided := provider.Value(ctx)
	if !provided || got == nil {
		return state, got, true
	}
	state, ok = got.(S)
	return state, got, ok
}

func typeName[S any]() string {
	return reflect.TypeOf((*S)(nil)).Elem().String()
}
