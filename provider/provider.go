package provider

import (
	"sync"

	"github.com/google/uuid"
	"github.com/grovetools/treestate/logging"
	"github.com/grovetools/treestate/view"
	"github.com/sirupsen/logrus"
)

// Slot carries the snapshot mirrored by the nearest mounted Provider.
var Slot = view.NewSlot[any]("treestate.provider", nil)

// Value returns the snapshot provided to ctx, if any.
func Value(ctx *view.Context) (any, bool) {
	return view.Lookup(ctx, Slot)
}

// Provider mirrors a Source into the view context of its children.
//
// An unmounted Provider holds no subscription and reads the source afresh on
// every render. Mount caches the current value and subscribes; each
// notification replaces the cache and signals Changes. Unmount releases the
// subscription exactly once, however often it is called.
type Provider struct {
	id       string
	logger   *logrus.Entry
	children []view.Element
	onChange func(value any)
	changes  chan struct{}

	mu      sync.Mutex
	src     Source
	value   any
	mounted bool
	release func()
	// gen invalidates callbacks registered for an earlier source or mount.
	gen uint64
}

// New creates an unmounted Provider for src.
func New(src Source, children ...view.Element) *Provider {
	id := uuid.NewString()
	return &Provider{
		id:       id,
		logger:   logging.NewLogger("treestate.provider").WithField("provider", id),
		children: children,
		changes:  make(chan struct{}, 1),
		src:      src,
	}
}

// WithLogger replaces the provider's logger.
func (p *Provider) WithLogger(logger *logrus.Entry) *Provider {
	p.logger = logger.WithField("provider", p.id)
	return p
}

// OnChange registers fn to run after every refresh, outside the provider's
// lock. The demo uses it to schedule a redraw.
func (p *Provider) OnChange(fn func(value any)) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = fn
	return p
}

// ID returns the provider's instance id.
func (p *Provider) ID() string {
	return p.id
}

// Changes delivers a signal after the mirrored value changes. Signals
// coalesce: a slow reader sees at most one pending signal.
func (p *Provider) Changes() <-chan struct{} {
	return p.changes
}

// SetChildren replaces the rendered subtree.
func (p *Provider) SetChildren(children ...view.Element) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.children = children
}

// Mounted reports whether the provider holds a subscription.
func (p *Provider) Mounted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mounted
}

// Mount subscribes to the source. Mounting a mounted provider is a no-op.
func (p *Provider) Mount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mounted {
		return
	}
	p.subscribeLocked()
	p.mounted = true
	p.logger.Info("provider is now listening")
}

func (p *Provider) subscribeLocked() {
	p.gen++
	gen := p.gen
	// Watch before reading so a commit in between is not lost.
	p.release = p.src.Watch(func() { p.refresh(gen) })
	p.value = p.src.State()
}

// Unmount releases the subscription.
func (p *Provider) Unmount() {
	p.mu.Lock()
	if !p.mounted {
		p.mu.Unlock()
		return
	}
	release := p.release
	p.release = nil
	p.mounted = false
	p.gen++
	p.mu.Unlock()

	release()
	p.logger.Debug("provider released its subscription")
}

// SetSource points the provider at src. When mounted, the old subscription
// is released and a new one established. Setting the current source again
// does nothing.
func (p *Provider) SetSource(src Source) {
	p.mu.Lock()
	if src == p.src {
		p.mu.Unlock()
		return
	}
	p.src = src

	var release func()
	if p.mounted {
		release = p.release
		p.subscribeLocked()
	}
	value, onChange := p.value, p.onChange
	mounted := p.mounted
	p.mu.Unlock()

	if release != nil {
		release()
	}
	p.logger.Debug("provider switched source")
	if mounted {
		p.signal(value, onChange)
	}
}

func (p *Provider) refresh(gen uint64) {
	p.mu.Lock()
	if !p.mounted || gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.value = p.src.State()
	value, onChange := p.value, p.onChange
	p.mu.Unlock()

	p.logger.WithField("value", value).Debug("Provide new value")
	p.signal(value, onChange)
}

func (p *Provider) signal(value any, onChange func(any)) {
	select {
	case p.changes <- struct{}{}:
	default:
	}
	if onChange != nil {
		onChange(value)
	}
}

// Snapshot returns the value children currently see.
func (p *Provider) Snapshot() any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Provider) snapshotLocked() any {
	if p.mounted {
		return p.value
	}
	return p.src.State()
}

// Render provides the snapshot to the children and renders them. Props are
// ignored.
func (p *Provider) Render(ctx *view.Context, _ view.Props) string {
	p.mu.Lock()
	value := p.snapshotLocked()
	children := p.children
	p.mu.Unlock()

	p.logger.WithField("value", value).Debug("Provide value")
	return view.RenderAll(view.Provide(ctx, Slot, value), children)
}
