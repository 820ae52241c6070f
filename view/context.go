package view

// Context is an immutable chain of provided values. The nil *Context is an
// empty context.
type Context struct {
	parent *Context
	key    *slotKey
	value  any
}

type slotKey struct {
	name string
}

// Background returns the empty root context.
func Background() *Context {
	return nil
}

// Slot is a typed ambient value. Reading a slot nobody provided yields its
// default.
type Slot[T any] struct {
	key *slotKey
	def T
}

// NewSlot creates a slot. Two slots are distinct even when their names match.
func NewSlot[T any](name string, def T) *Slot[T] {
	return &Slot[T]{key: &slotKey{name: name}, def: def}
}

// Name returns the slot's name.
func (s *Slot[T]) Name() string {
	return s.key.name
}

// Provide returns a child of ctx in which slot holds value.
func Provide[T any](ctx *Context, slot *Slot[T], value T) *Context {
	return &Context{parent: ctx, key: slot.key, value: value}
}

// Lookup returns the nearest value provided for slot.
func Lookup[T any](ctx *Context, slot *Slot[T]) (T, bool) {
	for c := ctx; c != nil; c = c.parent {
		if c.key == slot.key {
			// A nil value provided for an interface-typed slot fails the
			// assertion and reads as the zero T.
			v, _ := c.value.(T)
			return v, true
		}
	}
	return slot.def, false
}

// Use returns the nearest value provided for slot, or its default.
func Use[T any](ctx *Context, slot *Slot[T]) T {
	v, _ := Lookup(ctx, slot)
	return v
}
