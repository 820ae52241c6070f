package draft

import (
	"reflect"
)

// Edit is a function that mutates a draft in place.
type Edit[T any] func(draft *T) error

// Produce applies fn to a draft of base and returns the resulting snapshot.
// On error base is returned unchanged together with the error.
func Produce[T any](base T, fn Edit[T]) (T, error) {
	next, _, err := Apply(base, fn)
	return next, err
}

// Apply is Produce that additionally reports whether the result differs from
// base. When changed is false the returned value is base itself.
func Apply[T any](base T, fn Edit[T]) (next T, changed bool, err error) {
	bv := reflect.ValueOf(&base).Elem()

	cloned, err := newCloner().clone(bv)
	if err != nil {
		return base, false, err
	}

	d := new(T)
	reflect.ValueOf(d).Elem().Set(cloned)
	if err := fn(d); err != nil {
		return base, false, err
	}

	out, changed := newSharer().share(bv, reflect.ValueOf(d).Elem())
	if !changed {
		return base, false, nil
	}
	return valueOf[T](out), true, nil
}

// valueOf converts v to T without tripping over nil interfaces.
func valueOf[T any](v reflect.Value) T {
	p := new(T)
	reflect.ValueOf(p).Elem().Set(v)
	return *p
}

type pairKey struct {
	base, next uintptr
	typ        reflect.Type
}

type shared struct {
	value   reflect.Value
	changed bool
}

// sharer reconciles a draft against its base. Each (base, draft) pointer
// pair is rebuilt once, so pointers aliased in the draft stay aliased in the
// result.
type sharer struct {
	ptrs map[pairKey]shared
}

func newSharer() *sharer {
	return &sharer{ptrs: make(map[pairKey]shared)}
}

// share rebuilds next so that every sub-value equal to its counterpart in base
// is the base's own value. It reports whether anything differed.
func (sh *sharer) share(base, next reflect.Value) (reflect.Value, bool) {
	switch next.Kind() {
	case reflect.Pointer:
		if base.IsNil() || next.IsNil() {
			return pick(base, next, base.IsNil() && next.IsNil())
		}
		if base.Pointer() == next.Pointer() {
			return base, false
		}
		key := pairKey{base: base.Pointer(), next: next.Pointer(), typ: next.Type()}
		if r, ok := sh.ptrs[key]; ok {
			return r.value, r.changed
		}
		r := shared{value: base}
		if elem, changed := sh.share(base.Elem(), next.Elem()); changed {
			r.value = reflect.New(next.Type().Elem())
			r.value.Elem().Set(elem)
			r.changed = true
		}
		sh.ptrs[key] = r
		return r.value, r.changed

	case reflect.Map:
		if base.IsNil() || next.IsNil() {
			return pick(base, next, base.IsNil() && next.IsNil())
		}
		if base.Pointer() == next.Pointer() {
			return base, false
		}
		changed := base.Len() != next.Len()
		out := reflect.MakeMapWithSize(next.Type(), next.Len())
		iter := next.MapRange()
		for iter.Next() {
			k, nv := iter.Key(), iter.Value()
			bv := base.MapIndex(k)
			if !bv.IsValid() {
				out.SetMapIndex(k, nv)
				changed = true
				continue
			}
			v, c := sh.share(bv, nv)
			changed = changed || c
			out.SetMapIndex(k, v)
		}
		return pick(base, out, !changed)

	case reflect.Slice:
		if base.IsNil() || next.IsNil() {
			return pick(base, next, base.IsNil() && next.IsNil())
		}
		if base.Pointer() == next.Pointer() && base.Len() == next.Len() {
			return base, false
		}
		changed := base.Len() != next.Len()
		out := reflect.MakeSlice(next.Type(), next.Len(), next.Len())
		for i := 0; i < next.Len(); i++ {
			if i >= base.Len() {
				out.Index(i).Set(next.Index(i))
				continue
			}
			v, c := sh.share(base.Index(i), next.Index(i))
			changed = changed || c
			out.Index(i).Set(v)
		}
		return pick(base, out, !changed)

	case reflect.Array:
		changed := false
		out := reflect.New(next.Type()).Elem()
		for i := 0; i < next.Len(); i++ {
			v, c := sh.share(base.Index(i), next.Index(i))
			changed = changed || c
			out.Index(i).Set(v)
		}
		return pick(base, out, !changed)

	case reflect.Struct:
		changed := false
		out := reflect.New(next.Type()).Elem()
		out.Set(next)
		t := next.Type()
		for i := 0; i < next.NumField(); i++ {
			if !t.Field(i).IsExported() {
				if !sameValue(base.Field(i), next.Field(i)) {
					changed = true
				}
				continue
			}
			v, c := sh.share(base.Field(i), next.Field(i))
			changed = changed || c
			out.Field(i).Set(v)
		}
		return pick(base, out, !changed)

	case reflect.Interface:
		if base.IsNil() || next.IsNil() {
			return pick(base, next, base.IsNil() && next.IsNil())
		}
		if base.Elem().Type() != next.Elem().Type() {
			return next, true
		}
		elem, changed := sh.share(base.Elem(), next.Elem())
		if !changed {
			return base, false
		}
		w := reflect.New(next.Type()).Elem()
		w.Set(elem)
		return w, true
	}

	return pick(base, next, sameValue(base, next))
}

func pick(base, next reflect.Value, same bool) (reflect.Value, bool) {
	if same {
		return base, false
	}
	return next, true
}
