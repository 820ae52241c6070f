package draft

import (
	"reflect"

	"github.com/grovetools/treestate/errors"
	"github.com/grovetools/treestate/shallow"
)

var sameValue = shallow.SameValue

type refKey struct {
	addr uintptr
	typ  reflect.Type
}

// cloner deep-copies a value graph. Pointers reached more than once are
// cloned once so aliasing inside the draft mirrors aliasing in the base.
type cloner struct {
	done   map[refKey]reflect.Value
	active map[refKey]bool
}

func newCloner() *cloner {
	return &cloner{
		done:   make(map[refKey]reflect.Value),
		active: make(map[refKey]bool),
	}
}

func (c *cloner) enter(v reflect.Value) (refKey, error) {
	key := refKey{addr: v.Pointer(), typ: v.Type()}
	if c.active[key] {
		return key, errors.CyclicState(v.Type().String())
	}
	c.active[key] = true
	return key, nil
}

func (c *cloner) clone(v reflect.Value) (reflect.Value, error) {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return v, nil
		}
		if d, ok := c.done[refKey{v.Pointer(), v.Type()}]; ok {
			return d, nil
		}
		key, err := c.enter(v)
		if err != nil {
			return reflect.Value{}, err
		}
		defer delete(c.active, key)

		elem, err := c.clone(v.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(v.Type().Elem())
		p.Elem().Set(elem)
		c.done[key] = p
		return p, nil

	case reflect.Map:
		if v.IsNil() {
			return v, nil
		}
		key, err := c.enter(v)
		if err != nil {
			return reflect.Value{}, err
		}
		defer delete(c.active, key)

		m := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			cv, err := c.clone(iter.Value())
			if err != nil {
				return reflect.Value{}, err
			}
			m.SetMapIndex(iter.Key(), cv)
		}
		return m, nil

	case reflect.Slice:
		if v.IsNil() {
			return v, nil
		}
		var key refKey
		if v.Len() > 0 {
			k, err := c.enter(v)
			if err != nil {
				return reflect.Value{}, err
			}
			key = k
			defer delete(c.active, key)
		}

		s := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			cv, err := c.clone(v.Index(i))
			if err != nil {
				return reflect.Value{}, err
			}
			s.Index(i).Set(cv)
		}
		return s, nil

	case reflect.Array:
		a := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			cv, err := c.clone(v.Index(i))
			if err != nil {
				return reflect.Value{}, err
			}
			a.Index(i).Set(cv)
		}
		return a, nil

	case reflect.Struct:
		s := reflect.New(v.Type()).Elem()
		s.Set(v)
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			cv, err := c.clone(v.Field(i))
			if err != nil {
				return reflect.Value{}, err
			}
			s.Field(i).Set(cv)
		}
		return s, nil

	case reflect.Interface:
		if v.IsNil() {
			return v, nil
		}
		cv, err := c.clone(v.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		w := reflect.New(v.Type()).Elem()
		w.Set(cv)
		return w, nil
	}

	return v, nil
}
