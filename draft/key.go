package draft

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/grovetools/treestate/errors"
)

// TagName is the struct tag consulted when resolving a top-level key.
const TagName = "state"

// ProduceKey applies fn to a draft of the single top-level entry of base named
// key. Every other entry of the result is the base's own value. base may be a
// struct, a pointer to a struct, or a map with string keys (optionally held
// in an interface).
func ProduceKey[T, F any](base T, key string, fn Edit[F]) (T, error) {
	next, _, err := ApplyKey(base, key, fn)
	return next, err
}

// ApplyKey is ProduceKey that additionally reports whether anything changed.
func ApplyKey[T, F any](base T, key string, fn Edit[F]) (next T, changed bool, err error) {
	root := reflect.ValueOf(&base).Elem()

	c, err := locate(root, key)
	if err != nil {
		return base, false, err
	}

	want := reflect.TypeOf((*F)(nil)).Elem()
	field, unwrapped, err := fieldAs(c.value, want)
	if err != nil {
		return base, false, errors.TypeMismatch(key, want.String(), c.value.Type().String())
	}

	cur := valueOf[F](field)
	updated, changed, err := Apply(cur, fn)
	if err != nil || !changed {
		return base, false, err
	}

	nv := reflect.ValueOf(&updated).Elem()
	if unwrapped {
		w := reflect.New(c.value.Type()).Elem()
		w.Set(nv)
		nv = w
	}
	return valueOf[T](c.replace(nv)), true, nil
}

// container is a resolved top-level entry plus a way to rebuild the root with
// that entry replaced.
type container struct {
	value   reflect.Value
	replace func(v reflect.Value) reflect.Value
}

func locate(root reflect.Value, key string) (container, error) {
	v := root
	wrap := func(inner reflect.Value) reflect.Value { return inner }

	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return container{}, errors.UnsupportedState(root.Type().String(), "state is nil")
		}
		iface := v.Type()
		v = v.Elem()
		wrap = func(inner reflect.Value) reflect.Value {
			w := reflect.New(iface).Elem()
			w.Set(inner)
			return w
		}
	}

	switch {
	case v.Kind() == reflect.Pointer && v.Type().Elem().Kind() == reflect.Struct:
		if v.IsNil() {
			return container{}, errors.UnsupportedState(v.Type().String(), "state is a nil pointer")
		}
		inner, err := locateField(v.Elem(), key)
		if err != nil {
			return container{}, err
		}
		outer := wrap
		return container{
			value: inner.value,
			replace: func(nv reflect.Value) reflect.Value {
				p := reflect.New(v.Type().Elem())
				p.Elem().Set(inner.replace(nv))
				return outer(p)
			},
		}, nil

	case v.Kind() == reflect.Struct:
		inner, err := locateField(v, key)
		if err != nil {
			return container{}, err
		}
		outer := wrap
		return container{
			value:   inner.value,
			replace: func(nv reflect.Value) reflect.Value { return outer(inner.replace(nv)) },
		}, nil

	case v.Kind() == reflect.Map && v.Type().Key().Kind() == reflect.String:
		k := reflect.ValueOf(key).Convert(v.Type().Key())
		entry := v.MapIndex(k)
		if !entry.IsValid() {
			return container{}, errors.UnknownKey(key, suggest(key, mapKeys(v)))
		}
		outer := wrap
		return container{
			value: entry,
			replace: func(nv reflect.Value) reflect.Value {
				m := reflect.MakeMapWithSize(v.Type(), v.Len())
				iter := v.MapRange()
				for iter.Next() {
					m.SetMapIndex(iter.Key(), iter.Value())
				}
				m.SetMapIndex(k, nv)
				return outer(m)
			},
		}, nil
	}

	return container{}, errors.UnsupportedState(v.Type().String(), "keyed updates need a struct or a string-keyed map")
}

func locateField(sv reflect.Value, key string) (container, error) {
	t := sv.Type()
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := fieldKey(f)
		names = append(names, name)
		if name != key && f.Name != key {
			continue
		}
		idx := i
		return container{
			value: sv.Field(idx),
			replace: func(nv reflect.Value) reflect.Value {
				out := reflect.New(t).Elem()
				out.Set(sv)
				out.Field(idx).Set(nv)
				return out
			},
		}, nil
	}
	return container{}, errors.UnknownKey(key, suggest(key, names))
}

func fieldKey(f reflect.StructField) string {
	tag := f.Tag.Get(TagName)
	if tag == "" || tag == "-" {
		return f.Name
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return f.Name
}

// fieldAs returns v viewed as type want. An interface-typed entry holding a
// want is unwrapped, which is reported so the caller can re-wrap the result.
func fieldAs(v reflect.Value, want reflect.Type) (reflect.Value, bool, error) {
	if v.Type() == want {
		return v, false, nil
	}
	if v.Kind() == reflect.Interface && !v.IsNil() && v.Elem().Type() == want {
		return v.Elem(), true, nil
	}
	return reflect.Value{}, false, fmt.Errorf("cannot view %s as %s", v.Type(), want)
}

func mapKeys(m reflect.Value) []string {
	keys := make([]string, 0, m.Len())
	for _, k := range m.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys
}

// suggest returns the candidate closest to key, or "" when nothing is close.
func suggest(key string, candidates []string) string {
	best, bestDist := "", -1
	limit := len(key)/3 + 1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(strings.ToLower(key), strings.ToLower(c))
		if d > limit {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
