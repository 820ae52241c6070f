package view

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// PropTag is the struct tag read by Decode and ToProps.
const PropTag = "prop"

// Props are the named inputs of a component.
type Props map[string]any

// Get returns the value stored under key, or nil.
func (p Props) Get(key string) any {
	return p[key]
}

// String returns p with keys sorted, for logs and reports.
func (p Props) String() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s:%v", k, p[k])
	}
	b.WriteString("}")
	return b.String()
}

// Merge returns a new Props holding computed overlaid by parent. Keys present
// in both take the parent's value.
func Merge(computed, parent Props) Props {
	out := make(Props, len(computed)+len(parent))
	for k, v := range computed {
		out[k] = v
	}
	for k, v := range parent {
		out[k] = v
	}
	return out
}

// Decode copies props into the struct pointed to by out, matching `prop`
// tags and falling back to case-insensitive field names.
func Decode(props Props, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: PropTag,
	})
	if err != nil {
		return fmt.Errorf("failed to create props decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(props)); err != nil {
		return fmt.Errorf("failed to decode props: %w", err)
	}
	return nil
}

// ToProps flattens the exported fields of a struct, or a pointer to one,
// into Props keyed by their `prop` tag or, untagged, their field name. A tag
// of "-" skips the field. Field values are stored as they are, so nested
// structs, slices and maps keep their identity under shallow comparison.
func ToProps(v any) (Props, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("failed to encode props: nil %s", rv.Type())
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("failed to encode props: expected a struct, got %T", v)
	}

	rt := rv.Type()
	out := make(Props, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get(PropTag), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}
		out[name] = rv.Field(i).Interface()
	}
	return out, nil
}
