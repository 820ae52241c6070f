package keymap

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
)

// Overrides maps snake_case binding names to replacement keys.
type Overrides map[string][]string

// ApplyOverrides replaces the keys of every key.Binding field of km whose
// snake_case name appears in overrides. Embedded structs are processed too.
//
//	km := KeyMap{Increment: key.NewBinding(...), ...}
//	ApplyOverrides(&km, overrides) // overrides["increment"] -> km.Increment
func ApplyOverrides(km interface{}, overrides Overrides) {
	if overrides == nil {
		return
	}

	v := reflect.ValueOf(km)
	if v.Kind() != reflect.Ptr {
		return
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return
	}

	applyOverridesRecursive(v, overrides)
}

func applyOverridesRecursive(v reflect.Value, overrides Overrides) {
	t := v.Type()
	bindingType := reflect.TypeOf(key.Binding{})

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		if fieldType.Anonymous && field.Kind() == reflect.Struct {
			applyOverridesRecursive(field, overrides)
			continue
		}

		if fieldType.Type != bindingType {
			continue
		}

		keys, ok := overrides[camelToSnake(fieldType.Name)]
		if !ok || len(keys) == 0 {
			continue
		}

		// Keep the help description, only the keys change.
		desc := field.Interface().(key.Binding).Help().Desc
		field.Set(reflect.ValueOf(key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(keys[0], desc),
		)))
	}
}

// camelToSnake converts a CamelCase string to snake_case.
// Examples: AddItem -> add_item, HTTPServer -> h_t_t_p_server
func camelToSnake(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				result.WriteRune('_')
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
