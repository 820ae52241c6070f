// Package replay drives a store, a provider and a set of connected
// components through a scripted sequence of updates and reports which
// components re-rendered at every step.
//
// A script looks like this:
//
//	name: todos
//	state:
//	  filter: all
//	  todos: [{title: milk, done: false}]
//	components:
//	  - name: header
//	    select: {filter: filter}
//	  - name: list
//	    select: {items: todos}
//	steps:
//	  - name: switch filter
//	    set: {filter: done}
//	    expect: {rendered: [header], skipped: [list]}
package replay

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/grovetools/treestate/errors"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Script is a replay scenario.
type Script struct {
	Name       string          `yaml:"name" json:"name"`
	State      map[string]any  `yaml:"state" json:"state"`
	Components []ComponentSpec `yaml:"components" json:"components"`
	Steps      []Step          `yaml:"steps" json:"steps"`
}

// ComponentSpec places one connected component under the provider.
type ComponentSpec struct {
	Name string `yaml:"name" json:"name"`
	// Select maps prop names to dotted paths into the state.
	Select map[string]string `yaml:"select" json:"select,omitempty"`
	// Props are the component's own props, passed by its parent.
	Props map[string]any `yaml:"props" json:"props,omitempty"`
}

// Step is one update.
type Step struct {
	Name string `yaml:"name" json:"name"`
	// At scopes the step to one top-level key; paths in Set and Delete are
	// then relative to it.
	At     string         `yaml:"at" json:"at,omitempty"`
	Set    map[string]any `yaml:"set" json:"set,omitempty"`
	Delete []string       `yaml:"delete" json:"delete,omitempty"`
	// Fail makes the edit return an error after applying its changes, so
	// the update must be discarded.
	Fail   bool   `yaml:"fail" json:"fail,omitempty"`
	Expect Expect `yaml:"expect" json:"expect"`
}

// Expect lists the components that must and must not render in a step. A
// nil list is not checked.
type Expect struct {
	Rendered []string `yaml:"rendered" json:"rendered,omitempty"`
	Skipped  []string `yaml:"skipped" json:"skipped,omitempty"`
}

// Load reads a script from a .yml, .yaml or .toml file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ScriptInvalid(path, err.Error())
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		format = "toml"
	}
	script, err := Parse(data, format)
	if err != nil {
		if se, ok := err.(*errors.StoreError); ok {
			return nil, se.WithDetail("path", path)
		}
		return nil, err
	}
	return script, nil
}

// Parse decodes a script. format is "yaml" or "toml". Unknown fields are
// rejected.
func Parse(data []byte, format string) (*Script, error) {
	raw := map[string]any{}
	var err error
	switch format {
	case "toml":
		err = toml.Unmarshal(data, &raw)
	default:
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, errors.ScriptInvalid("", err.Error())
	}

	var script Script
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &script,
		TagName:     "yaml",
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.ScriptInvalid("", err.Error())
	}

	if err := script.validate(); err != nil {
		return nil, err
	}
	if script.State == nil {
		script.State = map[string]any{}
	}
	return &script, nil
}

func (s *Script) validate() error {
	var problems []string
	seen := map[string]bool{}
	for i, c := range s.Components {
		switch {
		case c.Name == "":
			problems = append(problems, fmt.Sprintf("components[%d]: name is required", i))
		case seen[c.Name]:
			problems = append(problems, fmt.Sprintf("components[%d]: duplicate name %q", i, c.Name))
		}
		seen[c.Name] = true
		for _, prop := range sortedKeys(c.Select) {
			if c.Select[prop] == "" {
				problems = append(problems, fmt.Sprintf("components[%d]: select.%s has an empty path", i, prop))
			}
		}
	}
	for i, st := range s.Steps {
		if len(st.Set) == 0 && len(st.Delete) == 0 && !st.Fail {
			problems = append(problems, fmt.Sprintf("steps[%d]: nothing to set or delete", i))
		}
		for _, name := range append(append([]string{}, st.Expect.Rendered...), st.Expect.Skipped...) {
			if !seen[name] {
				problems = append(problems, fmt.Sprintf("steps[%d]: expect names unknown component %q", i, name))
			}
		}
	}
	if len(problems) > 0 {
		return errors.ScriptInvalid("", strings.Join(problems, "; "))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
