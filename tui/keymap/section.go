package keymap

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
)

// Section names shared by the demo and logs views.
const (
	SectionNavigation = "Navigation"
	SectionStore      = "Store"
	SectionDebug      = "Debug"
	SectionLogs       = "Logs"
	SectionSystem     = "System"
)

// Section is a named column of the full help view.
type Section struct {
	Name     string
	Bindings []key.Binding
}

// SectionedKeyMap is implemented by keymaps that group their bindings.
type SectionedKeyMap interface {
	Sections() []Section
}

// NewSection creates a section with a custom name.
func NewSection(name string, bindings ...key.Binding) Section {
	return Section{Name: name, Bindings: bindings}
}

func NavigationSection(bindings ...key.Binding) Section {
	return Section{Name: SectionNavigation, Bindings: bindings}
}

// StoreSection holds bindings that dispatch updates to a store.
func StoreSection(bindings ...key.Binding) Section {
	return Section{Name: SectionStore, Bindings: bindings}
}

// DebugSection holds bindings for tracing and render diagnostics.
func DebugSection(bindings ...key.Binding) Section {
	return Section{Name: SectionDebug, Bindings: bindings}
}

func LogsSection(bindings ...key.Binding) Section {
	return Section{Name: SectionLogs, Bindings: bindings}
}

func SystemSection(bindings ...key.Binding) Section {
	return Section{Name: SectionSystem, Bindings: bindings}
}

// MergeSections joins sections sharing a name into the first of them,
// keeping first-seen order. A binding already present in a section, by its
// keys, is not added twice.
func MergeSections(sections ...Section) []Section {
	var out []Section
	index := make(map[string]int)
	for _, s := range sections {
		i, ok := index[s.Name]
		if !ok {
			index[s.Name] = len(out)
			out = append(out, NewSection(s.Name))
			i = len(out) - 1
		}
		for _, b := range s.Bindings {
			if !out[i].has(b) {
				out[i].Bindings = append(out[i].Bindings, b)
			}
		}
	}
	return out
}

func (s Section) has(b key.Binding) bool {
	for _, existing := range s.Bindings {
		if slices.Equal(existing.Keys(), b.Keys()) {
			return true
		}
	}
	return false
}

// FilterEnabled returns only the enabled bindings.
func (s Section) FilterEnabled() []key.Binding {
	var result []key.Binding
	for _, b := range s.Bindings {
		if b.Enabled() {
			result = append(result, b)
		}
	}
	return result
}

// IsEmpty reports whether the section has no enabled bindings.
func (s Section) IsEmpty() bool {
	return len(s.FilterEnabled()) == 0
}

// With returns a copy of s with bindings appended.
func (s Section) With(bindings ...key.Binding) Section {
	combined := make([]key.Binding, len(s.Bindings), len(s.Bindings)+len(bindings))
	copy(combined, s.Bindings)
	combined = append(combined, bindings...)
	return Section{Name: s.Name, Bindings: combined}
}
