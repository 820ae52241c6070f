package logging

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/grovetools/treestate/tui/theme"
	"github.com/sirupsen/logrus"
)

// scopeFields identify the store, provider or connected component an entry
// came from. They are rendered as tags after the component, in this order.
var scopeFields = []string{"store", "provider", "connected"}

const (
	// providerIDWidth shortens provider uuids in tags.
	providerIDWidth = 8
	// maxValueWidth bounds rendered field values; state snapshots can be large.
	maxValueWidth = 80
)

// TextFormatter renders entries as a single line:
//
//	2006-01-02 15:04:05 [INFO] [treestate.store] [store:demo] message key=value
//
// Scope fields become tags and the remaining fields follow in key order.
type TextFormatter struct {
	Config FormatConfig
}

// Format renders a single log entry.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	if !f.Config.DisableTimestamp {
		b.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
		b.WriteString(" ")
	}

	level := entry.Level.String()
	if level == "warning" {
		level = "warn"
	}
	fmt.Fprintf(&b, "[%s]", strings.ToUpper(level))

	if component, ok := entry.Data["component"]; ok && !f.Config.DisableComponent {
		fmt.Fprintf(&b, " [%s]", theme.DefaultTheme.Accent.Render(fmt.Sprint(component)))
	}

	for _, key := range scopeFields {
		if value, ok := entry.Data[key]; ok {
			fmt.Fprintf(&b, " [%s:%s]", key, scopeValue(key, value))
		}
	}

	if entry.HasCaller() {
		fileName := filepath.Base(entry.Caller.File)
		funcName := filepath.Base(entry.Caller.Function)
		fmt.Fprintf(&b, " [%s:%d %s]", fileName, entry.Caller.Line, funcName)
	}

	b.WriteString(" ")
	b.WriteString(entry.Message)

	for _, key := range fieldKeys(entry.Data) {
		fmt.Fprintf(&b, " %s=%s", key, fieldValue(entry.Data[key]))
	}

	b.WriteString("\n")
	return []byte(b.String()), nil
}

func scopeValue(key string, value any) string {
	s := fmt.Sprint(value)
	if key == "provider" && len(s) > providerIDWidth {
		s = s[:providerIDWidth]
	}
	return s
}

// fieldKeys returns the keys not rendered as tags, sorted.
func fieldKeys(data logrus.Fields) []string {
	keys := make([]string, 0, len(data))
	for key := range data {
		if key == "component" || slices.Contains(scopeFields, key) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func fieldValue(value any) string {
	s := fmt.Sprintf("%+v", value)
	if r := []rune(s); len(r) > maxValueWidth {
		s = string(r[:maxValueWidth-1]) + "…"
	}
	if strings.ContainsAny(s, " \t\n\"") {
		s = fmt.Sprintf("%q", s)
	}
	return s
}
