package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/grovetools/treestate/view"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// Recorder is a component that remembers every props value it rendered.
type Recorder struct {
	Name string

	mu    sync.Mutex
	calls []view.Props
}

// NewRecorder creates a recorder that renders as "name props".
func NewRecorder(name string) *Recorder {
	return &Recorder{Name: name}
}

// Render records props.
func (r *Recorder) Render(_ *view.Context, props view.Props) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, props)
	return fmt.Sprintf("%s %s", r.Name, props)
}

// Renders returns how many times the recorder rendered.
func (r *Recorder) Renders() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// Last returns the props of the latest render, or nil.
func (r *Recorder) Last() view.Props {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

// LogCapture returns a logger that keeps entries in memory instead of writing them.
func LogCapture() (*logrus.Entry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logrus.NewEntry(logger), hook
}

// Messages lists the messages captured by hook, oldest first.
func Messages(hook *test.Hook) []string {
	entries := hook.AllEntries()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Message)
	}
	return out
}

// WriteFile writes content to name under dir, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
