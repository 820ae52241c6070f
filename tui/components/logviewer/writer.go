package logviewer

import (
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// StreamWriter is an io.Writer that forwards complete lines as LogLineMsg.
// Partial lines are buffered until their newline arrives. Install it with
// logging.SetGlobalOutput to show store traces inside a running program.
type StreamWriter struct {
	send   func(tea.Msg)
	source string

	mu     sync.Mutex
	buffer strings.Builder
}

// NewStreamWriter creates a writer that passes every line to send, usually
// (*tea.Program).Send.
func NewStreamWriter(send func(tea.Msg), source string) *StreamWriter {
	return &StreamWriter{send: send, source: source}
}

// Write implements io.Writer.
func (w *StreamWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buffer.Write(p)
	lines := strings.Split(w.buffer.String(), "\n")
	w.buffer.Reset()
	w.buffer.WriteString(lines[len(lines)-1])

	for _, line := range lines[:len(lines)-1] {
		if w.send != nil {
			w.send(LogLineMsg{Source: w.source, Line: line})
		}
	}
	return len(p), nil
}
