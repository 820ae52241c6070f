package store

import (
	"github.com/grovetools/treestate/logging"
	"github.com/sirupsen/logrus"
)

type settings struct {
	name   string
	debug  bool
	logger *logrus.Entry
}

// Option configures a Store at creation time.
type Option func(*settings)

// WithName labels the store in log output.
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

// WithDebug turns on tracing of update calls and emitted snapshots.
func WithDebug(enabled bool) Option {
	return func(s *settings) { s.debug = enabled }
}

// WithLogger sets the logger used for tracing. It defaults to the shared
// "treestate.store" component logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(s *settings) { s.logger = logger }
}

func newSettings(opts []Option) settings {
	s := settings{name: "store"}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = logging.NewLogger("treestate.store")
	}
	return s
}
