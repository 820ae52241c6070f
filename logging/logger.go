package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/grovetools/treestate/config"
	"github.com/grovetools/treestate/pkg/paths"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	var logCfg Config
	if cfg, err := config.LoadDefault(); err == nil {
		if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
			logrus.Warnf("Failed to parse 'logging' config: %v", err)
		}
	}

	entry := New(component, logCfg)
	loggers[component] = entry
	return entry
}

// New builds a logger for component from an explicit configuration, bypassing
// the per-component cache. Environment overrides still apply.
func New(component string, logCfg Config) *logrus.Entry {
	logger := logrus.New()

	levelStr := "info"
	if env := os.Getenv("TREESTATE_LOG_LEVEL"); env != "" {
		levelStr = env
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if os.Getenv("TREESTATE_LOG_CALLER") == "true" || logCfg.ReportCaller {
		logger.SetReportCaller(true)
	}

	switch logCfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: logCfg.Format})
	}

	var writers []io.Writer

	if logCfg.File.Enabled {
		path := logCfg.File.Path
		if path == "" {
			path = paths.DefaultLogFile()
		}
		path = expandPath(path)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			logger.Warnf("Failed to create log directory %s: %v", filepath.Dir(path), err)
		} else if file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err != nil {
			logger.Warnf("Failed to open log file %s: %v", path, err)
		} else {
			writers = append(writers, file)
		}
	}

	if shouldLogToStderr(logCfg.Format.StructuredToStderr, logger.GetLevel()) {
		writers = append(writers, GetGlobalOutput())
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	return logger.WithField("component", component)
}

// shouldLogToStderr resolves the structured_to_stderr mode. In "auto" mode logs
// reach stderr only when debugging or when stderr is not a terminal.
func shouldLogToStderr(mode string, level logrus.Level) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	isDebug := os.Getenv("TREESTATE_DEBUG") == "1" || level >= logrus.DebugLevel
	isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return isDebug || !isInteractive
}

// expandPath expands tilde in file paths
func expandPath(path string) string {
	if expanded, err := paths.Expand(path); err == nil {
		return expanded
	}
	return path
}
