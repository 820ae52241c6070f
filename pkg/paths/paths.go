// Package paths resolves the directories treestate reads from and writes to.
//
// Resolution order:
//  1. TREESTATE_HOME: $TREESTATE_HOME/{config,state}
//  2. XDG env vars: $XDG_CONFIG_HOME/treestate, $XDG_STATE_HOME/treestate
//  3. Platform defaults: ~/.config/treestate, ~/.local/state/treestate
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const appName = "treestate"

func base(sub, xdgVar string, fallback ...string) string {
	if home := os.Getenv("TREESTATE_HOME"); home != "" {
		return filepath.Join(home, sub)
	}
	if dir := os.Getenv(xdgVar); dir != "" {
		return filepath.Join(dir, appName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(append(append([]string{home}, fallback...), appName)...)
	}
	return ""
}

// ConfigDir returns the directory holding the global treestate.yml.
func ConfigDir() string {
	return base("config", "XDG_CONFIG_HOME", ".config")
}

// StateDir returns the directory for logs and other runtime files.
func StateDir() string {
	return base("state", "XDG_STATE_HOME", ".local", "state")
}

// DefaultLogFile is used when file logging is enabled without a path.
func DefaultLogFile() string {
	dir := StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "treestate.log")
}

// Expand expands a leading ~/ and environment variables and returns an
// absolute path.
func Expand(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not get user home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return filepath.Abs(os.ExpandEnv(path))
}
