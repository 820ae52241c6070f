package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirsHonorTreestateHome(t *testing.T) {
	t.Setenv("TREESTATE_HOME", "/opt/ts")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")

	assert.Equal(t, "/opt/ts/config", ConfigDir())
	assert.Equal(t, "/opt/ts/state", StateDir())
	assert.Equal(t, "/opt/ts/state/treestate.log", DefaultLogFile())
}

func TestDirsHonorXDG(t *testing.T) {
	t.Setenv("TREESTATE_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")

	assert.Equal(t, "/xdg/config/treestate", ConfigDir())
	assert.Equal(t, "/xdg/state/treestate", StateDir())
}

func TestDirsFallBackToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TREESTATE_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")

	assert.Equal(t, filepath.Join(home, ".config", "treestate"), ConfigDir())
	assert.Equal(t, filepath.Join(home, ".local", "state", "treestate"), StateDir())
}

func TestExpand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LOG_DIR", "/var/log")

	got, err := Expand("~/logs/app.log")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs", "app.log"), got)

	got, err = Expand("$LOG_DIR/treestate.log")
	require.NoError(t, err)
	assert.Equal(t, "/var/log/treestate.log", got)

	got, err = Expand("relative.log")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}
