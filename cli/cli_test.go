package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/grovetools/treestate/errors"
	"github.com/grovetools/treestate/testutil"
	"github.com/grovetools/treestate/version"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoot(args ...string) (*cobra.Command, *bytes.Buffer) {
	root := NewStandardCommand("treestate", "Inspect treestate stores")
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	return root, out
}

func TestStandardFlags(t *testing.T) {
	root, _ := newRoot("-v", "--json", "-c", "x.yml")
	var opts CommandOptions
	root.RunE = func(cmd *cobra.Command, args []string) error {
		opts = GetOptions(cmd)
		return nil
	}
	require.NoError(t, root.Execute())
	assert.Equal(t, CommandOptions{ConfigFile: "x.yml", Verbose: true, JSONOutput: true}, opts)
}

func TestLoadConfigWithoutFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Chdir(dir)

	root, _ := newRoot()
	cfg, path, err := LoadConfig(root)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, "1.0", cfg.Version)
}

func TestLoadConfigFromFlag(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "custom.yml", "version: \"1.0\"\ndebug: true\n")

	root, _ := newRoot("--config", path)
	var got bool
	root.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, _, err := LoadConfig(cmd)
		if err != nil {
			return err
		}
		got = cfg.Debug
		return nil
	}
	require.NoError(t, root.Execute())
	assert.True(t, got)
}

func TestLoadConfigMissingFlagFile(t *testing.T) {
	root, _ := newRoot("--config", "/nonexistent/treestate.yml")
	root.RunE = func(cmd *cobra.Command, args []string) error {
		_, _, err := LoadConfig(cmd)
		return err
	}
	err := root.Execute()
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", errors.ConfigNotFound("/x"), "Create a treestate.yml"},
		{"invalid config", errors.ConfigInvalid("- /debug: expected boolean"), "treestate schema"},
		{"script", errors.ScriptInvalid("a.yml", "steps[0]: nothing to set"), "Replay script a.yml is invalid"},
		{"unknown key", errors.UnknownKey("usr", "user"), "did you mean 'user'"},
		{"plain", fmt.Errorf("boom"), "Error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			returned := NewErrorHandler(false, &out).Handle(tt.err)
			assert.Equal(t, tt.err, returned)
			assert.Contains(t, out.String(), tt.want)
			assert.NotContains(t, out.String(), "Error details")
		})
	}
}

func TestErrorHandlerVerbose(t *testing.T) {
	var out bytes.Buffer
	_ = NewErrorHandler(true, &out).Handle(errors.ConfigNotFound("/x"))
	assert.Contains(t, out.String(), "Error details")
	assert.Contains(t, out.String(), `"code": "CONFIG_NOT_FOUND"`)

	assert.NoError(t, NewErrorHandler(true, &out).Handle(nil))
}

func TestStyledHelp(t *testing.T) {
	root, out := newRoot("--help")
	root.Long = "Inspect treestate stores.\n\nExamples:\n  # replay a script\n  treestate replay todos.yml"
	root.AddCommand(&cobra.Command{Use: "replay", Short: "Replay a script", Run: func(*cobra.Command, []string) {}})

	require.NoError(t, root.Execute())
	help := out.String()
	assert.Contains(t, help, "TREESTATE")
	assert.Contains(t, help, "COMMANDS")
	assert.Regexp(t, `replay\s+Replay a script`, help)
	assert.Contains(t, help, "--config")
	assert.Contains(t, help, "EXAMPLES")
	assert.Contains(t, help, "# replay a script")
}

func TestWrapText(t *testing.T) {
	wrapped := wrapText("one two three four five", 9)
	assert.Equal(t, "one two\nthree\nfour five", wrapped)
	assert.Equal(t, "keep\nlines", wrapText("keep\nlines", 40))
}

func TestVersionCommand(t *testing.T) {
	info := version.Info{Version: "v1.0.0", Commit: "abc", BuildDate: "today", GoVersion: "go1.24", Platform: "linux/amd64"}

	root, out := newRoot("version")
	root.AddCommand(NewVersionCommand("treestate", info))
	require.NoError(t, root.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "treestate v1.0.0"))

	root, out = newRoot("version", "--json")
	root.AddCommand(NewVersionCommand("treestate", info))
	require.NoError(t, root.Execute())
	var decoded version.Info
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, info, decoded)
}
