//go:build linux && !android

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeWithEnv runs the root command without replacing HOME or
// XDG_CONFIG_HOME, so tests can point discovery at a fixture install.
func executeWithEnv(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func writeFakeInstall(t *testing.T, configHome string) (storePath string) {
	t.Helper()
	userData := filepath.Join(configHome, "chromium")
	require.NoError(t, os.MkdirAll(filepath.Join(userData, "Default"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(userData, "Local State"),
		[]byte(`{"profile":{"info_cache":{"Default":{"name":"Person 1","is_using_default_name":true}}}}`),
		0o644,
	))
	return writeFixture(t, filepath.Join(userData, "Default"), "Current Tabs", sessionFixture(
		[2]string{"Example", "https://example.com/"},
	))
}

func TestLocateCommand(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("HOME", t.TempDir())
	store := writeFakeInstall(t, configHome)

	output, err := executeWithEnv(t, "locate", "--browser", "chromium")
	require.NoError(t, err)
	assert.Equal(t, "chromium\tPerson 1\t"+store+"\n", output)
}

func TestLocateCommand_NothingInstalled(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	output, err := executeWithEnv(t, "locate")
	require.NoError(t, err)
	assert.Empty(t, output)
}

func TestRun_BrowserFlag(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("HOME", t.TempDir())
	writeFakeInstall(t, configHome)

	output, err := executeWithEnv(t, "--browser", "chromium", "--quiet")
	require.NoError(t, err)
	assert.Equal(t, "Example\thttps://example.com/\n", output)
}
