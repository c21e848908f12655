package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/linkback/internal/config"
)

func TestInitWritesLoadableConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "linkback.yaml")
	opts := &RootOptions{ConfigPath: cfgPath, Format: "text"}

	out, err := runCommand(t, NewInitCommand(opts), "app-1234abcd")
	require.NoError(t, err)
	assert.Contains(t, out, cfgPath)

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "app-1234abcd", cfg.ApplicationID)
	assert.Equal(t, "https://api.usebutton.com", cfg.BaseURL)
}

func TestInitRefusesOverwrite(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "linkback.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("application_id: existing\n"), 0o644))
	opts := &RootOptions{ConfigPath: cfgPath, Format: "text"}

	_, err := runCommand(t, NewInitCommand(opts), "app-other")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	// Original content untouched.
	data, readErr := os.ReadFile(cfgPath)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "existing")
}
