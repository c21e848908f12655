package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFreshStore(t *testing.T) {
	opts := writeTestConfig(t, t.TempDir(), "https://api.example.com")

	out, err := runCommand(t, NewStatusCommand(opts))
	require.NoError(t, err)
	assert.Contains(t, out, "app-test")
	assert.Contains(t, out, "(none)")
	assert.Contains(t, out, "deferred checked:  false")
}

func TestStatusReflectsWrites(t *testing.T) {
	opts := writeTestConfig(t, t.TempDir(), "https://api.example.com")

	_, err := runCommand(t, NewSessionCommand(opts), "set", "sess-42")
	require.NoError(t, err)
	_, err = runCommand(t, NewTrackIntentCommand(opts), "app://home?btn_ref=srctok-abc")
	require.NoError(t, err)
	_, err = runCommand(t, NewInstallReferrerCommand(opts), "set", "utm_source=newsletter")
	require.NoError(t, err)

	out, err := runCommand(t, NewStatusCommand(opts))
	require.NoError(t, err)
	assert.Contains(t, out, "sess-42")
	assert.Contains(t, out, "srctok-abc")
	assert.Contains(t, out, "utm_source=newsletter")
}

func TestStatusJSON(t *testing.T) {
	opts := writeTestConfig(t, t.TempDir(), "https://api.example.com")
	opts.Format = "json"

	_, err := runCommand(t, NewSessionCommand(opts), "set", "sess-json")
	require.NoError(t, err)

	out, err := runCommand(t, NewStatusCommand(opts))
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "app-test", data["application_id"])
	assert.Equal(t, "sess-json", data["session_id"])
}

func TestClearResetsState(t *testing.T) {
	opts := writeTestConfig(t, t.TempDir(), "https://api.example.com")

	_, err := runCommand(t, NewSessionCommand(opts), "set", "sess-99")
	require.NoError(t, err)
	_, err = runCommand(t, NewTrackIntentCommand(opts), "app://home?btn_ref=srctok-xyz")
	require.NoError(t, err)

	out, err := runCommand(t, NewClearCommand(opts))
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")

	out, err = runCommand(t, NewStatusCommand(opts))
	require.NoError(t, err)
	assert.NotContains(t, out, "sess-99")
	assert.NotContains(t, out, "srctok-xyz")
	assert.Contains(t, out, "deferred checked:  false")
}
