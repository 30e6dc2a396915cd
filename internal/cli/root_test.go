package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bellYAML = `name: bell
body:
  - qreg: { name: q, size: 2 }
  - creg: { name: c, size: 2 }
  - apply: { gate: h, qubits: ["q[0]"] }
  - apply: { gate: cx, qubits: ["q[0]", "q[1]"] }
  - apply: { gate: measure, qubits: ["q[0]"], clbits: ["c[0]"] }
  - apply: { gate: measure, qubits: ["q[1]"], clbits: ["c[1]"] }
`

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeFile writes content to name inside dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// decodeResponse parses a JSON envelope, decoding Data into data if non-nil.
func decodeResponse(t *testing.T, out string, data any) CLIResponse {
	t.Helper()
	var raw struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &raw), out)
	if data != nil {
		require.NoError(t, json.Unmarshal(raw.Data, data), out)
	}
	return CLIResponse{Status: raw.Status, Error: raw.Error}
}

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := NewRootCommand()

	names := make([]string, 0)
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"build", "validate", "show", "gates", "test"}, names)

	for _, flag := range []string{"verbose", "format", "config"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
	assert.Equal(t, "text", cmd.PersistentFlags().Lookup("format").DefValue)
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bell.yaml", bellYAML)

	_, _, err := execute(t, "validate", path, "--format", "xml")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid format "xml"`)
	assert.False(t, Reported(err))
}

func TestRootCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bell.yaml", bellYAML)
	cfg := writeFile(t, dir, "custom.toml", "format = \"json\"\ndb = \""+filepath.Join(dir, "archive.db")+"\"\n")

	stdout, _, err := execute(t, "--config", cfg, "build", path)
	require.NoError(t, err)

	var summary BuildSummary
	resp := decodeResponse(t, stdout, &summary)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, summary.Stored)
	assert.FileExists(t, filepath.Join(dir, "archive.db"))
}

func TestRootCommand_FlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bell.yaml", bellYAML)
	cfg := writeFile(t, dir, "custom.toml", "format = \"json\"\n")

	stdout, _, err := execute(t, "--config", cfg, "--format", "text", "validate", path)
	require.NoError(t, err)
	assert.Equal(t, "✓ Program bell valid (6 statements)\n", stdout)
}

func TestRootCommand_DefaultConfigInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bell.yaml", bellYAML)
	writeFile(t, dir, "qbridge.toml", "format = \"json\"\n")
	t.Chdir(dir)

	stdout, _, err := execute(t, "validate", path)
	require.NoError(t, err)

	var result ValidationResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
}

func TestRootCommand_BadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bell.yaml", bellYAML)
	cfg := writeFile(t, dir, "bad.toml", "colour = \"blue\"\n")

	_, _, err := execute(t, "--config", cfg, "validate", path)

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeConfig)
	assert.Contains(t, err.Error(), "colour")
}

func TestRootCommand_MissingConfig(t *testing.T) {
	_, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "none.toml"), "show")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
