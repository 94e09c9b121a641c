package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "canvas version "))
}

func TestGraphCommand(t *testing.T) {
	out, err := run(t, "graph")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "humanApprover")
}

func TestEditCommand_CopyeditWithScriptedModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# Doc\n\nHello world"), 0o644))
	t.Setenv("CANVAS_STORE_KIND", "memory")

	// The echo model returns the body unchanged, so nothing is written.
	out, err := run(t, "edit", path, "--op", "copyedit", "--yes", "--env-file", filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Contains(t, out, "No changes written.")
}

func TestEditCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("Hello world"), 0o644))

	_, err := run(t, "edit", path, "--select", "mars", "--yes", "--env-file", "")
	assert.Error(t, err)

	_, err = run(t, "edit", path, "--op", "copyedit", "--log-level", "loud", "--env-file", "")
	assert.Error(t, err)
}
