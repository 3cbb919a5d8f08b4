//go:build darwin || linux

package shell

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, body string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body), mode))
}

func TestExternalCommandOutputAndMirror(t *testing.T) {
	bin := t.TempDir()
	writeScript(t, bin, "greet", "echo \"hi $1\"\necho oops 1>&2\nexit 3\n", 0o755)

	var mirror bytes.Buffer
	s, out, errw := newTestShell([]string{"greet 'there you'", "echo done"}, map[string]string{"PATH": bin}, WithMirror(&mirror))

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, "hi there you\ndone\n", out.String())
	assert.Equal(t, "oops\n", errw.String())
	assert.Equal(t, "hi there you\n", mirror.String(), "only external stdout is mirrored")
}

func TestExternalOutputWithoutTrailingNewline(t *testing.T) {
	bin := t.TempDir()
	writeScript(t, bin, "nonl", "printf abc\n", 0o755)

	s, out, _ := newTestShell([]string{"nonl"}, map[string]string{"PATH": bin})

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, "abc\n", out.String())
}

func TestExternalCommandWithEmptyStdoutIsNotMirrored(t *testing.T) {
	bin := t.TempDir()
	writeScript(t, bin, "quiet", "exit 0\n", 0o755)

	var mirror bytes.Buffer
	s, out, _ := newTestShell([]string{"quiet"}, map[string]string{"PATH": bin}, WithMirror(&mirror))

	require.NoError(t, s.Run(context.Background()))

	assert.Empty(t, out.String())
	assert.Empty(t, mirror.String())
}

func TestNonExecutableMatchIsASpawnFailure(t *testing.T) {
	bin := t.TempDir()
	writeScript(t, bin, "notexec", "echo never\n", 0o644)

	s, out, errw := newTestShell([]string{"notexec", "echo next"}, map[string]string{"PATH": bin})

	err := s.Dispatch(context.Background(), "notexec")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSpawnFailure)
	assert.Contains(t, err.Error(), "notexec: failed to execute")

	require.NoError(t, s.Run(context.Background()))
	assert.Contains(t, errw.String(), "notexec: failed to execute")
	assert.Equal(t, "next\n", out.String())
}

func TestDefaultExecutorReportsExitCode(t *testing.T) {
	bin := t.TempDir()
	writeScript(t, bin, "fail", "exit 5\n", 0o755)

	e := &DefaultExecutor{LookupFunc: func(name string) (string, bool) {
		return filepath.Join(bin, name), true
	}}

	var stdout, stderr bytes.Buffer
	code, err := e.Execute(context.Background(), "fail", nil, IOBindings{Stdout: &stdout, Stderr: &stderr})

	require.NoError(t, err)
	assert.Equal(t, 5, code)
}

func TestDefaultExecutorNotFound(t *testing.T) {
	e := &DefaultExecutor{LookupFunc: func(string) (string, bool) { return "", false }}

	_, err := e.Execute(context.Background(), "ghost", nil, IOBindings{})

	assert.ErrorIs(t, err, ErrCommandNotFound)
	assert.EqualError(t, err, "ghost: command not found")
}
