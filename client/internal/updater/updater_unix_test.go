//go:build !windows

package updater

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUpdateExe writes a script standing in for Update.exe that records its
// arguments and exits with the given code
func fakeUpdateExe(t *testing.T, exitCode int) (string, string) {
	t.Helper()

	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	script := filepath.Join(dir, "Update.exe")
	content := fmt.Sprintf("#!/bin/sh\nprintf '%%s\\n' \"$@\" > '%s'\nexit %d\n", argsFile, exitCode)
	require.NoError(t, os.WriteFile(script, []byte(content), 0o755))

	return script, argsFile
}

func waitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()

	select {
	case res := <-ch:
		return res
	case <-time.After(10 * time.Second):
		t.Fatal("updater result was not delivered")
		return Result{}
	}
}

func TestRun_CreateShortcut(t *testing.T) {
	script, argsFile := fakeUpdateExe(t, 0)
	u := NewWithPath(script)

	res := waitResult(t, u.CreateShortcut(context.Background(), "RedsoftDesktop.exe"))
	require.NoError(t, res.Err)
	assert.True(t, res.Success())
	assert.Equal(t, 0, res.ExitCode)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "--createShortcut=RedsoftDesktop.exe\n", string(args))
}

func TestRun_RemoveShortcut(t *testing.T) {
	script, argsFile := fakeUpdateExe(t, 0)
	u := NewWithPath(script)

	res := waitResult(t, u.RemoveShortcut(context.Background(), "RedsoftDesktop.exe"))
	require.NoError(t, res.Err)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "--removeShortcut=RedsoftDesktop.exe\n", string(args))
}

func TestRun_ArgumentsAreNotShellInterpreted(t *testing.T) {
	script, argsFile := fakeUpdateExe(t, 0)
	u := NewWithPath(script)

	res := waitResult(t, u.Run(context.Background(), "--createShortcut=a b; rm -rf /", "$(id)"))
	require.NoError(t, res.Err)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "--createShortcut=a b; rm -rf /\n$(id)\n", string(args))
}

func TestRun_NonZeroExit(t *testing.T) {
	script, _ := fakeUpdateExe(t, 3)
	u := NewWithPath(script)

	res := waitResult(t, u.Run(context.Background(), "--createShortcut=RedsoftDesktop.exe"))
	require.Error(t, res.Err)
	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.Success())

	var exitErr *exec.ExitError
	assert.ErrorAs(t, res.Err, &exitErr)
}

func TestRun_UpdaterOutlivesContext(t *testing.T) {
	script, argsFile := fakeUpdateExe(t, 0)
	u := NewWithPath(script)

	ctx, cancel := context.WithCancel(context.Background())
	resultCh := u.CreateShortcut(ctx, "RedsoftDesktop.exe")
	cancel()

	res := waitResult(t, resultCh)
	require.NoError(t, res.Err)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "--createShortcut=RedsoftDesktop.exe\n", string(args))
}
