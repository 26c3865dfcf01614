// Package updater launches the Squirrel Update.exe that owns shortcut management
// for an installed application.
package updater

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	executableName = "Update.exe"

	createShortcutFlag = "--createShortcut="
	removeShortcutFlag = "--removeShortcut="
)

// Result describes how an updater invocation ended
type Result struct {
	// ExitCode is -1 when the process could not be started or its state is unknown
	ExitCode int
	Duration time.Duration
	Err      error
}

// Success reports whether the updater exited cleanly
func (r Result) Success() bool {
	return r.Err == nil && r.ExitCode == 0
}

// ExecutablePath returns the location of Update.exe for the given application executable.
// Squirrel keeps one Update.exe next to every app-x.y.z directory and one in their parent;
// only the parent one discovers the application from the directory it runs in.
func ExecutablePath(exe string) string {
	return filepath.Join(filepath.Dir(filepath.Dir(exe)), executableName)
}

type Updater struct {
	path string
}

// New resolves Update.exe relative to the running executable
func New() (*Updater, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("get executable path: %w", err)
	}
	return NewWithPath(ExecutablePath(exe)), nil
}

// NewWithPath used when the updater location is overridden
func NewWithPath(path string) *Updater {
	return &Updater{
		path: path,
	}
}

func (u *Updater) Path() string {
	return u.path
}

// CreateShortcut asks the updater to create shortcuts for target, the executable base name
func (u *Updater) CreateShortcut(ctx context.Context, target string) <-chan Result {
	return u.Run(ctx, createShortcutFlag+target)
}

// RemoveShortcut asks the updater to remove the shortcuts of target
func (u *Updater) RemoveShortcut(ctx context.Context, target string) <-chan Result {
	return u.Run(ctx, removeShortcutFlag+target)
}

// Run starts the updater detached from the current process and returns immediately.
// The returned channel receives exactly one Result after the updater exits.
// Start failures are reported through the Result as well. ctx only gates the start:
// a running updater outlives it.
func (u *Updater) Run(ctx context.Context, args ...string) <-chan Result {
	resultCh := make(chan Result, 1)

	if err := ctx.Err(); err != nil {
		log.Warnf("not starting updater %s: %v", u.path, err)
		resultCh <- Result{
			ExitCode: -1,
			Err:      fmt.Errorf("start updater: %w", err),
		}
		return resultCh
	}

	log.Infof("spawning '%s' with args '%s'", u.path, strings.Join(args, ","))

	cmd := exec.Command(u.path, args...)
	setUpdaterProcAttr(cmd)

	started := time.Now()
	if err := cmd.Start(); err != nil {
		log.Warnf("failed to start updater %s: %v", u.path, err)
		resultCh <- Result{
			ExitCode: -1,
			Err:      fmt.Errorf("start updater: %w", err),
		}
		return resultCh
	}

	log.Debugf("updater started with PID %d", cmd.Process.Pid)

	go func() {
		resultCh <- wait(cmd, started)
	}()

	return resultCh
}

func wait(cmd *exec.Cmd, started time.Time) Result {
	err := cmd.Wait()
	result := Result{
		ExitCode: -1,
		Duration: time.Since(started),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		log.Infof("updater finished in %s", result.Duration)
	case errors.As(err, &exitErr):
		result.Err = fmt.Errorf("updater exited with code %d: %w", result.ExitCode, err)
		log.Warnf("updater finished with exit code %d", result.ExitCode)
	default:
		result.Err = fmt.Errorf("wait for updater: %w", err)
		log.Warnf("failed waiting for updater: %v", err)
	}

	return result
}
