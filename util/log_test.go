package util

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_InvalidLevel(t *testing.T) {
	logger := log.New()
	err := InitLogger(logger, "loud", ConsoleLog)
	require.Error(t, err)
}

func TestInitLogger_WritesToFile(t *testing.T) {
	logger := log.New()
	logPath := filepath.Join(t.TempDir(), "hooks.log")

	err := InitLogger(logger, "debug", logPath)
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, logger.GetLevel())

	logger.Debug("first run hook triggered")

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "DEBG")
	assert.Contains(t, string(content), "first run hook triggered")
	assert.Contains(t, string(content), "util/log_test.go")
}

func TestInitLogger_Console(t *testing.T) {
	logger := log.New()
	err := InitLogger(logger, "warn", ConsoleLog)
	require.NoError(t, err)
	assert.Equal(t, os.Stderr, logger.Out)
	assert.Equal(t, log.WarnLevel, logger.GetLevel())
}

func TestInitLogger_SingleContextHook(t *testing.T) {
	logger := log.New()
	require.NoError(t, InitLogger(logger, "info", ConsoleLog))
	require.NoError(t, InitLogger(logger, "debug", ConsoleLog))

	assert.Len(t, logger.Hooks[log.InfoLevel], 1)
}

func TestInitLogger_ReusesFileWriter(t *testing.T) {
	logger := log.New()
	logPath := filepath.Join(t.TempDir(), "hooks.log")

	require.NoError(t, InitLogger(logger, "info", logPath))
	first := logger.Out

	require.NoError(t, InitLogger(logger, "debug", logPath))
	assert.Same(t, first, logger.Out, "same path must keep the open writer")
	assert.Equal(t, log.DebugLevel, logger.GetLevel())
}

func TestInitLogger_ReplacesFileWriter(t *testing.T) {
	logger := log.New()
	dir := t.TempDir()

	require.NoError(t, InitLogger(logger, "info", filepath.Join(dir, "first.log")))
	first := logger.Out

	require.NoError(t, InitLogger(logger, "info", filepath.Join(dir, "second.log")))
	assert.NotSame(t, first, logger.Out)

	require.NoError(t, InitLogger(logger, "info", ConsoleLog))
	assert.Equal(t, os.Stderr, logger.Out)
}
