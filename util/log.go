package util

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/redsoft/squirrel-hooks/formatter"
)

// ConsoleLog is the log path value that keeps output on stderr
const ConsoleLog = "console"

// InitLog parses and sets log-level input
func InitLog(logLevel string, logPath string) error {
	return InitLogger(log.StandardLogger(), logLevel, logPath)
}

// InitLogger configures the given logger with level, output and formatter
func InitLogger(logger *log.Logger, logLevel string, logPath string) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		logger.Errorf("Failed parsing log-level %s: %s", logLevel, err)
		return err
	}

	if logPath != "" && logPath != ConsoleLog {
		filename := filepath.ToSlash(logPath)
		if current, ok := logger.Out.(*lumberjack.Logger); !ok || current.Filename != filename {
			closeFileOutput(logger)
			lumberjackLogger := &lumberjack.Logger{
				// Log file absolute path, os agnostic
				Filename:   filename,
				MaxSize:    5, // MB
				MaxBackups: 10,
				MaxAge:     30, // days
				Compress:   true,
			}
			logger.SetOutput(io.Writer(lumberjackLogger))
		}
	} else {
		closeFileOutput(logger)
		logger.SetOutput(os.Stderr)
	}

	formatter.SetTextFormatter(logger)
	logger.SetLevel(level)
	return nil
}

// closeFileOutput releases a rotating log file set by a previous InitLogger call
func closeFileOutput(logger *log.Logger) {
	current, ok := logger.Out.(*lumberjack.Logger)
	if !ok {
		return
	}
	if err := current.Close(); err != nil {
		logger.Warnf("failed to close log file %s: %v", current.Filename, err)
	}
}
