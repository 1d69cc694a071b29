// Package logger builds zerolog loggers for the CLI. The sync tool
// writes timestamped lines to a log file and mirrors them to stdout in
// verbose mode; the interactive tool logs to stderr only.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLogFile is used when no --log-file flag is given.
const DefaultLogFile = "logs/stock_sync.log"

// NewFileLogger returns a logger writing timestamped lines to logFile,
// creating parent directories as needed. When verbose is true, output is
// mirrored to stdout in console format. The returned closer flushes and
// closes the file.
func NewFileLogger(logFile string, verbose bool) (zerolog.Logger, io.Closer, error) {
	if logFile == "" {
		logFile = DefaultLogFile
	}

	if dir := filepath.Dir(logFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}

	fileWriter := zerolog.ConsoleWriter{
		Out:        f,
		NoColor:    true,
		TimeFormat: time.DateTime,
	}

	var w io.Writer = fileWriter
	if verbose {
		console := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.DateTime,
		}
		w = zerolog.MultiLevelWriter(fileWriter, console)
	}

	logger := zerolog.New(w).With().Timestamp().Logger()
	return logger, f, nil
}

// NewConsoleLogger returns a stderr console logger for interactive use.
func NewConsoleLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	w := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.DateTime,
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
