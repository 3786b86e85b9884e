package main

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/wagiedev/opendata-mcp-go/internal/config"
)

// Rotation limits for --log-file.
const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 28
)

// cliLogger is a slog.Logger that may own a log file.
type cliLogger struct {
	*slog.Logger

	closer io.Closer
}

// Close releases the log file, if any.
func (l *cliLogger) Close() error {
	if l.closer == nil {
		return nil
	}

	return l.closer.Close()
}

// newLogger builds the logger described by cfg. Logs go to stderr unless a
// log file is configured; stdout is reserved for the stdio transport.
func newLogger(cfg *config.Config, stderr io.Writer) (*cliLogger, error) {
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	out := stderr

	var closer io.Closer

	if cfg.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAgeDays,
			Compress:   true,
		}

		out, closer = file, file
	}

	hopts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.LogFormat == config.LogFormatJSON {
		handler = slog.NewJSONHandler(out, hopts)
	} else {
		handler = slog.NewTextHandler(out, hopts)
	}

	return &cliLogger{Logger: slog.New(handler), closer: closer}, nil
}
