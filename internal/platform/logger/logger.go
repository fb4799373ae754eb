package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/phrazzld/users-api/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ParseLevel converts a configured level name (case-insensitive) to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// Setup initializes the application's logging system, writing to stdout and,
// when configured, to a rotating log file. The logger is installed as the slog
// default so package-level slog calls share its handler.
func Setup(server config.ServerConfig, lc config.LogConfig) (*slog.Logger, error) {
	l, err := New(os.Stdout, server, lc)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(l)
	return l, nil
}

// New builds a logger writing to out without touching the slog default.
// Production uses JSON records; other environments use tint's text format,
// colourised only when out is a terminal.
func New(out io.Writer, server config.ServerConfig, lc config.LogConfig) (*slog.Logger, error) {
	level, err := ParseLevel(server.LogLevel)
	if err != nil {
		return nil, err
	}

	var console slog.Handler
	if server.IsProduction() {
		console = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	} else {
		console = tint.NewHandler(out, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
			NoColor:    !isTerminal(out),
		})
	}

	if lc.FilePath == "" {
		return slog.New(console), nil
	}

	file := &lumberjack.Logger{
		Filename:   lc.FilePath,
		MaxSize:    lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
		MaxAge:     lc.MaxAgeDays,
		Compress:   lc.Compress,
	}
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})

	return slog.New(NewFanoutHandler(console, fileHandler)), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
