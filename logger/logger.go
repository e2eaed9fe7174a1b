// Package logger wraps charmbracelet/log with the process-wide defaults used by
// the server and its middlewares.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

type Config struct {
	Level      string
	JSON       bool
	Output     io.Writer
	TimeFormat string
}

func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		JSON:       false,
		Output:     os.Stdout,
		TimeFormat: "15:04:05",
	}
}

var (
	mu            sync.RWMutex
	defaultLogger = New(DefaultConfig())
)

// New builds a logger without touching the package default.
func New(cfg *Config) *charmlog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	level, err := charmlog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = charmlog.InfoLevel
	}
	l := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           level,
	})
	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	} else {
		l.SetFormatter(charmlog.TextFormatter)
	}
	return l
}

// Init replaces the package default logger.
func Init(cfg *Config) {
	l := New(cfg)
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
}

func Default() *charmlog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

func Debug(msg string, keyvals ...any) { Default().Debug(msg, keyvals...) }

func Info(msg string, keyvals ...any) { Default().Info(msg, keyvals...) }

func Warn(msg string, keyvals ...any) { Default().Warn(msg, keyvals...) }

func Error(msg string, keyvals ...any) { Default().Error(msg, keyvals...) }

func With(keyvals ...any) *charmlog.Logger { return Default().With(keyvals...) }
