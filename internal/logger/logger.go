package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu   sync.RWMutex
	base zerolog.Logger
)

// Init configures the global JSON logger.
//
// Environment variables (optional):
//   - LOG_LEVEL: debug|info|warn|error (default: info)
//   - LOG_PRETTY: true|false (default: false)
func Init() {
	pretty := strings.EqualFold(getenv("LOG_PRETTY", "false"), "true")

	var w io.Writer = os.Stdout
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	configure(w)
}

func configure(w io.Writer) {
	level := parseLevel(getenv("LOG_LEVEL", "info"))
	zerolog.TimeFieldFormat = time.RFC3339Nano

	l := zerolog.New(w).With().Timestamp().Str("service", "spesasmart-pricing").Logger().Level(level)
	mu.Lock()
	base = l
	mu.Unlock()
}

// L returns the global logger. Call Init() once on startup.
func L() *zerolog.Logger {
	mu.RLock()
	l := base
	mu.RUnlock()
	if l.GetLevel() == zerolog.NoLevel {
		Init()
		mu.RLock()
		l = base
		mu.RUnlock()
	}
	return &l
}

// Component returns a child logger tagged with the given component name.
func Component(name string) zerolog.Logger {
	return L().With().Str("component", name).Logger()
}

// SetOutput redirects the global logger to w and returns a function that
// restores the previous logger. Intended for tests.
func SetOutput(w io.Writer) (restore func()) {
	mu.RLock()
	prev := base
	mu.RUnlock()

	configure(w)
	return func() {
		mu.Lock()
		base = prev
		mu.Unlock()
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
