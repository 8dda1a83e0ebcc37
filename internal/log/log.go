// Package log provides category-tagged structured logging for sqlstudio.
// The TUI owns the terminal, so entries go to the file opened by
// tea.LogToFile when --debug is set and are discarded otherwise.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Category groups related log messages.
type Category string

const (
	CatDB     Category = "db"     // Driver connections and queries
	CatUI     Category = "ui"     // UI state changes
	CatStore  Category = "store"  // Local settings store
	CatConfig Category = "config" // Configuration loading/saving
	CatFmt    Category = "fmt"    // Formatter rewrites
	CatCLI    Category = "cli"    // Non-interactive commands
)

var (
	mu     sync.RWMutex
	logger = slog.New(slog.DiscardHandler)
)

// Init opens path through tea.LogToFile and routes all entries there.
// Returns a cleanup function that closes the file.
func Init(path string, level slog.Level) (func(), error) {
	f, err := tea.LogToFile(path, "sqlstudio")
	if err != nil {
		return nil, err
	}
	SetOutput(f, level)
	return func() { _ = f.Close() }, nil
}

// SetOutput replaces the destination; used by Init and tests.
func SetOutput(w io.Writer, level slog.Level) {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	mu.Lock()
	logger = slog.New(h)
	mu.Unlock()
}

// Discard drops every entry.
func Discard() {
	mu.Lock()
	logger = slog.New(slog.DiscardHandler)
	mu.Unlock()
}

// Stderr logs to standard error; the CLI commands use it with --debug.
func Stderr(level slog.Level) {
	SetOutput(os.Stderr, level)
}

func Debug(cat Category, msg string, fields ...any) {
	write(slog.LevelDebug, cat, msg, fields...)
}

func Info(cat Category, msg string, fields ...any) {
	write(slog.LevelInfo, cat, msg, fields...)
}

func Warn(cat Category, msg string, fields ...any) {
	write(slog.LevelWarn, cat, msg, fields...)
}

func Error(cat Category, msg string, fields ...any) {
	write(slog.LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	write(slog.LevelError, cat, msg, fields...)
}

func write(level slog.Level, cat Category, msg string, fields ...any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	l.Log(context.Background(), level, msg, append([]any{"cat", string(cat)}, fields...)...)
}
