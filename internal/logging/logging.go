// Package logging builds the structured logger shared by the services, the
// database layer and the Wails runtime.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the given level name. Unknown level
// names fall back to info.
func New(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           lvl,
		Prefix:          "gptlink",
	})
}

// Discard returns a logger that drops everything. Tests use it.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// WailsLogger adapts a charm logger to the Wails logger.Logger interface.
type WailsLogger struct {
	L *log.Logger
}

func (w WailsLogger) Print(message string)   { w.L.Print(message) }
func (w WailsLogger) Trace(message string)   { w.L.Debug(message, "source", "wails") }
func (w WailsLogger) Debug(message string)   { w.L.Debug(message, "source", "wails") }
func (w WailsLogger) Info(message string)    { w.L.Info(message, "source", "wails") }
func (w WailsLogger) Warning(message string) { w.L.Warn(message, "source", "wails") }
func (w WailsLogger) Error(message string)   { w.L.Error(message, "source", "wails") }
func (w WailsLogger) Fatal(message string)   { w.L.Fatal(message, "source", "wails") }

// Writer satisfies io.Writer for the GORM logger and forwards each line at
// info level.
type Writer struct {
	L *log.Logger
}

func (w Writer) Write(p []byte) (int, error) {
	w.L.Info(strings.TrimRight(string(p), "\n"), "source", "gorm")
	return len(p), nil
}

// Printf lets Writer serve as a gorm logger.Writer directly.
func (w Writer) Printf(format string, args ...interface{}) {
	w.L.Info(fmt.Sprintf(format, args...), "source", "gorm")
}
