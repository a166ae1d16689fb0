// Package logger provides small, prefixed, colored loggers. Each component
// of the simulator owns one instance tagged with its name.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/beka-birhanu/mouse-sim/config"
)

// ErrEmptyTag is returned when a logger is created without a component tag.
var ErrEmptyTag = errors.New("logger tag must not be empty")

// Logger writes tagged, leveled, colored lines to a single output.
type Logger struct {
	tag   string
	color string
	out   *log.Logger
}

// New creates a logger for the component identified by tag. The color wraps
// the whole line; pass config.ColorReset for uncolored output.
func New(tag, color string, w io.Writer) (*Logger, error) {
	if tag == "" {
		return nil, ErrEmptyTag
	}
	if w == nil {
		w = io.Discard
	}
	return &Logger{
		tag:   tag,
		color: color,
		out:   log.New(w, "", log.LstdFlags),
	}, nil
}

// Discard returns a logger that writes nowhere. Useful as a default
// when a component is constructed without an explicit logger.
func Discard() *Logger {
	l, _ := New("NOOP", config.ColorReset, io.Discard)
	return l
}

func (l *Logger) write(level, msg string) {
	l.out.Printf("%s[%s] [%s] %s%s", l.color, l.tag, level, msg, config.ColorReset)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.write("INFO", msg)
}

// Warning logs a warning message.
func (l *Logger) Warning(msg string) {
	l.write("WARN", msg)
}

// Error logs an error message.
func (l *Logger) Error(msg string) {
	l.write("ERROR", msg)
}

// Infof logs a formatted informational message.
func (l *Logger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}
