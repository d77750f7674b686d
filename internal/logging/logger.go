// Package logging provides the leveled logger used by magiccrc.
//
// Design: a five-method interface (Errorf, Warnf, Infof, Debugf, Fatalf) so
// callers can plug in slog, zap or anything else behind a small adapter.
//
// Fatalf is reserved for broken invariants (for example a CRC-32 modular
// inverse that does not exist). It logs at FATAL level and calls the
// configured FatalHandler; it never exits the process.
//
// Log format: YYYY/MM/DD HH:MM:SS LEVEL [component] message
//
// Example: 2026/10/19 18:45:13 INFO [patch] crc forced to 0xdeadbeef at offset 0
//
// Component namespace prefixes:
//   - [patch]: delta derivation and byte patching
//   - [verify]: post-patch self checks
//   - [undo]: undo backups and restores
//   - [cli]: command surface
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"reflect"
	"sync/atomic"
)

// FatalHandler is called when Fatalf is invoked.
//
// Contract: FatalHandler must not call Fatalf.
type FatalHandler func(msg string)

// Level represents the logging level.
type Level int

const (
	// LevelError logs only errors.
	LevelError Level = iota
	// LevelWarn logs warnings and errors.
	LevelWarn
	// LevelInfo logs info, warnings, and errors.
	LevelInfo
	// LevelDebug logs everything including debug messages.
	LevelDebug
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// Logger defines the logging interface.
// Implementations must be safe for concurrent use.
type Logger interface {
	// Errorf logs a formatted error message.
	Errorf(format string, args ...any)

	// Warnf logs a formatted warning message.
	Warnf(format string, args ...any)

	// Infof logs a formatted informational message.
	Infof(format string, args ...any)

	// Debugf logs a formatted debug message.
	Debugf(format string, args ...any)

	// Fatalf logs a broken invariant and triggers the fatal handler.
	Fatalf(format string, args ...any)
}

// DefaultLogger writes to an io.Writer through a log.Logger.
// Level is read-only after construction.
type DefaultLogger struct {
	logger       *log.Logger
	level        Level
	fatalHandler atomic.Pointer[FatalHandler]
}

// NewLogger creates a logger with the specified output and level.
func NewLogger(w io.Writer, level Level) *DefaultLogger {
	return &DefaultLogger{
		logger: log.New(w, "", log.LstdFlags),
		level:  level,
	}
}

// SetFatalHandler sets the handler called when Fatalf is invoked.
func (l *DefaultLogger) SetFatalHandler(h FatalHandler) {
	l.fatalHandler.Store(&h)
}

// Level returns the logging level.
func (l *DefaultLogger) Level() Level {
	return l.level
}

// Errorf logs a formatted error message.
func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.output(LevelError, format, args...)
}

// Warnf logs a formatted warning message.
func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.output(LevelWarn, format, args...)
}

// Infof logs a formatted informational message.
func (l *DefaultLogger) Infof(format string, args ...any) {
	l.output(LevelInfo, format, args...)
}

// Debugf logs a formatted debug message.
func (l *DefaultLogger) Debugf(format string, args ...any) {
	l.output(LevelDebug, format, args...)
}

// Fatalf logs at FATAL level regardless of the configured level and then
// calls the fatal handler, if any.
func (l *DefaultLogger) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	_ = l.logger.Output(2, "FATAL "+msg)

	if h := l.fatalHandler.Load(); h != nil {
		(*h)(msg)
	}
}

func (l *DefaultLogger) output(level Level, format string, args ...any) {
	if l.level < level {
		return
	}
	_ = l.logger.Output(3, level.String()+" "+fmt.Sprintf(format, args...))
}

// Namespace prefixes for log messages.
const (
	// NSPatch is the namespace for delta derivation and patching.
	NSPatch = "[patch] "
	// NSVerify is the namespace for post-patch verification.
	NSVerify = "[verify] "
	// NSUndo is the namespace for undo backups.
	NSUndo = "[undo] "
	// NSCLI is the namespace for the command surface.
	NSCLI = "[cli] "
)

// IsNil returns true if the logger is nil or a typed-nil.
//
//	var l *MyLogger = nil
//	opts.Logger = l  // Interface is not nil, but underlying pointer is
func IsNil(l Logger) bool {
	if l == nil {
		return true
	}
	v := reflect.ValueOf(l)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// OrDefault returns l if it is usable, otherwise a WARN-level stderr logger.
func OrDefault(l Logger) Logger {
	if IsNil(l) {
		return NewLogger(os.Stderr, LevelWarn)
	}
	return l
}
