// Package logging provides the leveled logger shared by the viewer components.
//
// Debug and info lines go to the out writer, warnings and errors to the
// err writer. Every line carries a level tag and, when set, a bracketed
// component prefix.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
)

type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type level uint8

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

var levelTags = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

// DefaultLogger is safe for concurrent use; the loader logs from worker goroutines.
type DefaultLogger struct {
	debug  atomic.Bool
	prefix string
	out    *log.Logger
	err    *log.Logger
}

func New(prefix string, debug bool) *DefaultLogger {
	return NewWithWriters(prefix, debug, os.Stdout, os.Stderr)
}

func NewWithWriters(prefix string, debug bool, out, errOut io.Writer) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	l := &DefaultLogger{
		prefix: prefix,
		out:    log.New(out, "", flags),
		err:    log.New(errOut, "", flags),
	}
	l.debug.Store(debug)
	return l
}

func (l *DefaultLogger) DebugEnabled() bool    { return l.debug.Load() }
func (l *DefaultLogger) SetDebug(enabled bool) { l.debug.Store(enabled) }

func (l *DefaultLogger) logf(lv level, format string, args ...any) {
	if lv == levelDebug && !l.debug.Load() {
		return
	}
	dst := l.out
	if lv >= levelWarn {
		dst = l.err
	}
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		dst.Printf("[%s] %s: %s", l.prefix, levelTags[lv], msg)
		return
	}
	dst.Printf("%s: %s", levelTags[lv], msg)
}

func (l *DefaultLogger) Debugf(format string, args ...any) { l.logf(levelDebug, format, args...) }
func (l *DefaultLogger) Infof(format string, args ...any)  { l.logf(levelInfo, format, args...) }
func (l *DefaultLogger) Warnf(format string, args ...any)  { l.logf(levelWarn, format, args...) }
func (l *DefaultLogger) Errorf(format string, args ...any) { l.logf(levelError, format, args...) }

type nopLogger struct{}

func Nop() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool    { return false }
func (nopLogger) SetDebug(bool)         {}
func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop()
	}
	return l
}
