// Package logging wraps commonlog for the driver's diagnostic output,
// keeping the teacher's listener-fanout shape (Error/Warn/Info/Debug
// plus add/remove listener) over a structured backend instead of the
// teacher's ad-hoc `any`-typed listener list.
package logging

import (
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// Listener receives a copy of every message logged through a Logger,
// in addition to the commonlog backend. Compile warnings (an optional
// @extend, a deprecated unit) are delivered this way so a host
// embedding the driver can surface them without scraping stderr.
type Listener interface {
	Error(msg string)
	Warn(msg string)
	Info(msg string)
	Debug(msg string)
}

// Logger fans out to commonlog and to any registered Listeners.
type Logger struct {
	backend   commonlog.Logger
	listeners []Listener
}

// New returns a Logger scoped under name.
func New(name string) *Logger {
	return &Logger{backend: commonlog.GetLogger(name)}
}

func (l *Logger) Error(msg string, keysAndValues ...any) {
	l.backend.Error(msg, keysAndValues...)
	l.fire(func(ln Listener) { ln.Error(msg) })
}

func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.backend.Warning(msg, keysAndValues...)
	l.fire(func(ln Listener) { ln.Warn(msg) })
}

func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.backend.Info(msg, keysAndValues...)
	l.fire(func(ln Listener) { ln.Info(msg) })
}

func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.backend.Debug(msg, keysAndValues...)
	l.fire(func(ln Listener) { ln.Debug(msg) })
}

// AddListener registers ln to receive every subsequent message.
func (l *Logger) AddListener(ln Listener) {
	l.listeners = append(l.listeners, ln)
}

// RemoveListener undoes a prior AddListener, comparing by identity.
func (l *Logger) RemoveListener(ln Listener) {
	for i, existing := range l.listeners {
		if existing == ln {
			l.listeners = append(l.listeners[:i], l.listeners[i+1:]...)
			return
		}
	}
}

func (l *Logger) fire(deliver func(Listener)) {
	for _, ln := range l.listeners {
		deliver(ln)
	}
}
