package mancalc

import (
	"log"
	"os"
)

// Level is the severity of a log message.
type Level int8

const (
	// LevelInfo is for routine events, like a canceled operator.
	LevelInfo Level = iota
	// LevelError is for failed pushes.
	LevelError
)

func (l Level) String() string {
	if l >= LevelError {
		return "error"
	}
	return "info"
}

// Logger receives diagnostics from a Machine.
type Logger interface {
	Log(lvl Level, msg string)
}

// LoggerFunc adapts a function to a Logger.
type LoggerFunc func(lvl Level, msg string)

func (f LoggerFunc) Log(lvl Level, msg string) {
	f(lvl, msg)
}

// Discard is a Logger that drops every message.
var Discard Logger = LoggerFunc(func(Level, string) {})

type stdlogger struct {
	l   *log.Logger
	min Level
}

// StdLogger returns a Logger that prints messages at or above min to l.
func StdLogger(l *log.Logger, min Level) Logger {
	return stdlogger{l: l, min: min}
}

func (s stdlogger) Log(lvl Level, msg string) {
	if lvl < s.min {
		return
	}
	s.l.Printf("%v: %s", lvl, msg)
}

var defaultLogger = StdLogger(log.New(os.Stderr, "mancalc: ", 0), LevelError)
