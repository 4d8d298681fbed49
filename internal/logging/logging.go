// Package logging provides a simple leveled logger for the render
// loop, the wire transports, and the preview server, each of which
// gets its own component-tagged view onto one shared sink so log
// lines stay traceable to the subsystem that emitted them without
// hand-prefixing every call site.
package logging

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// Level represents log severity levels
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// state is the mutex-guarded level and output sink shared by the
// default logger and every component logger derived from it via
// With, so a single SetLevel/SetLevelFromString call (made once at
// startup, against the default) governs all of them.
type state struct {
	mu     sync.RWMutex
	level  Level
	logger *log.Logger
}

// Logger writes leveled lines through a shared state, optionally
// tagged with a component name.
type Logger struct {
	component string
	state     *state
}

var (
	rootOnce  sync.Once
	rootState *state
)

func root() *state {
	rootOnce.Do(func() {
		rootState = &state{
			level:  LevelInfo,
			logger: log.New(os.Stderr, "", log.LstdFlags|log.LUTC),
		}
	})
	return rootState
}

// Default returns the untagged default logger instance.
func Default() *Logger {
	return &Logger{state: root()}
}

// With returns a logger tagged with component (e.g. "engine", "sacn",
// "artnet", "preview"); it shares the parent's level and output, so
// changing the default logger's level also governs every component
// logger derived from it.
func (l *Logger) With(component string) *Logger {
	return &Logger{component: component, state: l.state}
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level Level) {
	l.state.mu.Lock()
	defer l.state.mu.Unlock()
	l.state.level = level
}

// SetLevelFromString sets the log level from a string
func (l *Logger) SetLevelFromString(levelStr string) {
	switch strings.ToLower(levelStr) {
	case "debug":
		l.SetLevel(LevelDebug)
	case "info":
		l.SetLevel(LevelInfo)
	case "warn", "warning":
		l.SetLevel(LevelWarn)
	case "error":
		l.SetLevel(LevelError)
	default:
		l.SetLevel(LevelInfo)
	}
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() Level {
	l.state.mu.RLock()
	defer l.state.mu.RUnlock()
	return l.state.level
}

// GetLevelString returns the current log level as a string
func (l *Logger) GetLevelString() string {
	return levelNames[l.GetLevel()]
}

// GetLevelString returns the default logger's level as a string
func GetLevelString() string {
	return Default().GetLevelString()
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.state.mu.RLock()
	currentLevel := l.state.level
	l.state.mu.RUnlock()

	if level < currentLevel {
		return
	}

	prefix := levelNames[level]
	msg := fmt.Sprintf(format, args...)
	if l.component == "" {
		l.state.logger.Printf("[%s] %s", prefix, msg)
		return
	}
	l.state.logger.Printf("[%s] [%s] %s", prefix, l.component, msg)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

// Package-level convenience functions, all against the untagged
// default logger.

// SetLevel sets the default logger's level
func SetLevel(level Level) {
	Default().SetLevel(level)
}

// SetLevelFromString sets the default logger's level from a string
func SetLevelFromString(levelStr string) {
	Default().SetLevelFromString(levelStr)
}

// Debug logs a debug message to the default logger
func Debug(format string, args ...interface{}) {
	Default().Debug(format, args...)
}

// Info logs an info message to the default logger
func Info(format string, args ...interface{}) {
	Default().Info(format, args...)
}

// Warn logs a warning message to the default logger
func Warn(format string, args ...interface{}) {
	Default().Warn(format, args...)
}

// Error logs an error message to the default logger
func Error(format string, args ...interface{}) {
	Default().Error(format, args...)
}
