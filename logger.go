package main

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Log levels, ascending verbosity. A message is emitted when the
// configured level is at or above the message's level, so NONE
// silences everything and DEBUG lets everything through.
const (
	LOG_NONE = iota
	LOG_ERROR
	LOG_INFO
	LOG_DEBUG
)

// Logger is a small leveled logger with per-call tags. Output goes to
// io.Discard unless -log routes it to a file; the rendering loop owns
// stdout, so logs must never land there.
type Logger struct {
	logger *log.Logger
	level  int
}

var logger = NewLogger()

func NewLogger() *Logger {
	return &Logger{
		logger: log.New(io.Discard, "", log.LstdFlags|log.Lmicroseconds),
		level:  LOG_ERROR,
	}
}

func (l *Logger) SetLevel(level int) {
	l.level = level
}

func (l *Logger) SetOutput(w io.Writer) {
	l.logger.SetOutput(w)
}

func (l *Logger) log(level int, levelTag, tag, format string, v ...any) {
	if l.level >= level {
		msg := fmt.Sprintf(format, v...)
		l.logger.Printf("%s - %s: %s\n", levelTag, tag, msg)
	}
}

// Debug logs a debug message with format specifiers.
func (l *Logger) Debug(tag string, format string, v ...any) {
	l.log(LOG_DEBUG, "DEBUG", tag, format, v...)
}

// Info logs an info message with format specifiers.
func (l *Logger) Info(tag string, format string, v ...any) {
	l.log(LOG_INFO, "INFO", tag, format, v...)
}

// Error logs an error message with format specifiers.
func (l *Logger) Error(tag string, format string, v ...any) {
	l.log(LOG_ERROR, "ERROR", tag, format, v...)
}

func (l *Logger) Close() {
	if f, ok := l.logger.Writer().(*os.File); ok {
		f.Close()
	}
}
