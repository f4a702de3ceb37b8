package utils

import (
	"fmt"
	"log"
	"os"
	"time"
)

// Logger provides leveled logging throughout the application. Errors go to
// stderr, everything else to stdout.
type Logger struct {
	out    *log.Logger
	errOut *log.Logger
}

// NewLogger creates a new Logger writing to stdout/stderr.
func NewLogger() *Logger {
	return &Logger{
		out:    log.New(os.Stdout, "", 0),
		errOut: log.New(os.Stderr, "", 0),
	}
}

func (l *Logger) logf(dst *log.Logger, level, color, format string, args ...any) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	dst.Printf(fmt.Sprintf("[%s] \033[%sm%-5s\033[0m %s\n", ts, color, level, format), args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.logf(l.out, "INFO", "32", format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.logf(l.out, "WARN", "33", format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.logf(l.errOut, "ERROR", "31", format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.logf(l.out, "DEBUG", "36", format, args...)
}
