package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Logger is a levelled printf logger. Debug output goes to the console only
// in verbose mode but always reaches the log file when one is set.
type Logger struct {
	Verbose bool
	out     io.Writer
	errOut  io.Writer
	mu      sync.Mutex
	fileLog *os.File
}

// New creates a Logger writing to stdout and stderr.
func New(verbose bool) *Logger {
	return NewWithWriters(os.Stdout, os.Stderr, verbose)
}

// NewWithWriters creates a Logger with explicit console writers.
func NewWithWriters(out, errOut io.Writer, verbose bool) *Logger {
	return &Logger{
		Verbose: verbose,
		out:     out,
		errOut:  errOut,
	}
}

// Discard returns a Logger that prints nothing.
func Discard() *Logger {
	return NewWithWriters(io.Discard, io.Discard, false)
}

// SetFileLog additionally appends every message to path.
func (l *Logger) SetFileLog(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.fileLog = f
	return nil
}

// Close closes the log file if open
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileLog != nil {
		err := l.fileLog.Close()
		l.fileLog = nil
		return err
	}
	return nil
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.write(l.out, "", true, format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.write(l.out, "DEBUG", l.Verbose, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.write(l.out, "WARN", true, format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.write(l.errOut, "ERROR", true, format, args...)
}

func (l *Logger) write(w io.Writer, level string, console bool, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format+"\n", args...)
	if level != "" {
		msg = "[" + level + "] " + msg
	}

	if console {
		fmt.Fprint(w, msg)
	}
	if l.fileLog != nil {
		l.fileLog.WriteString(msg)
	}
}
