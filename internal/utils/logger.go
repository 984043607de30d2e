package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Logger provides leveled logging with verbose mode support.
type Logger struct {
	mu      sync.RWMutex
	verbose bool
	level   log.Level // level used when not verbose
	out     io.Writer
	logger  *log.Logger
}

var (
	loggerInstance *Logger
	once           sync.Once
)

// GetLogger returns the singleton logger instance. It writes to stderr at
// info level until configured otherwise.
func GetLogger() *Logger {
	once.Do(func() {
		loggerInstance = &Logger{
			level: log.InfoLevel,
			out:   os.Stderr,
			logger: log.NewWithOptions(os.Stderr, log.Options{
				Level:     log.InfoLevel,
				Formatter: log.TextFormatter,
			}),
		}
	})
	return loggerInstance
}

// SetVerboseMode sets the verbose mode globally.
func SetVerboseMode(verbose bool) {
	GetLogger().SetVerbose(verbose)
}

// SetVerbose sets the verbose mode for this logger instance.
// Verbose forces debug level regardless of the configured level.
func (l *Logger) SetVerbose(verbose bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = verbose
	l.applyLevel()
}

// IsVerbose returns whether verbose mode is enabled.
func (l *Logger) IsVerbose() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verbose
}

// SetLevel sets the level used outside verbose mode ("debug", "info", ...).
func (l *Logger) SetLevel(level string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = ParseLogLevel(level)
	l.applyLevel()
}

// SetFormatter selects "text", "json" or "logfmt" output.
func (l *Logger) SetFormatter(format string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.SetFormatter(ParseLogFormatter(format))
}

// SetOutput redirects log output.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
	l.logger.SetOutput(w)
}

// Output returns the current log destination.
func (l *Logger) Output() io.Writer {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.out
}

// applyLevel must be called with l.mu held.
func (l *Logger) applyLevel() {
	if l.verbose {
		l.logger.SetLevel(log.DebugLevel)
		return
	}
	l.logger.SetLevel(l.level)
}

// formatMessage formats a message with optional printf-style arguments.
func formatMessage(msgOrFormat string, args ...interface{}) string {
	if len(args) > 0 {
		return fmt.Sprintf(msgOrFormat, args...)
	}
	return msgOrFormat
}

// Debug logs a debug message (only shown when verbose or at debug level).
// Can be used with a simple message or printf-style format string with args.
func (l *Logger) Debug(msgOrFormat string, args ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(formatMessage(msgOrFormat, args...))
}

// Info logs an info message.
func (l *Logger) Info(msgOrFormat string, args ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(formatMessage(msgOrFormat, args...))
}

// Warn logs a warning message.
func (l *Logger) Warn(msgOrFormat string, args ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(formatMessage(msgOrFormat, args...))
}

// Error logs an error message.
func (l *Logger) Error(msgOrFormat string, args ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Error(formatMessage(msgOrFormat, args...))
}

// Debugf is a convenience function that logs a debug message using the global logger.
func Debugf(format string, args ...interface{}) {
	GetLogger().Debug(format, args...)
}

// Infof is a convenience function that logs an info message using the global logger.
func Infof(format string, args ...interface{}) {
	GetLogger().Info(format, args...)
}

// Warnf is a convenience function that logs a warning message using the global logger.
func Warnf(format string, args ...interface{}) {
	GetLogger().Warn(format, args...)
}

// Errorf is a convenience function that logs an error message using the global logger.
func Errorf(format string, args ...interface{}) {
	GetLogger().Error(format, args...)
}

// ParseLogLevel parses a string log level to a charmbracelet/log Level.
func ParseLogLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// IsValidLogLevel reports whether ParseLogLevel understands level.
func IsValidLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "", "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// ParseLogFormatter parses a string formatter name to a charmbracelet/log Formatter.
func ParseLogFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// LogFile redirects the global logger to a file while a full-screen UI owns
// the terminal. Close restores the previous destination.
type LogFile struct {
	file     *os.File
	path     string
	previous io.Writer
}

// OpenLogFile appends log output to path, creating parent directories.
func OpenLogFile(path string) (*LogFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := GetLogger()
	previous := logger.Output()
	logger.SetOutput(file)
	return &LogFile{file: file, path: path, previous: previous}, nil
}

// Path returns the log file path.
func (lf *LogFile) Path() string {
	return lf.path
}

// Close closes the log file and points the logger back where it wrote before.
func (lf *LogFile) Close() error {
	if lf.file == nil {
		return nil
	}
	GetLogger().SetOutput(lf.previous)
	err := lf.file.Close()
	lf.file = nil
	return err
}
