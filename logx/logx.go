package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps "debug", "info", "warn" and "error" to a Level. Anything
// else yields LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Options configures the package logger. An empty File keeps output on
// stderr; otherwise the file is rotated by lumberjack.
type Options struct {
	Level      Level
	File       string
	MaxSizeMB  int
	MaxAgeDays int
}

var (
	mu       sync.RWMutex
	minLevel = LevelInfo
	closer   io.Closer
	logger   = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds)
)

// Init replaces the output and level of the package logger. It is safe to
// call more than once; a previously opened log file is closed.
func Init(opts Options) {
	mu.Lock()
	defer mu.Unlock()

	if closer != nil {
		_ = closer.Close()
		closer = nil
	}

	minLevel = opts.Level
	if opts.File == "" {
		logger.SetOutput(os.Stderr)
		return
	}

	lj := &lumberjack.Logger{
		Filename: opts.File,
		MaxSize:  opts.MaxSizeMB,  // megabytes
		MaxAge:   opts.MaxAgeDays, // days
	}
	closer = lj
	logger.SetOutput(lj)
}

// SetOutput redirects the logger, mostly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = l
}

func enabled(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= minLevel
}

func write(l Level, tag, color, category string, content ...interface{}) {
	if !enabled(l) {
		return
	}
	message := fmt.Sprint(content...)
	coloredCategory := fmt.Sprintf("%s[%s][%s]%s", color, tag, category, ColorReset)
	logger.Printf("%s: %s", coloredCategory, message)
}

func Info(category string, content ...interface{}) {
	write(LevelInfo, "INFO", ColorGreen, category, content...)
}

func Error(category string, content ...interface{}) {
	write(LevelError, "ERROR", ColorRed, category, content...)
}

func Warn(category string, content ...interface{}) {
	write(LevelWarn, "WARN", ColorYellow, category, content...)
}

func Debug(category string, content ...interface{}) {
	write(LevelDebug, "DEBUG", ColorBlue, category, content...)
}

// Errorf logs an error message and returns a formatted error
func Errorf(format string, args ...interface{}) error {
	err := fmt.Errorf(format, args...)
	Error("ERROR", err.Error())
	return err
}
