package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects where diagnostics go. With neither a file nor a terminal the
// logger discards everything.
type Config struct {
	Level      Level
	File       string
	JSON       bool
	NoColor    bool
	NoTerminal bool
	Rotation   Rotation
}

// Rotation is passed through to lumberjack. Zero values use lumberjack's
// defaults.
type Rotation struct {
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// DefaultRotation keeps a handful of small files; nuke logs are short.
var DefaultRotation = Rotation{MaxSize: 16, MaxBackups: 3, MaxAge: 30}

type Logger struct {
	mu     *sync.Mutex
	writer io.Writer
	closer io.Closer

	name       string
	level      Level
	json       bool
	color      bool
	timeFormat string
}

type entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Logger    string `json:"logger,omitempty"`
	Message   string `json:"message"`
}

// New builds a logger. Terminal output goes to stderr so it never mixes with
// rendered arguments on stdout.
func New(cfg Config) *Logger {
	l := &Logger{
		mu:         &sync.Mutex{},
		level:      cfg.Level,
		json:       cfg.JSON,
		color:      !cfg.NoTerminal && !cfg.NoColor && !cfg.JSON,
		timeFormat: "2006-01-02 15:04:05",
	}

	var writers []io.Writer
	if !cfg.NoTerminal {
		writers = append(writers, os.Stderr)
	}
	if cfg.File != "" {
		rot := cfg.Rotation
		if rot == (Rotation{}) {
			rot = DefaultRotation
		}
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    rot.MaxSize,
			MaxBackups: rot.MaxBackups,
			MaxAge:     rot.MaxAge,
			Compress:   rot.Compress,
		}
		writers = append(writers, file)
		l.closer = file
		// colour codes only make sense on a terminal
		if !cfg.NoTerminal {
			l.color = false
		}
	}
	if len(writers) == 0 {
		l.writer = io.Discard
	} else {
		l.writer = io.MultiWriter(writers...)
	}
	return l
}

// NewWriter logs plain lines to w. Tests use it to capture output.
func NewWriter(w io.Writer, level Level) *Logger {
	return &Logger{mu: &sync.Mutex{}, writer: w, level: level, timeFormat: "2006-01-02 15:04:05"}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWriter(io.Discard, Error+1)
}

func (l *Logger) log(level Level, msg string, args ...any) {
	if l == nil || level < l.level {
		return
	}
	timestamp := time.Now().Format(l.timeFormat)
	text := fmt.Sprintf(msg, args...)

	var line string
	if l.json {
		b, _ := json.Marshal(entry{Timestamp: timestamp, Level: level.String(), Logger: l.name, Message: text})
		line = string(b) + "\n"
	} else {
		prefix := fmt.Sprintf("[%s] %-5s", timestamp, level)
		if l.name != "" {
			prefix = fmt.Sprintf("%s [%s]", prefix, l.name)
		}
		if l.color {
			line = fmt.Sprintf("%s%s %s\033[0m\n", level.color(), prefix, text)
		} else {
			line = fmt.Sprintf("%s %s\n", prefix, text)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.writer, line)
}

func (l *Logger) Debug(msg string, args ...any) { l.log(Debug, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log(Info, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(Warn, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log(Error, msg, args...) }

// Named returns a sub-logger sharing the parent's sink.
func (l *Logger) Named(name string) *Logger {
	if l == nil {
		return nil
	}
	cp := *l
	cp.closer = nil
	if l.name != "" {
		cp.name = l.name + "/" + name
	} else {
		cp.name = name
	}
	return &cp
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
