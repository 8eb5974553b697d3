package log

import (
	"fmt"
	stdlog "log"
	"strings"
	"sync"
)

// Config declaratively describes a Logger, the shape a config-file loader
// hands to ApplyConfig.
type Config struct {
	Level    string `json:"level"`    // debug|info|warn|error|fatal
	Format   string `json:"format"`   // text|json
	Output   string `json:"output"`   // console|file|null
	FilePath string `json:"filePath"` // required when Output == "file"
}

// ParseLevel parses a case-insensitive level name.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return InfoLevel, nil
	case "debug":
		return DebugLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("log: unknown level %q", s)
	}
}

// ApplyConfig builds a Logger from a declarative Config.
func ApplyConfig(cfg Config) (Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var formatter Formatter
	switch strings.ToLower(cfg.Format) {
	case "", "json":
		formatter = &JSONFormatter{}
	case "text":
		formatter = &TextFormatter{}
	default:
		return nil, fmt.Errorf("log: unknown format %q", cfg.Format)
	}

	var output Output
	switch strings.ToLower(cfg.Output) {
	case "", "console":
		output = NewConsoleOutput()
	case "null":
		output = NullOutput{}
	case "file":
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("log: output %q requires filePath", cfg.Output)
		}
		fo, err := NewFileOutput(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		output = fo
	default:
		return nil, fmt.Errorf("log: unknown output %q", cfg.Output)
	}

	return NewLogger(WithLevel(level), WithFormatter(formatter), WithOutput(output)), nil
}

// ToStdLogger adapts a Logger to the standard library's *log.Logger,
// writing every line through Info.
func ToStdLogger(l Logger) *stdlog.Logger {
	return stdlog.New(stdWriter{l}, "", 0)
}

type stdWriter struct{ l Logger }

func (w stdWriter) Write(p []byte) (int, error) {
	w.l.Info(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// RedirectStdLog points the standard library's default logger at l and
// returns a function that restores the previous output.
func RedirectStdLog(l Logger) func() {
	prev := stdlog.Writer()
	prevFlags := stdlog.Flags()
	stdlog.SetOutput(stdWriter{l})
	stdlog.SetFlags(0)
	return func() {
		stdlog.SetOutput(prev)
		stdlog.SetFlags(prevFlags)
	}
}

var (
	defaultLoggerOnce sync.Once
	defaultLogger     Logger
)

// GetDefaultLogger returns a process-wide Logger for interop with code that
// cannot take a Logger by constructor injection (e.g. std-log adapters).
// Application code should otherwise receive its Logger explicitly.
func GetDefaultLogger() Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = NewLogger(WithLevel(InfoLevel))
	})
	return defaultLogger
}
