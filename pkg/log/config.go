package log

import (
	"fmt"
	stdlog "log"
	"strings"
)

// Config is a declarative logger configuration, typically sourced from flags
// or LOGTAIL_LOG_* environment variables.
type Config struct {
	// Level is the minimum level: debug|info|warn|error.
	Level string `json:"level"`
	// Format selects the formatter: text|json.
	Format string `json:"format"`
}

// ParseLevel converts a level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
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

// ApplyConfig builds a Logger from a Config. Empty fields fall back to
// level=info, format=text.
func ApplyConfig(cfg *Config) (Logger, error) {
	level := InfoLevel
	if cfg.Level != "" {
		l, err := ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = l
	}

	var formatter Formatter
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "text":
		formatter = &TextFormatter{}
	case "json":
		formatter = &JSONFormatter{}
	default:
		return nil, fmt.Errorf("log: unknown format %q", cfg.Format)
	}

	return NewLogger(WithLevel(level), WithFormatter(formatter)), nil
}

// stdWriter adapts a Logger to an io.Writer so the standard library logger
// can be redirected through it.
type stdWriter struct {
	logger Logger
}

func (w stdWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	w.logger.Info(msg, Component("stdlog"))
	return len(p), nil
}

// RedirectStdLog routes standard library log output through the provided
// Logger at info level.
func RedirectStdLog(logger Logger) {
	stdlog.SetFlags(0)
	stdlog.SetOutput(stdWriter{logger: logger})
}
