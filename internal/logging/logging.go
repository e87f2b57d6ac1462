package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Level  string
	Format string // "console" or "json"
	File   string // optional; logs go to stderr and the file
}

// Logger bundles the zerolog logger with the file it may write to.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New builds a logger. An unknown level falls back to info.
func New(cfg Config) (*Logger, error) {
	return newWithStderr(cfg, os.Stderr)
}

func newWithStderr(cfg Config, stderr io.Writer) (*Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = stderr
	if strings.EqualFold(cfg.Format, "console") || cfg.Format == "" {
		out = zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339}
	}

	l := &Logger{}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
		out = zerolog.MultiLevelWriter(out, f)
	}

	l.Logger = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	return l, nil
}

// TimestampedFile returns <dir>/2006-01-02_15-04-05.log for t.
func TimestampedFile(dir string, t time.Time) string {
	return filepath.Join(dir, t.Format("2006-01-02_15-04-05")+".log")
}

// Component returns a child logger tagged with component=name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
