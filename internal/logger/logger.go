package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Default rotation constants for the optional log file.
const (
	DefaultMaxSizeMB  = 10 // MB
	DefaultMaxBackups = 3  // number of backup files
	DefaultMaxAgeDays = 7  // days
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"

	FormatText = "text"
	FormatJSON = "json"
)

// Config combines console logging options with an optional rotated log file.
type Config struct {
	Slog SlogConfig
	File FileConfig
}

// SlogConfig controls the slog handler used for the application logger.
type SlogConfig struct {
	Level      string // debug, info, warn, error (default info)
	Format     string // text or json (default text)
	Color      bool   // ANSI level colors, text format only
	TimeStamps bool
	Source     bool
}

// FileConfig describes the rotated log file. Rotation parameters follow
// lumberjack semantics. An empty Path disables file output.
type FileConfig struct {
	Path       string
	MaxSizeMB  int  // megabytes before rotation (default 10)
	MaxBackups int  // number of backups to keep (default 3)
	MaxAgeDays int  // days to keep (default 7)
	Compress   bool // gzip rotated files
}

// Writer returns a lumberjack writer for the configured path, or nil when no
// path is set.
func (f FileConfig) Writer() io.WriteCloser {
	if f.Path == "" {
		return nil
	}
	return &lj.Logger{
		Filename:   f.Path,
		MaxSize:    valOr(f.MaxSizeMB, DefaultMaxSizeMB),
		MaxBackups: valOr(f.MaxBackups, DefaultMaxBackups),
		MaxAge:     valOr(f.MaxAgeDays, DefaultMaxAgeDays),
		Compress:   f.Compress,
	}
}

// NewSlogger builds a logger writing to stdout and, when configured, to the
// rotated log file. The returned closer releases the file and may be nil.
func (c Config) NewSlogger() (*slog.Logger, io.Closer) {
	return c.newSlogger(os.Stdout)
}

func (c Config) newSlogger(console io.Writer) (*slog.Logger, io.Closer) {
	w := console
	fw := c.File.Writer()
	if fw != nil {
		w = io.MultiWriter(console, fw)
	}
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(c.Slog.Level),
		AddSource: c.Slog.Source,
	}
	if !c.Slog.TimeStamps {
		opts.ReplaceAttr = dropTime
	}

	var h slog.Handler
	switch {
	case strings.EqualFold(c.Slog.Format, FormatJSON):
		h = slog.NewJSONHandler(w, opts)
	case c.Slog.Color && fw == nil:
		// colors only when nothing but the terminal receives the output
		h = NewColorTextHandler(w, opts)
	default:
		h = slog.NewTextHandler(w, opts)
	}
	var closer io.Closer
	if fw != nil {
		closer = fw
	}
	return slog.New(h), closer
}

// ParseLevel maps a level name to slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn, "warning":
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}

func valOr(v int, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
