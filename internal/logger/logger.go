// Package logger configures the process-wide zlog.Logger: console output,
// level and an optional rotating log file.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/zlog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization.
type Options struct {
	Level   string    // debug|info|warn|error, defaults to info
	File    string    // optional path for a rotated JSON log file
	Output  io.Writer // console destination, defaults to os.Stderr
	NoColor bool
}

// Init redirects zlog.Logger to the console and optional file and sets its
// level. Fields added by zlog.Init, such as the timestamp, are kept.
func Init(opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	console := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    opts.NoColor,
		TimeFormat: time.TimeOnly,
	}

	var w io.Writer = console
	if strings.TrimSpace(opts.File) != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		w = zerolog.MultiLevelWriter(console, rotating)
	}

	zlog.Logger = zlog.Logger.Output(w).Level(ParseLevel(opts.Level))
}

// ParseLevel converts a level name to a zerolog.Level, falling back to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
