// Package logger builds the zerolog logger shared by the app. A TUI owns
// stdout, so output normally goes to a file.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const (
	permission = 0664
)

type LogBuild struct {
	writer io.Writer
	path   string
	level  zerolog.Level
	app    string
}

type LogData struct {
	writer  io.Writer
	LogFile *os.File
	Logger  zerolog.Logger
}

func New() *LogBuild {
	return &LogBuild{level: zerolog.InfoLevel}
}

func (build *LogBuild) FromPath(path string) *LogBuild {
	build.path = path
	return build
}

func (build *LogBuild) FromBuffer(w io.Writer) *LogBuild {
	build.writer = w
	return build
}

// WithLevel sets the minimum level by name. Unknown names keep the current level.
func (build *LogBuild) WithLevel(name string) *LogBuild {
	if lvl, err := ParseLevel(name); err == nil {
		build.level = lvl
	}
	return build
}

func (build *LogBuild) WithApp(name string) *LogBuild {
	build.app = name
	return build
}

// Make opens the log file when a path is set, otherwise writes to the buffer.
// With neither, logs are discarded.
func (build *LogBuild) Make() (logData *LogData, err error) {
	logData = new(LogData)
	logData.writer = io.Discard
	if build.writer != nil {
		logData.writer = build.writer
	}
	if build.path != "" {
		if err = os.MkdirAll(filepath.Dir(build.path), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		logData.LogFile, err = os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logData.writer = zerolog.SyncWriter(logData.LogFile)
	}
	ctx := zerolog.New(logData.writer).Level(build.level).With().Timestamp()
	if build.app != "" {
		ctx = ctx.Str("app", build.app)
	}
	logData.Logger = ctx.Logger()
	return
}

func (d *LogData) Close() error {
	if d == nil || d.LogFile == nil {
		return nil
	}
	return d.LogFile.Close()
}

// ParseLevel accepts zerolog level names, case-insensitively. An empty name is info.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q: %w", name, err)
	}
	return lvl, nil
}
