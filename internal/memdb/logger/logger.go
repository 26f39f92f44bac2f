// Copyright © 2025 jackelyj <dreamerlyj@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//

// Package logger builds the zap logger used across memdb.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/go-units"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/innovationmech/memdb/internal/memdb/config"
	"github.com/innovationmech/memdb/internal/memdb/interfaces"
)

// Logger types.
const (
	TypeConsole   = "console"
	TypeFile      = "file"
	TypeComposite = "composite"
	TypeNone      = "none"
)

// Logger is a leveled structured logger. Fields are alternating key/value
// pairs, as with zap's SugaredLogger.
type Logger struct {
	sugar   *zap.SugaredLogger
	level   zap.AtomicLevel
	console zap.AtomicLevel
	file    string
	closer  io.Closer
}

var _ interfaces.Logger = (*Logger)(nil)

// Option configures New.
type Option func(*options)

type options struct {
	console io.Writer
	now     func() time.Time
}

// WithConsoleWriter redirects the console sink. Defaults to os.Stderr.
func WithConsoleWriter(w io.Writer) Option {
	return func(o *options) {
		o.console = w
	}
}

// WithClock sets the clock used to expand {date} in file names.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// ParseLevel converts a level name such as "WARNING" or "debug" to a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return zapcore.DebugLevel, nil
	case "INFO", "":
		return zapcore.InfoLevel, nil
	case "WARN", "WARNING":
		return zapcore.WarnLevel, nil
	case "ERROR":
		return zapcore.ErrorLevel, nil
	case "CRITICAL", "FATAL":
		return zapcore.FatalLevel, nil
	default:
		return zapcore.InfoLevel, interfaces.NewInvalidInputError(fmt.Sprintf("unknown log level %q", s))
	}
}

// New builds a logger from the logging section of the configuration.
func New(cfg config.LoggingConfig, opts ...Option) (*Logger, error) {
	o := options{console: os.Stderr, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	consoleLvl := lvl
	if cfg.Console.Level != "" {
		if consoleLvl, err = ParseLevel(cfg.Console.Level); err != nil {
			return nil, err
		}
	}

	l := &Logger{
		level:   zap.NewAtomicLevelAt(lvl),
		console: zap.NewAtomicLevelAt(consoleLvl),
	}

	typ := strings.ToLower(cfg.Type)
	if typ == "" {
		typ = TypeComposite
	}

	var cores []zapcore.Core
	switch typ {
	case TypeNone:
	case TypeConsole:
		cores = append(cores, l.consoleCore(cfg, o.console))
	case TypeFile:
		core, err := l.fileCore(cfg, o.now())
		if err != nil {
			return nil, err
		}
		cores = append(cores, core)
	case TypeComposite:
		if cfg.Console.Enabled {
			cores = append(cores, l.consoleCore(cfg, o.console))
		}
		if cfg.File.Enabled {
			core, err := l.fileCore(cfg, o.now())
			if err != nil {
				return nil, err
			}
			cores = append(cores, core)
		}
	default:
		return nil, interfaces.NewInvalidInputError(fmt.Sprintf("unknown logger type %q", cfg.Type))
	}

	var base *zap.Logger
	if len(cores) == 0 {
		base = zap.NewNop()
	} else {
		base = zap.New(zapcore.NewTee(cores...))
	}
	l.sugar = base.Sugar()
	return l, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{
		sugar:   zap.NewNop().Sugar(),
		level:   zap.NewAtomicLevel(),
		console: zap.NewAtomicLevel(),
	}
}

func (l *Logger) consoleCore(cfg config.LoggingConfig, w io.Writer) zapcore.Core {
	encCfg := zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		ConsoleSeparator: ": ",
	}
	var enc zapcore.Encoder
	if strings.EqualFold(cfg.Format.Console, "json") {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	// both the global and the console level must admit an entry
	enabler := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return l.level.Enabled(lvl) && l.console.Enabled(lvl)
	})
	// hide the writer's Sync: stderr cannot be fsynced when it is a pipe or terminal
	return zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(struct{ io.Writer }{w})), enabler)
}

func (l *Logger) fileCore(cfg config.LoggingConfig, now time.Time) (zapcore.Core, error) {
	maxSizeMB := 10
	if cfg.File.MaxSize != "" {
		bytes, err := units.RAMInBytes(cfg.File.MaxSize)
		if err != nil {
			return nil, interfaces.NewInvalidInputError(fmt.Sprintf("invalid max_size %q", cfg.File.MaxSize), err.Error())
		}
		maxSizeMB = int((bytes + units.MiB - 1) / units.MiB)
		if maxSizeMB < 1 {
			maxSizeMB = 1
		}
	}

	pattern := cfg.File.FilenamePattern
	if pattern == "" {
		pattern = "db_{date}.log"
	}
	name := strings.ReplaceAll(pattern, "{date}", now.Format("2006-01-02"))
	path := cfg.File.Path
	if path == "" {
		path = "."
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	l.file = filepath.Join(path, name)

	rotator := &lumberjack.Logger{
		Filename:   l.file,
		MaxSize:    maxSizeMB,
		MaxBackups: cfg.File.BackupCount,
	}
	l.closer = rotator

	var enc zapcore.Encoder
	if strings.EqualFold(cfg.Format.File, "console") {
		enc = zapcore.NewConsoleEncoder(zap.NewProductionEncoderConfig())
	} else {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	}
	return zapcore.NewCore(enc, zapcore.AddSync(rotator), l.level), nil
}

// File returns the path of the active log file, or "" without a file sink.
func (l *Logger) File() string {
	return l.file
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...interface{}) {
	l.sugar.Debugw(msg, fields...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...interface{}) {
	l.sugar.Infow(msg, fields...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...interface{}) {
	l.sugar.Warnw(msg, fields...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...interface{}) {
	l.sugar.Errorw(msg, fields...)
}

// Fatal logs a fatal message and exits the process.
func (l *Logger) Fatal(msg string, fields ...interface{}) {
	l.sugar.Fatalw(msg, fields...)
}

// With returns a child logger that adds fields to every entry.
func (l *Logger) With(fields ...interface{}) *Logger {
	child := *l
	child.sugar = l.sugar.With(fields...)
	child.closer = nil
	return &child
}

// SetLevel changes the global level at runtime.
func (l *Logger) SetLevel(level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	l.level.SetLevel(lvl)
	return nil
}

// Level returns the global level.
func (l *Logger) Level() zapcore.Level {
	return l.level.Level()
}

// Sync flushes buffered entries and closes the log file.
func (l *Logger) Sync() error {
	err := l.sugar.Sync()
	if l.closer != nil {
		if cerr := l.closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
