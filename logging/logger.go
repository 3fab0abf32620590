package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the file sink
// The terminal is owned by the renderer so logs never go to stdout
type Options struct {
	File       string // empty disables logging
	Level      string // debug, info, warn, error
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	JSON       bool
}

// New builds a zap logger writing to a rotated file
// The returned closer flushes and closes the sink
func New(opts Options) (*zap.Logger, io.Closer, error) {
	if opts.File == "" {
		return zap.NewNop(), nopCloser{}, nil
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	lj := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    orDefault(opts.MaxSizeMB, 10),
		MaxBackups: orDefault(opts.MaxBackups, 3),
		MaxAge:     orDefault(opts.MaxAgeDays, 7),
	}

	logger := zap.New(newCore(zapcore.AddSync(lj), level, opts.JSON), zap.AddCaller())
	return logger, &fileCloser{logger: logger, lj: lj}, nil
}

// NewWriter builds a logger on an arbitrary writer, used by tests and the headless CLI
func NewWriter(w io.Writer, level zapcore.Level) *zap.Logger {
	return zap.New(newCore(zapcore.AddSync(w), level, false))
}

func newCore(ws zapcore.WriteSyncer, level zapcore.Level, json bool) zapcore.Core {
	encCfg := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}
	var enc zapcore.Encoder
	if json {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	return zapcore.NewCore(enc, ws, level)
}

// ParseLevel maps a level name to a zap level, empty means info
func ParseLevel(name string) (zapcore.Level, error) {
	if name == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return lvl, fmt.Errorf("log level %q: %w", name, err)
	}
	return lvl, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

type fileCloser struct {
	logger *zap.Logger
	lj     *lumberjack.Logger
}

func (c *fileCloser) Close() error {
	_ = c.logger.Sync()
	return c.lj.Close()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
