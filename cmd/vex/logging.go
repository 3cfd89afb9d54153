package main

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vexdb/vex/pkg/core"
)

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// zapStoreLogger adapts a zap sugared logger to the engine's keyvals
// logging interface.
type zapStoreLogger struct {
	s *zap.SugaredLogger
}

func storeLogger(l *zap.Logger) core.Logger {
	return zapStoreLogger{s: l.Named("store").Sugar()}
}

func (l zapStoreLogger) Debug(msg string, keyvals ...any) { l.s.Debugw(msg, keyvals...) }
func (l zapStoreLogger) Info(msg string, keyvals ...any)  { l.s.Infow(msg, keyvals...) }
func (l zapStoreLogger) Warn(msg string, keyvals ...any)  { l.s.Warnw(msg, keyvals...) }
func (l zapStoreLogger) Error(msg string, keyvals ...any) { l.s.Errorw(msg, keyvals...) }
