// Package logger is the zap-backed logger handed to every component.
package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Field = zap.Field

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	Infof(template string, args ...any)
	Warnf(template string, args ...any)

	Sync() error
}

type zapLogger struct {
	*zap.Logger
	sugar *zap.SugaredLogger
}

// New builds the process logger. pretty selects the colored console encoder
// used in development; otherwise entries are JSON. An unknown level means info.
func New(level string, pretty bool) Logger {
	cfg := zap.NewProductionConfig()
	if pretty {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build(
		zap.AddStacktrace(zapcore.FatalLevel),
		zap.Fields(zap.String("service", "portfolio")),
	)
	if err != nil {
		panic(err)
	}
	return &zapLogger{Logger: base, sugar: base.Sugar()}
}

// Nop discards everything.
func Nop() Logger {
	base := zap.NewNop()
	return &zapLogger{Logger: base, sugar: base.Sugar()}
}

func (l *zapLogger) Infof(t string, args ...any) { l.sugar.Infof(t, args...) }
func (l *zapLogger) Warnf(t string, args ...any) { l.sugar.Warnf(t, args...) }

func String(key, val string) Field                 { return zap.String(key, val) }
func Int(key string, val int) Field                { return zap.Int(key, val) }
func Uint(key string, val uint) Field              { return zap.Uint(key, val) }
func Duration(key string, val time.Duration) Field { return zap.Duration(key, val) }
func Any(key string, val any) Field                { return zap.Any(key, val) }
func Error(err error) Field                        { return zap.Error(err) }
