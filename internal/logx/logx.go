// Package logx wraps zap behind a small interface so packages never
// depend on a concrete logger. Diagnostics go to stderr; protocol
// output never flows through here.
package logx

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Sync() error
}

type Logx struct {
	level       zapcore.Level
	sugarLogger *zap.SugaredLogger
}

var loggerLevelMap = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
	"fatal": zapcore.FatalLevel,
}

func LevelByString(lvl string) zapcore.Level {
	level, exist := loggerLevelMap[lvl]
	if !exist {
		return zapcore.InfoLevel
	}
	return level
}

// New builds a console logger writing to w (stderr when nil).
func New(lvl zapcore.Level, w io.Writer) *Logx {
	var logWriter zapcore.WriteSyncer
	if w == nil {
		logWriter = zapcore.AddSync(os.Stderr)
	} else {
		logWriter = zapcore.AddSync(w)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderCfg)

	core := zapcore.NewCore(encoder, logWriter, zap.NewAtomicLevelAt(lvl))
	logger := zap.New(core, zap.AddCallerSkip(1))

	return &Logx{level: lvl, sugarLogger: logger.Sugar()}
}

func (l *Logx) Debug(args ...interface{}) { l.sugarLogger.Debug(args...) }

func (l *Logx) Debugf(template string, args ...interface{}) {
	l.sugarLogger.Debugf(template, args...)
}

func (l *Logx) Info(args ...interface{}) { l.sugarLogger.Info(args...) }

func (l *Logx) Infof(template string, args ...interface{}) {
	l.sugarLogger.Infof(template, args...)
}

func (l *Logx) Warn(args ...interface{}) { l.sugarLogger.Warn(args...) }

func (l *Logx) Warnf(template string, args ...interface{}) {
	l.sugarLogger.Warnf(template, args...)
}

func (l *Logx) Error(args ...interface{}) { l.sugarLogger.Error(args...) }

func (l *Logx) Errorf(template string, args ...interface{}) {
	l.sugarLogger.Errorf(template, args...)
}

func (l *Logx) Sync() error { return l.sugarLogger.Sync() }

// Nop discards everything. Used by tests.
type Nop struct{}

func (Nop) Debug(args ...interface{}) {}
func (Nop) Debugf(template string, args ...interface{}) {}
func (Nop) Info(args ...interface{}) {}
func (Nop) Infof(template string, args ...interface{}) {}
func (Nop) Warn(args ...interface{}) {}
func (Nop) Warnf(template string, args ...interface{}) {}
func (Nop) Error(args ...interface{}) {}
func (Nop) Errorf(template string, args ...interface{}) {}
func (Nop) Sync() error { return nil }
