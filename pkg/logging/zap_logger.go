package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ZapLogger struct {
	sugarLogger *zap.SugaredLogger
}

var _ Logger = (*ZapLogger)(nil)

// NewZapLogger builds a zap backed Logger. Development mode logs debug and above
// in console format, production logs info and above as JSON.
func NewZapLogger(config LoggerConfig) (*ZapLogger, error) {
	var zapConfig zap.Config
	if config.IsDevelopment {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapConfig = zap.NewProductionConfig()
	}
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.OutputPaths = []string{"stdout"}

	if config.LogDir != "" {
		logDir := filepath.Join(config.LogDir, LogsDir, string(config.ProcessName))
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		logPath := filepath.Join(logDir, time.Now().Format(LogFileFormat))
		zapConfig.OutputPaths = append(zapConfig.OutputPaths, logPath)
	}

	logger, err := zapConfig.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}

	return &ZapLogger{
		sugarLogger: logger.Sugar().With("process", string(config.ProcessName)),
	}, nil
}

func (z *ZapLogger) Debug(msg string, tags ...interface{}) {
	z.sugarLogger.Debugw(msg, tags...)
}

func (z *ZapLogger) Info(msg string, tags ...interface{}) {
	z.sugarLogger.Infow(msg, tags...)
}

func (z *ZapLogger) Warn(msg string, tags ...interface{}) {
	z.sugarLogger.Warnw(msg, tags...)
}

func (z *ZapLogger) Error(msg string, tags ...interface{}) {
	z.sugarLogger.Errorw(msg, tags...)
}

func (z *ZapLogger) Fatal(msg string, tags ...interface{}) {
	z.sugarLogger.Fatalw(msg, tags...)
}

func (z *ZapLogger) Debugf(template string, args ...interface{}) {
	z.sugarLogger.Debugf(template, args...)
}

func (z *ZapLogger) Infof(template string, args ...interface{}) {
	z.sugarLogger.Infof(template, args...)
}

func (z *ZapLogger) Warnf(template string, args ...interface{}) {
	z.sugarLogger.Warnf(template, args...)
}

func (z *ZapLogger) Errorf(template string, args ...interface{}) {
	z.sugarLogger.Errorf(template, args...)
}

func (z *ZapLogger) Fatalf(template string, args ...interface{}) {
	z.sugarLogger.Fatalf(template, args...)
}

func (z *ZapLogger) With(tags ...interface{}) Logger {
	return &ZapLogger{
		sugarLogger: z.sugarLogger.With(tags...),
	}
}

// Sync flushes buffered entries
func (z *ZapLogger) Sync() error {
	return z.sugarLogger.Sync()
}
