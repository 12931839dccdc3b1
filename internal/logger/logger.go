// Package logger holds the process-wide zap logger.
package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the application logger. It discards everything until InitLogger runs,
// so packages and tests can log without setup.
var Log = zap.NewNop()

// Config mirrors the log section of the application configuration.
// An empty Filename logs to stdout only.
type Config struct {
	Level      string `mapstructure:"level"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes before rotation
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
}

// fileFlushInterval bounds how long a line can stay in the file buffer.
// CLI commands call Sync before exiting so nothing waits for it.
const fileFlushInterval = 5 * time.Second

// InitLogger replaces Log with a JSON logger at cfg.Level writing to stdout and,
// when configured, to a rotating file.
func InitLogger(cfg *Config) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), writeSyncer(cfg), level)
	Log = zap.New(core, zap.AddCaller(), zap.Fields(zap.String("app", "adtracker")))
	zap.ReplaceGlobals(Log)
	return nil
}

func writeSyncer(cfg *Config) zapcore.WriteSyncer {
	stdout := zapcore.AddSync(os.Stdout)
	if cfg.Filename == "" {
		return stdout
	}

	file := &zapcore.BufferedWriteSyncer{
		WS: zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}),
		Size:          256 * 1024,
		FlushInterval: fileFlushInterval,
	}
	return zapcore.NewMultiWriteSyncer(stdout, file)
}

// Sync flushes buffered log entries. Call it before the process exits.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
