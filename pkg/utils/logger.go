package utils

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logMaxSizeMB  = 10
	logMaxBackups = 7
	logMaxAgeDays = 28
)

func appName(config AppConfig) string {
	if config.Name == "" {
		return "material-market"
	}
	return config.Name
}

// LogFile is the rotating log file the app writes under config.LogPath.
func LogFile(config AppConfig) string {
	return filepath.Join(config.LogPath, appName(config)+".log")
}

// InitLogger tees every entry to stdout and to a lumberjack-rotated file.
// Debug switches to the console encoder at debug level. Every entry carries
// the app name.
func InitLogger(config AppConfig) (*zap.Logger, error) {
	if config.LogPath != "" {
		if err := os.MkdirAll(config.LogPath, 0755); err != nil {
			return nil, err
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	if config.Debug {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.CallerKey = "caller"
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	encoder := zapcore.NewJSONEncoder(encoderConfig)
	if config.Debug {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if config.Debug {
		level.SetLevel(zap.DebugLevel)
	}

	// File sink dengan rotasi log
	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   LogFile(config),
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
		Compress:   true,
	})

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, fileWriter, level),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	)

	return zap.New(core, zap.AddCaller(), zap.Fields(zap.String("app", appName(config)))), nil
}
