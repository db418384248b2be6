package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger *zap.Logger

// InitLogger configures the global zap logger. Logs go to stdout; when
// LOG_FILE is set they are additionally written to a rotated file.
func InitLogger() {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	syncers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if path := os.Getenv("LOG_FILE"); path != "" {
		logWriter := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		}
		syncers = append(syncers, zapcore.AddSync(logWriter))
	}

	level := zap.InfoLevel
	if os.Getenv("ENV") == "development" {
		level = zap.DebugLevel
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(syncers...), level)
	Logger = zap.New(core, zap.AddCaller())
}
