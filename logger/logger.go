package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

func init() {
	enccoderConfig := zap.NewProductionEncoderConfig()
	enccoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	enccoderConfig.StacktraceKey = ""
	consoleEncoder := zapcore.NewJSONEncoder(enccoderConfig)
	writer := zapcore.AddSync(os.Stdout)
	core := zapcore.NewCore(consoleEncoder, writer, zapcore.InfoLevel)
	log = zap.New(core, zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.FatalLevel))
}

func Info(msg string, fields ...zap.Field) {
	log.Info(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	log.Debug(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	log.Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	log.Fatal(msg, fields...)
}
