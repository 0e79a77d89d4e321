package logger

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level string
	JSON  bool
}

// Logger оборачивает zap.Logger и добавляет хелперы для HTTP-слоя
type Logger struct {
	*zap.Logger
}

func New(cfg Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	if !cfg.JSON {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.TimeKey = "time"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: l}, nil
}

// Nop возвращает логгер, который ничего не пишет (для тестов)
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

func (l *Logger) WithRequestID(requestID string) *Logger {
	if requestID == "" {
		return l
	}
	return &Logger{Logger: l.With(zap.String("request_id", requestID))}
}

func (l *Logger) WithUser(username string) *Logger {
	if username == "" {
		return l
	}
	return &Logger{Logger: l.With(zap.String("user", username))}
}

func (l *Logger) LogRequest(method, path string, status int, latency time.Duration) {
	l.Info("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Int64("latency_ms", latency.Milliseconds()),
	)
}
