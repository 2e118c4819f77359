package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// NewLogger создает логгер сервиса: для local и dev цветной вывод в консоль
// с уровнем debug, для prod JSON с уровнем info и стектрейсами на ошибках.
// Неизвестное окружение считается dev
func NewLogger(env string) (*zap.Logger, error) {
	cfg := configFor(env)

	logger, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, err
	}

	return logger.Named("codereviewbot").With(zap.String("env", env)), nil
}

func configFor(env string) zap.Config {
	if env == EnvProd {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg
	}

	cfg := zap.NewDevelopmentConfig()
	if env == EnvLocal || env == EnvDev {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg
}
