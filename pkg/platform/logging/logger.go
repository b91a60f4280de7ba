package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ofarias/plantmrp/pkg/platform/config"
)

// New builds a zap logger from the log configuration: structured JSON in
// production, colored console output in development, with the level taken
// from config and defaulting to info when invalid.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	var logConfig zap.Config
	if cfg.Env == "production" {
		logConfig = zap.NewProductionConfig()
	} else {
		logConfig = zap.NewDevelopmentConfig()
		logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}
	logConfig.Level.SetLevel(level)

	return logConfig.Build()
}
