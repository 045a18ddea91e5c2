// Package logger provides the zap-based application logger.
package logger

import (
	"aquashop/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON logger in production and a colored console logger
// everywhere else.
func New(env config.Environment) (*zap.Logger, error) {
	if env.IsProduction() {
		return zap.NewProduction()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}

