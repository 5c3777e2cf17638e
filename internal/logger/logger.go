package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"logicquest/internal/config"
)

// New builds a production logger for env "production" and a development one otherwise.
// When log.file is set all output goes there, which keeps the terminal free for the game.
func New(cfg config.Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.Env == "production" {
		zc = zap.NewProductionConfig()
	}
	if cfg.Log.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	if cfg.Log.File != "" {
		zc.OutputPaths = []string{cfg.Log.File}
		zc.ErrorOutputPaths = []string{cfg.Log.File}
	}
	return zc.Build()
}
