package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/tka-exam-bot/internal/config"
)

const serviceName = "tka-exam-bot"

// New builds the application logger: JSON at info level in production,
// console output at debug level elsewhere. Every entry carries the service
// name and environment.
func New(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.Env == "production" {
		zc = zap.NewProductionConfig()
	}

	zc.InitialFields = map[string]any{
		"service": serviceName,
		"env":     cfg.Env,
	}

	return zc.Build()
}
