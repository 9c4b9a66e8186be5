package logger

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fieldserve/contractbill/internal/config"
)

// Module provides a zap logger configured from the application config.
var Module = fx.Module("logger",
	fx.Provide(func(cfg config.Config) (*zap.Logger, error) {
		return New(cfg.LogLevel)
	}),
)
