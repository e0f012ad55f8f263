// Package app contains application bootstrap
package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/Devensh22345/channel-adder/config"
	"github.com/Devensh22345/channel-adder/internal/domain"
	"github.com/Devensh22345/channel-adder/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, metrics, session client, bot, kafka, http)
		infrastructure.Module,

		// Domain (channel onboarding, provisioning)
		domain.Module,
	)
}

// New builds the fx application. Hooks get SHUTDOWN_TIMEOUT to stop.
func New() *fx.App {
	return fx.New(
		CreateApp(),
		fx.StopTimeout(shutdownTimeout()),
	)
}

// shutdownTimeout falls back to the fx default when config does not load;
// fx.New then reports the config error itself.
func shutdownTimeout() time.Duration {
	cfg, err := config.Load()
	if err != nil || cfg.Service.ShutdownTimeout <= 0 {
		return fx.DefaultTimeout
	}
	return cfg.Service.ShutdownTimeout
}
