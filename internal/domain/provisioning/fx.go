// Package provisioning contains the channel provisioning domain module
package provisioning

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Devensh22345/channel-adder/config"
	"github.com/Devensh22345/channel-adder/internal/domain/provisioning/deps"
	"github.com/Devensh22345/channel-adder/internal/domain/provisioning/usecase/business"
	"github.com/Devensh22345/channel-adder/internal/domain/provisioning/workers"
)

// Module provides provisioning domain components for fx dependency injection
var Module = fx.Module("provisioning",
	// UseCase
	fx.Provide(business.NewUseCase),

	// Consumer of the request queue
	fx.Provide(provideRequestHandler),

	// Workers
	workers.Module,
)

// provideRequestHandler picks the request queue consumer from AUTO_PROVISION
func provideRequestHandler(cfg *config.ProvisioningConfig, uc *business.UseCase, logger zerolog.Logger) deps.RequestHandler {
	if !cfg.AutoProvision {
		logger.Info().Msg("AUTO_PROVISION disabled, join requests stay pending")
		return workers.NoopRequestHandler{}
	}

	logger.Info().Strs("bots", cfg.BotsToAdd).Msg("AUTO_PROVISION enabled, pending requests are provisioned")
	return uc
}
