// Package channel contains the channel onboarding domain module
package channel

import (
	"fmt"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Devensh22345/channel-adder/config"
	telegramDelivery "github.com/Devensh22345/channel-adder/internal/domain/channel/delivery/telegram"
	"github.com/Devensh22345/channel-adder/internal/domain/channel/deps"
	mongoRepo "github.com/Devensh22345/channel-adder/internal/domain/channel/repository/mongodb"
	postgresRepo "github.com/Devensh22345/channel-adder/internal/domain/channel/repository/postgres"
	"github.com/Devensh22345/channel-adder/internal/domain/channel/usecase/business"
	provisioningdeps "github.com/Devensh22345/channel-adder/internal/domain/provisioning/deps"
	"github.com/Devensh22345/channel-adder/internal/infrastructure/bot"
	"github.com/Devensh22345/channel-adder/internal/infrastructure/database"
)

// Module provides channel domain components for fx dependency injection
var Module = fx.Module("channel",
	// Repository
	fx.Provide(provideRepositories),

	// UseCase
	fx.Provide(business.NewUseCase),

	// Delivery - Telegram (needs raw bot from infrastructure)
	fx.Provide(provideTelegramHandlers),
	fx.Provide(telegramDelivery.NewRouter),

	// Wire cyclic dependency and register routes
	fx.Invoke(wireAndRegister),
)

// Repositories exposes the selected storage under every interface that consumes it
type Repositories struct {
	fx.Out

	Channels     deps.ChannelRepository
	Requests     deps.RequestRepository
	ChannelStore provisioningdeps.ChannelStore
	RequestStore provisioningdeps.RequestStore
}

type repository interface {
	deps.ChannelRepository
	deps.RequestRepository
}

// provideRepositories connects the storage picked by STORAGE_DRIVER
func provideRepositories(
	lc fx.Lifecycle,
	storageCfg *config.StorageConfig,
	provisioningCfg *config.ProvisioningConfig,
	logger zerolog.Logger,
) (Repositories, error) {
	log := logger.With().Str("component", "storage").Logger()

	var repo repository
	switch storageCfg.Driver {
	case config.StorageDriverMongo:
		db, err := database.NewMongoDatabaseFx(lc, &storageCfg.Mongo, log)
		if err != nil {
			return Repositories{}, err
		}
		repo = mongoRepo.NewRepository(db, provisioningCfg.ResetProgressOnReupsert)
	case config.StorageDriverPostgres:
		db, err := database.NewPostgresDBFx(lc, &storageCfg.Postgres, log)
		if err != nil {
			return Repositories{}, err
		}
		repo = postgresRepo.NewRepository(db, provisioningCfg.ResetProgressOnReupsert)
	default:
		return Repositories{}, fmt.Errorf("unsupported storage driver %q", storageCfg.Driver)
	}

	log.Info().Str("driver", storageCfg.Driver).Msg("Storage initialized")

	return Repositories{
		Channels:     repo,
		Requests:     repo,
		ChannelStore: repo,
		RequestStore: repo,
	}, nil
}

// provideTelegramHandlers creates Telegram handlers with raw bot
func provideTelegramHandlers(uc *business.UseCase, b *bot.Bot, logger zerolog.Logger) *telegramDelivery.Handlers {
	return telegramDelivery.NewHandlers(uc, b.Raw(), logger)
}

// wireAndRegister resolves cyclic dependency and registers routes
func wireAndRegister(
	uc *business.UseCase,
	handlers *telegramDelivery.Handlers,
	router *telegramDelivery.Router,
	b *bot.Bot,
) {
	// Handlers implements deps.BotGateway.
	// UseCase -> BotGateway <- Handlers -> UseCase
	uc.SetGateway(handlers)

	router.RegisterRoutes(b.Raw())
}
