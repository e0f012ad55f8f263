package telegram

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Devensh22345/channel-adder/config"
	channeldeps "github.com/Devensh22345/channel-adder/internal/domain/channel/deps"
	provisioningdeps "github.com/Devensh22345/channel-adder/internal/domain/provisioning/deps"
	"github.com/Devensh22345/channel-adder/internal/infrastructure/metrics"
)

// Module provides the session client for fx DI
var Module = fx.Module("telegram",
	fx.Provide(
		NewSessionClientFx,
		provideInviteLinkExporter,
		provideProvisioningSession,
	),
)

// NewSessionClientFx creates the session client and connects it on start
func NewSessionClientFx(
	lc fx.Lifecycle,
	telegramCfg *config.TelegramConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) (*SessionClient, error) {
	storage, err := NewStringSessionStorage(context.Background(), telegramCfg.SessionString)
	if err != nil {
		return nil, err
	}

	client, err := NewSessionClient(SessionClientConfig{
		APIID:     telegramCfg.APIID,
		APIHash:   telegramCfg.APIHash,
		Storage:   storage,
		RateLimit: telegramCfg.RateLimit,
		Metrics:   m,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Connect(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	return client, nil
}

func provideInviteLinkExporter(c *SessionClient) channeldeps.InviteLinkExporter {
	return c
}

func provideProvisioningSession(c *SessionClient) provisioningdeps.SessionClient {
	return c
}
