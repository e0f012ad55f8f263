package http

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Devensh22345/channel-adder/config"
	"github.com/Devensh22345/channel-adder/internal/domain/channel/deps"
	"github.com/Devensh22345/channel-adder/internal/infrastructure/http/server"
	"github.com/Devensh22345/channel-adder/internal/infrastructure/telegram"
)

// Module provides HTTP server for fx DI
var Module = fx.Module("http",
	fx.Provide(NewServerFx),
	fx.Invoke(func(*server.Server) {}),
)

// NewServerFx creates HTTP server with lifecycle hooks for fx DI
func NewServerFx(
	lc fx.Lifecycle,
	serviceCfg *config.ServiceConfig,
	session *telegram.SessionClient,
	channels deps.ChannelRepository,
	logger zerolog.Logger,
) *server.Server {
	srv := server.NewServer(serviceCfg.Name, serviceCfg.Port, logger.With().Str("component", "http").Logger())

	srv.RegisterMetrics()
	srv.RegisterHealth(serviceCfg.Name, map[string]server.Checker{
		"session": session,
		"storage": channels,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}
