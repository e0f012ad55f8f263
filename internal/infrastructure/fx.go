// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/Devensh22345/channel-adder/internal/infrastructure/bot"
	httpfx "github.com/Devensh22345/channel-adder/internal/infrastructure/http"
	"github.com/Devensh22345/channel-adder/internal/infrastructure/kafka"
	"github.com/Devensh22345/channel-adder/internal/infrastructure/logger"
	"github.com/Devensh22345/channel-adder/internal/infrastructure/metrics"
	"github.com/Devensh22345/channel-adder/internal/infrastructure/telegram"
)

// Module aggregates all infrastructure modules.
// Storage connections are opened by the channel domain, which picks the driver.
var Module = fx.Module("infrastructure",
	logger.Module,
	metrics.Module,
	telegram.Module,
	bot.Module,
	kafka.Module,
	httpfx.Module,
)
