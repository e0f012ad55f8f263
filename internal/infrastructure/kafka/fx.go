package kafka

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Devensh22345/channel-adder/config"
	"github.com/Devensh22345/channel-adder/internal/domain/provisioning/deps"
	"github.com/Devensh22345/channel-adder/internal/infrastructure/metrics"
)

// Module provides the provisioning event publisher for fx DI
var Module = fx.Module("kafka",
	fx.Provide(NewEventPublisherFx),
)

// NewEventPublisherFx creates a Kafka producer, or a no-op publisher when no brokers are set
func NewEventPublisherFx(
	lc fx.Lifecycle,
	kafkaCfg *config.KafkaConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) (deps.EventPublisher, error) {
	log := logger.With().Str("component", "event-producer").Logger()

	if !kafkaCfg.Enabled() {
		log.Info().Msg("KAFKA_BROKERS not set, provisioning events disabled")
		return NewNoopPublisher(log), nil
	}

	producer, err := NewEventProducer(kafkaCfg, m, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})

	return producer, nil
}
