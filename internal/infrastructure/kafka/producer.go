// Package kafka contains the Kafka producer for provisioning events
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/Devensh22345/channel-adder/config"
	"github.com/Devensh22345/channel-adder/internal/domain/provisioning/entities"
	"github.com/Devensh22345/channel-adder/internal/infrastructure/metrics"
)

// EventProducer sends provisioning events to Kafka
type EventProducer struct {
	producer sarama.SyncProducer
	config   *config.KafkaConfig
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewEventProducer creates a new Kafka producer for provisioning events
func NewEventProducer(cfg *config.KafkaConfig, m *metrics.Metrics, logger zerolog.Logger) (*EventProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers specified")
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 500 * time.Millisecond
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Version = sarama.V2_6_0_0
	saramaConfig.ClientID = "channel-adder-producer"

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create Kafka producer")
		return nil, err
	}

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Msg("Kafka event producer initialized")

	return newEventProducer(producer, cfg, m, logger), nil
}

func newEventProducer(producer sarama.SyncProducer, cfg *config.KafkaConfig, m *metrics.Metrics, logger zerolog.Logger) *EventProducer {
	return &EventProducer{
		producer: producer,
		config:   cfg,
		metrics:  m,
		logger:   logger,
	}
}

// PublishProvisioningEvent sends the event to the topic matching its type
func (p *EventProducer) PublishProvisioningEvent(ctx context.Context, event *entities.ProvisioningEvent) error {
	topic := p.config.TopicChannelProvisioned
	if event.Type == entities.EventTypeChannelProvisionFailed {
		topic = p.config.TopicChannelProvisionFailed
	}

	bytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error().Err(err).
			Str("topic", topic).
			Msg("failed to marshal provisioning event")
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.ChannelID, 10)),
		Value: sarama.ByteEncoder(bytes),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.recordEvent(topic, false)
		p.logger.Error().Err(err).
			Str("topic", topic).
			Int64("channel_id", event.ChannelID).
			Msg("failed to send provisioning event")
		return err
	}

	p.recordEvent(topic, true)
	p.logger.Info().
		Str("topic", topic).
		Str("type", event.Type).
		Str("event_id", event.EventID).
		Int64("channel_id", event.ChannelID).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Provisioning event sent")

	return nil
}

func (p *EventProducer) recordEvent(topic string, ok bool) {
	if p.metrics == nil {
		return
	}
	result := "success"
	if !ok {
		result = "error"
	}
	p.metrics.EventsPublished.WithLabelValues(topic, result).Inc()
}

// Close closes the Kafka producer
func (p *EventProducer) Close() error {
	if p.producer == nil {
		return nil
	}

	if err := p.producer.Close(); err != nil {
		p.logger.Error().Err(err).Msg("failed to close Kafka producer")
		return err
	}

	p.logger.Info().Msg("Kafka producer closed")
	return nil
}

// NoopPublisher drops events when Kafka is not configured
type NoopPublisher struct {
	logger zerolog.Logger
}

// NewNoopPublisher creates a publisher that only logs events
func NewNoopPublisher(logger zerolog.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger}
}

// PublishProvisioningEvent logs the event at debug level
func (p *NoopPublisher) PublishProvisioningEvent(_ context.Context, event *entities.ProvisioningEvent) error {
	p.logger.Debug().
		Str("type", event.Type).
		Int64("channel_id", event.ChannelID).
		Msg("Kafka disabled, provisioning event dropped")
	return nil
}
