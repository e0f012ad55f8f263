package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Storage drivers
const (
	StorageDriverMongo    = "mongo"
	StorageDriverPostgres = "postgres"
)

// Config holds all configuration for the channel adder service
type Config struct {
	Telegram     TelegramConfig
	Bot          BotConfig
	Provisioning ProvisioningConfig
	Storage      StorageConfig
	Kafka        KafkaConfig
	Worker       WorkerConfig
	Logging      LoggingConfig
	Service      ServiceConfig
}

// TelegramConfig holds MTProto configuration for the privileged session account
type TelegramConfig struct {
	APIID         int
	APIHash       string
	SessionString string
	RateLimit     int // requests per second
}

// BotConfig holds Bot API configuration
type BotConfig struct {
	Token string
	// ReviewChatID is either a numeric chat id or an @username
	ReviewChatID string
}

// ProvisioningConfig holds settings of the provisioning workflow
type ProvisioningConfig struct {
	BotsToAdd               []string
	SessionAdminRank        string
	BotAdminRank            string
	ResetProgressOnReupsert bool
	AutoProvision           bool
	Timeout                 time.Duration
}

// StorageConfig selects and configures the persistence driver
type StorageConfig struct {
	Driver   string
	Mongo    MongoConfig
	Postgres DatabaseConfig
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URI      string
	Database string
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// GetDSN returns PostgreSQL DSN
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetURL returns PostgreSQL URL for golang-migrate
func (c *DatabaseConfig) GetURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// KafkaConfig holds Kafka configuration. Empty Brokers disables event publishing.
type KafkaConfig struct {
	Brokers                     []string
	TopicChannelProvisioned     string
	TopicChannelProvisionFailed string
}

// Enabled reports whether Kafka publishing is configured
func (c *KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// WorkerConfig holds request monitor configuration
type WorkerConfig struct {
	MonitorInterval time.Duration
	BatchSize       int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name            string
	Port            string
	ShutdownTimeout time.Duration
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config       *Config
	Telegram     *TelegramConfig
	Bot          *BotConfig
	Provisioning *ProvisioningConfig
	Storage      *StorageConfig
	Kafka        *KafkaConfig
	Worker       *WorkerConfig
	Logging      *LoggingConfig
	Service      *ServiceConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:       cfg,
		Telegram:     &cfg.Telegram,
		Bot:          &cfg.Bot,
		Provisioning: &cfg.Provisioning,
		Storage:      &cfg.Storage,
		Kafka:        &cfg.Kafka,
		Worker:       &cfg.Worker,
		Logging:      &cfg.Logging,
		Service:      &cfg.Service,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	apiID, err := strconv.Atoi(getEnv("TELEGRAM_API_ID", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_API_ID: %w", err)
	}

	rateLimit, err := strconv.Atoi(getEnv("TELEGRAM_RATE_LIMIT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_RATE_LIMIT: %w", err)
	}

	resetProgress, err := strconv.ParseBool(getEnv("RESET_PROGRESS_ON_REUPSERT", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid RESET_PROGRESS_ON_REUPSERT: %w", err)
	}

	autoProvision, err := strconv.ParseBool(getEnv("AUTO_PROVISION", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTO_PROVISION: %w", err)
	}

	provisionTimeout, err := time.ParseDuration(getEnv("PROVISION_TIMEOUT", "2m"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROVISION_TIMEOUT: %w", err)
	}

	monitorInterval, err := time.ParseDuration(getEnv("MONITOR_INTERVAL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid MONITOR_INTERVAL: %w", err)
	}

	batchSize, err := strconv.Atoi(getEnv("MONITOR_BATCH_SIZE", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid MONITOR_BATCH_SIZE: %w", err)
	}

	shutdownTimeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			APIID:         apiID,
			APIHash:       getEnv("TELEGRAM_API_HASH", ""),
			SessionString: getEnv("TELEGRAM_SESSION_STRING", ""),
			RateLimit:     rateLimit,
		},
		Bot: BotConfig{
			Token:        getEnv("TELEGRAM_BOT_TOKEN", ""),
			ReviewChatID: getEnv("REVIEW_CHAT_ID", ""),
		},
		Provisioning: ProvisioningConfig{
			BotsToAdd:               ParseBotHandles(getEnv("BOTS_TO_ADD", "")),
			SessionAdminRank:        getEnv("SESSION_ADMIN_RANK", "Bot Admin"),
			BotAdminRank:            getEnv("BOT_ADMIN_RANK", "Bot"),
			ResetProgressOnReupsert: resetProgress,
			AutoProvision:           autoProvision,
			Timeout:                 provisionTimeout,
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverMongo)),
			Mongo: MongoConfig{
				URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
				Database: getEnv("MONGODB_DATABASE", "channel_bot_db"),
			},
			Postgres: DatabaseConfig{
				Host:     getEnv("DB_HOST", "localhost"),
				Port:     getEnv("DB_PORT", "5432"),
				User:     getEnv("DB_USER", "postgres"),
				Password: getEnv("DB_PASSWORD", "postgres"),
				DBName:   getEnv("DB_NAME", "channel_bot_db"),
				SSLMode:  getEnv("DB_SSLMODE", "disable"),
			},
		},
		Kafka: KafkaConfig{
			Brokers:                     splitList(getEnv("KAFKA_BROKERS", "")),
			TopicChannelProvisioned:     getEnv("KAFKA_TOPIC_CHANNEL_PROVISIONED", "channel.provisioned"),
			TopicChannelProvisionFailed: getEnv("KAFKA_TOPIC_CHANNEL_PROVISION_FAILED", "channel.provision_failed"),
		},
		Worker: WorkerConfig{
			MonitorInterval: monitorInterval,
			BatchSize:       batchSize,
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Name:            getEnv("SERVICE_NAME", "channel-adder"),
			Port:            getEnv("SERVICE_PORT", "8085"),
			ShutdownTimeout: shutdownTimeout,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.APIID == 0 {
		return fmt.Errorf("TELEGRAM_API_ID is required")
	}

	if c.Telegram.APIHash == "" {
		return fmt.Errorf("TELEGRAM_API_HASH is required")
	}

	if c.Telegram.SessionString == "" {
		return fmt.Errorf("TELEGRAM_SESSION_STRING is required")
	}

	if c.Bot.Token == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	if c.Bot.ReviewChatID == "" {
		return fmt.Errorf("REVIEW_CHAT_ID is required")
	}

	switch c.Storage.Driver {
	case StorageDriverMongo:
		if c.Storage.Mongo.URI == "" {
			return fmt.Errorf("MONGODB_URI is required")
		}
	case StorageDriverPostgres:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.Worker.MonitorInterval <= 0 {
		return fmt.Errorf("MONITOR_INTERVAL must be positive")
	}

	return nil
}

// ParseBotHandles splits a comma separated list of bot handles,
// dropping blank entries and a leading @ from each handle.
func ParseBotHandles(raw string) []string {
	handles := make([]string, 0)
	for _, item := range strings.Split(raw, ",") {
		handle := strings.TrimPrefix(strings.TrimSpace(item), "@")
		if handle == "" {
			continue
		}
		handles = append(handles, handle)
	}
	return handles
}

func splitList(raw string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
