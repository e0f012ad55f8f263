package database

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Devensh22345/channel-adder/config"
)

// NewMongoDatabaseFx connects to MongoDB and closes the client on stop
func NewMongoDatabaseFx(lc fx.Lifecycle, cfg *config.MongoConfig, logger zerolog.Logger) (*mongo.Database, error) {
	client, db, err := NewMongoDatabase(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	if err := EnsureMongoIndexes(context.Background(), db); err != nil {
		logger.Warn().Err(err).Msg("Failed to ensure MongoDB indexes")
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Closing MongoDB connection")
			return client.Disconnect(ctx)
		},
	})

	logger.Info().
		Str("database", cfg.Database).
		Msg("MongoDB connected successfully")

	return db, nil
}

// NewPostgresDBFx creates a PostgreSQL database connection with fx lifecycle management
func NewPostgresDBFx(lc fx.Lifecycle, cfg *config.DatabaseConfig, logger zerolog.Logger) (*gorm.DB, error) {
	db, err := NewPostgresDB(cfg)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(db, cfg); err != nil {
		// Migrations may already be applied by another replica
		logger.Warn().Err(err).Msg("Failed to run migrations")
	} else {
		logger.Info().Msg("Database migrations completed successfully")
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Closing database connection")
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	logger.Info().
		Str("host", cfg.Host).
		Str("port", cfg.Port).
		Str("database", cfg.DBName).
		Msg("Database connected successfully")

	return db, nil
}
