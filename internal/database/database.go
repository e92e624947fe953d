package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/culinaryai/culinaryai/internal/config"
)

// Database holds the optional external connections. Both Mongo and Redis are
// disabled by default: the service runs fully in-memory from a CSV dataset,
// and either backend is attached only when enabled in config.
type Database struct {
	Mongo  *mongo.Client
	Dishes *mongo.Collection
	Redis  *redis.Client
	logger *logrus.Logger
}

func New(cfg *config.Config, logger *logrus.Logger) (*Database, error) {
	db := &Database{
		logger: logger,
	}

	if cfg.Mongo.Enabled {
		if err := db.initMongo(cfg); err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB: %w", err)
		}
	}

	if cfg.Redis.Enabled {
		if err := db.initRedis(cfg); err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
	}

	return db, nil
}

func (db *Database) initMongo(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetConnectTimeout(cfg.Mongo.ConnectTimeout))
	if err != nil {
		return fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db.Mongo = client
	db.Dishes = client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
	db.logger.Info("MongoDB connection established")
	return nil
}

func (db *Database) initRedis(cfg *config.Config) error {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opts.PoolSize = cfg.Redis.PoolSize
	opts.ReadTimeout = cfg.Redis.Timeout
	opts.WriteTimeout = cfg.Redis.Timeout

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}

	db.Redis = client
	db.logger.Info("Redis connection established")
	return nil
}

// Health pings every attached backend.
func (db *Database) Health(ctx context.Context) map[string]string {
	status := make(map[string]string)

	if db.Mongo != nil {
		if err := db.Mongo.Ping(ctx, readpref.Primary()); err != nil {
			status["mongo"] = "unhealthy: " + err.Error()
		} else {
			status["mongo"] = "healthy"
		}
	}

	if db.Redis != nil {
		if err := db.Redis.Ping(ctx).Err(); err != nil {
			status["redis"] = "unhealthy: " + err.Error()
		} else {
			status["redis"] = "healthy"
		}
	}

	return status
}

func (db *Database) Close() error {
	var firstErr error

	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := db.Mongo.Disconnect(ctx); err != nil {
			db.logger.WithError(err).Error("Failed to disconnect MongoDB")
			firstErr = err
		}
		cancel()
	}

	if db.Redis != nil {
		if err := db.Redis.Close(); err != nil {
			db.logger.WithError(err).Error("Failed to close Redis client")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
