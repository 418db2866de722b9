package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	mongoOptions "go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pokeexplorer/backend/internal/kvstore"
)

// InitStore initializes the key-value store selected by STORE_DRIVER and
// returns it with a close function for the underlying connection.
func InitStore(cfg *Config) (kvstore.Store, func(), error) {
	switch cfg.StoreDriver {
	case "memory":
		log.Println("Using in-memory key-value store.")
		return kvstore.NewMemoryStore(), func() {}, nil
	case "redis":
		return initRedis(cfg)
	case "postgres":
		return initPostgres(cfg)
	case "mongo":
		return initMongo(cfg)
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func initRedis(cfg *Config) (kvstore.Store, func(), error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("Successfully connected to Redis!")
	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v\n", err)
		} else {
			log.Println("Redis connection closed.")
		}
	}
	return kvstore.NewRedisStore(client), closeFn, nil
}

func initPostgres(cfg *Config) (kvstore.Store, func(), error) {
	if cfg.PostgresConnStr == "" {
		return nil, nil, fmt.Errorf("POSTGRES_CONN_STR environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresConnStr), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// Ping the database to verify connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, nil, err
	}

	store, err := kvstore.NewPostgresStore(db)
	if err != nil {
		return nil, nil, err
	}

	log.Println("Successfully connected to PostgreSQL!")
	closeFn := func() {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing PostgreSQL connection: %v\n", err)
		} else {
			log.Println("PostgreSQL connection closed.")
		}
	}
	return store, closeFn, nil
}

func initMongo(cfg *Config) (kvstore.Store, func(), error) {
	if cfg.MongoURI == "" {
		return nil, nil, fmt.Errorf("MONGO_URI environment variable not set")
	}

	clientOptions := mongoOptions.Client().ApplyURI(cfg.MongoURI)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	// Ping the primary to verify connection
	if err = client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	log.Println("Successfully connected to MongoDB!")
	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("Error closing MongoDB connection: %v\n", err)
		} else {
			log.Println("MongoDB connection closed.")
		}
	}
	return kvstore.NewMongoStore(client.Database(cfg.MongoDatabase)), closeFn, nil
}
