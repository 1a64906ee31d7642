package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port            string        `env:"PORT" default:"5000"`
	StoreDriver     string        `env:"STORE_DRIVER" default:"mongo"`
	MongoURI        string        `env:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase   string        `env:"MONGO_DATABASE" default:"overlay_db"`
	MongoCollection string        `env:"MONGO_COLLECTION" default:"overlays"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	StoreTimeout    time.Duration `env:"STORE_TIMEOUT" default:"5s"`
	LogLevel        string        `env:"LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`

	ConnectRetries       int           `env:"CONNECT_RETRIES" default:"5"`
	ConnectRetryInterval time.Duration `env:"CONNECT_RETRY_INTERVAL" default:"2s"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables from OS")
	}
	return FromEnv()
}

// FromEnv binds the current environment without touching .env files.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required for the mongo driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want mongo, postgres or memory)", c.StoreDriver)
	}

	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.StoreTimeout <= 0 {
		return errors.New("STORE_TIMEOUT must be positive")
	}
	if c.ConnectRetries < 1 {
		return errors.New("CONNECT_RETRIES must be at least 1")
	}
	return nil
}
