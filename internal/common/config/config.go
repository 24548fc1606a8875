package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Postgres struct {
		Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
		Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
		User     string `env:"POSTGRES_USER" envDefault:"postgres"`
		Password string `env:"POSTGRES_PASSWORD" envDefault:""`
		Database string `env:"POSTGRES_DB" envDefault:"icefuse_kits"`
		SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
		MaxConns int    `env:"POSTGRES_MAX_CONNS" envDefault:"25"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	ClickHouse struct {
		Addr     string `env:"CLICKHOUSE_ADDR" envDefault:"localhost:9000"`
		Database string `env:"CLICKHOUSE_DB" envDefault:"analytics"`
		User     string `env:"CLICKHOUSE_USER" envDefault:"default"`
		Password string `env:"CLICKHOUSE_PASSWORD" envDefault:""`
	}

	Analytics struct {
		Stream        string `env:"ANALYTICS_STREAM" envDefault:"analytics:events"`
		ConsumerGroup string `env:"ANALYTICS_CONSUMER_GROUP" envDefault:"analytics-worker"`
		// Requests per second allowed per token on the ingest route.
		RateLimit float64 `env:"ANALYTICS_RATE_LIMIT" envDefault:"50"`
		RateBurst int     `env:"ANALYTICS_RATE_BURST" envDefault:"100"`
	}

	Lifecycle struct {
		TickInterval time.Duration `env:"LIFECYCLE_TICK_INTERVAL" envDefault:"30s"`
	}
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Postgres.Host, c.Postgres.Port, c.Postgres.User, c.Postgres.Password,
		c.Postgres.Database, c.Postgres.SSLMode)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func Load() *Config {
	// Missing .env is fine; production sets variables directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
