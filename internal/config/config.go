// README: Config loader with env defaults for HTTP, journal DB, Redis, AMQP, and auth settings.
package config

import (
	"os"
	"strconv"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	// Journal DB is optional: with an empty DSN the engine runs fully
	// in-process and transition events are not persisted.
	DB struct {
		DSN string
	}
	Redis struct {
		Addr string
	}
	AMQP struct {
		URL      string
		Exchange string
	}
	Auth struct {
		JWTSecret string
	}
	Log struct {
		Level string
	}
	Booking struct {
		CancellationFeePercent int64
	}
}

func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("RANKGO_HTTP_ADDR", ":8080")
	cfg.DB.DSN = envOrDefault("RANKGO_DB_DSN", "")
	cfg.Redis.Addr = envOrDefault("RANKGO_REDIS_ADDR", "")
	cfg.AMQP.URL = envOrDefault("RANKGO_AMQP_URL", "")
	cfg.AMQP.Exchange = envOrDefault("RANKGO_AMQP_EXCHANGE", "rankgo.notifications")
	cfg.Auth.JWTSecret = envOrDefault("RANKGO_JWT_SECRET", "dev-secret")
	cfg.Log.Level = envOrDefault("RANKGO_LOG_LEVEL", "info")
	cfg.Booking.CancellationFeePercent = int64(envOrDefaultInt("RANKGO_CANCEL_FEE_PERCENT", 10))
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
