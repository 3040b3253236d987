package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	DatabaseURL     string
	RedisURL        string
	NATSURL         string
	NATSSubject     string
	JWTSecret       string
	CatalogCacheTTL time.Duration
	ReportRateMax   int
	ReportRateWin   time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LUMOS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Lumos API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("nats.subject", "lumos.moderation")
	v.SetDefault("catalog.cache_ttl", "5m")
	v.SetDefault("report.rate_max", 10)
	v.SetDefault("report.rate_window", "1m")

	ttl, err := time.ParseDuration(v.GetString("catalog.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid catalog cache ttl: %w", err)
	}

	rateWindow, err := time.ParseDuration(v.GetString("report.rate_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid report rate window: %w", err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		DatabaseURL:     v.GetString("database.url"),
		RedisURL:        v.GetString("redis.url"),
		NATSURL:         v.GetString("nats.url"),
		NATSSubject:     v.GetString("nats.subject"),
		JWTSecret:       v.GetString("jwt.secret"),
		CatalogCacheTTL: ttl,
		ReportRateMax:   v.GetInt("report.rate_max"),
		ReportRateWin:   rateWindow,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}
