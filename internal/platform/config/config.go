package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	JWTSecret    string

	// Remote accounting API
	EconomicBaseURL     string
	AppSecretToken      string
	EconomicHTTPTimeout time.Duration

	// SyncRateLimit is a ulule/limiter formatted rate ("5-M" = 5 per minute)
	// applied to the sync trigger endpoints.
	SyncRateLimit string

	// TotalsCacheTTL bounds the staleness of cached accounting totals reads.
	TotalsCacheTTL time.Duration

	// CORSAllowedOrigins is a comma-separated origin list. Empty means allow
	// all in development and allow none in production.
	CORSAllowedOrigins string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("ECONOMIC_BASE_URL", "https://restapi.e-conomic.com")
	viper.SetDefault("APP_SECRET_TOKEN", "")
	viper.SetDefault("ECONOMIC_HTTP_TIMEOUT", "10s")
	viper.SetDefault("SYNC_RATE_LIMIT", "5-M")
	viper.SetDefault("TOTALS_CACHE_TTL", "5m")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.EconomicBaseURL = viper.GetString("ECONOMIC_BASE_URL")

	cfg.AppSecretToken = viper.GetString("APP_SECRET_TOKEN")
	if cfg.AppSecretToken == "" {
		log.Println("Warning: APP_SECRET_TOKEN environment variable not set. Remote API calls will be rejected.")
	}

	httpTimeoutStr := viper.GetString("ECONOMIC_HTTP_TIMEOUT")
	httpTimeout, err := time.ParseDuration(httpTimeoutStr)
	if err != nil {
		httpTimeout = 10 * time.Second
		log.Printf("Warning: Invalid value for ECONOMIC_HTTP_TIMEOUT ('%s'). Defaulting to %s.\n", httpTimeoutStr, httpTimeout)
	}
	cfg.EconomicHTTPTimeout = httpTimeout

	cfg.SyncRateLimit = viper.GetString("SYNC_RATE_LIMIT")

	ttlStr := viper.GetString("TOTALS_CACHE_TTL")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		ttl = 5 * time.Minute
		log.Printf("Warning: Invalid value for TOTALS_CACHE_TTL ('%s'). Defaulting to %s.\n", ttlStr, ttl)
	}
	cfg.TotalsCacheTTL = ttl

	cfg.CORSAllowedOrigins = viper.GetString("CORS_ALLOWED_ORIGINS")

	return cfg, nil
}
