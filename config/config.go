package config

import (
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata" // embedded zone database for PRICING_TIMEZONE

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV:
//
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_DB=spesasmart
//	REDIS_ADDR=localhost:6379
//	JWT_SECRET_KEY=change-me
//	PRICING_TIMEZONE=Europe/Rome
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Postgres PostgresConfig // PostgreSQL connection settings
	Redis    RedisConfig    // Best-price cache
	JWT      JWTConfig      // Bearer token verification
	Pricing  PricingConfig  // Indicator thresholds, trend window, business timezone
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string   // The TCP port the HTTP server will listen on (e.g., "8080")
	CORSAllowedOrigins []string // Empty means any origin
	RateLimitPerMinute int      // Requests per client IP per minute
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// RedisConfig configures the cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

// JWTConfig holds the shared secret used to verify access tokens.
type JWTConfig struct {
	SecretKey string
	Issuer    string // optional; empty skips the issuer check
}

// PricingConfig holds the tunables of the pricing core.
type PricingConfig struct {
	OttimoRatio decimal.Decimal
	AltoRatio   decimal.Decimal
	TrendMonths int
	Timezone    string
	Location    *time.Location
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or malformed, validateConfig() will
//     terminate the app with a descriptive log message.
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 60)

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "spesasmart")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_TTL", "10m")

	viper.SetDefault("JWT_SECRET_KEY", "")
	viper.SetDefault("JWT_ISSUER", "")

	viper.SetDefault("PRICING_OTTIMO_RATIO", "0.8")
	viper.SetDefault("PRICING_ALTO_RATIO", "1.1")
	viper.SetDefault("PRICING_TREND_MONTHS", 12)
	viper.SetDefault("PRICING_TIMEZONE", "Europe/Rome")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:               viper.GetString("SERVER_PORT"),
			CORSAllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			RateLimitPerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			TTL:      viper.GetDuration("CACHE_TTL"),
		},
		JWT: JWTConfig{
			SecretKey: viper.GetString("JWT_SECRET_KEY"),
			Issuer:    viper.GetString("JWT_ISSUER"),
		},
		Pricing: PricingConfig{
			TrendMonths: viper.GetInt("PRICING_TREND_MONTHS"),
			Timezone:    viper.GetString("PRICING_TIMEZONE"),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	validateConfig()
}

// splitList parses a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateConfig ensures required variables are present and well formed,
// and resolves derived values (ratios, timezone). The application is
// terminated with log.Fatalf when anything is wrong.
func validateConfig() {
	if problems := checkConfig(&AppConfig); len(problems) > 0 {
		log.Fatalf("❌ Invalid configuration: %v\n", problems)
	}
}

func checkConfig(cfg *Config) []string {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if cfg.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if cfg.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if cfg.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if cfg.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if cfg.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if cfg.JWT.SecretKey == "" {
		missing = append(missing, "JWT_SECRET_KEY")
	}
	if cfg.Redis.Enabled() && cfg.Redis.TTL <= 0 {
		missing = append(missing, "CACHE_TTL")
	}

	ottimo, err := decimal.NewFromString(viper.GetString("PRICING_OTTIMO_RATIO"))
	if err != nil || !ottimo.IsPositive() {
		missing = append(missing, "PRICING_OTTIMO_RATIO")
	}
	alto, err := decimal.NewFromString(viper.GetString("PRICING_ALTO_RATIO"))
	if err != nil || !alto.IsPositive() || alto.LessThan(ottimo) {
		missing = append(missing, "PRICING_ALTO_RATIO")
	}
	cfg.Pricing.OttimoRatio, cfg.Pricing.AltoRatio = ottimo, alto

	if cfg.Pricing.TrendMonths < 1 || cfg.Pricing.TrendMonths > 60 {
		missing = append(missing, "PRICING_TREND_MONTHS")
	}
	loc, err := time.LoadLocation(cfg.Pricing.Timezone)
	if err != nil {
		missing = append(missing, "PRICING_TIMEZONE")
	}
	cfg.Pricing.Location = loc

	return missing
}
