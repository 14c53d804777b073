package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds application configuration.
type Config struct {
	Port          string
	IsProduction  bool
	StoreDriver   string
	DatabaseURL   string
	EnableDBCheck bool
	// MigrationsPath is a golang-migrate source URL, e.g. file://migrations.
	MigrationsPath string

	JWTSecret string
	JWTIssuer string

	RedisURL           string
	RateLimit          string // ulule/limiter format, e.g. "100-M"
	CORSAllowedOrigins []string
	AdminPlayerIDs     []string

	HiringRequestTTL     time.Duration
	RevenueInterval      time.Duration
	RevenueWarmup        time.Duration
	RevenueCooldown      time.Duration
	PayrollInterval      time.Duration
	HiringExpiryInterval time.Duration
	RollupInterval       time.Duration
	JobTimeout           time.Duration
	SchedulerEnabled     bool
	SchedulerJobs        []string

	SnowflakeNode  int64
	MetricsEnabled bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "bizcore")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("ADMIN_PLAYER_IDS", "")
	v.SetDefault("HIRING_REQUEST_TTL", "24h")
	v.SetDefault("REVENUE_INTERVAL", "15m")
	v.SetDefault("REVENUE_WARMUP", "1m")
	v.SetDefault("REVENUE_COOLDOWN", "10m")
	v.SetDefault("PAYROLL_INTERVAL", "24h")
	v.SetDefault("HIRING_EXPIRY_INTERVAL", "1h")
	v.SetDefault("ROLLUP_INTERVAL", "1h")
	v.SetDefault("SCHEDULER_JOB_TIMEOUT", "5m")
	v.SetDefault("SCHEDULER_ENABLED", true)
	v.SetDefault("SCHEDULER_JOBS", "")
	v.SetDefault("SNOWFLAKE_NODE", 1)
	v.SetDefault("METRICS_ENABLED", true)
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		StoreDriver:        strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		DatabaseURL:        v.GetString("PGSQL_URL"),
		EnableDBCheck:      v.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath:     v.GetString("MIGRATIONS_PATH"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		RedisURL:           v.GetString("REDIS_URL"),
		RateLimit:          v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		AdminPlayerIDs:     splitList(v.GetString("ADMIN_PLAYER_IDS")),
		SchedulerEnabled:   v.GetBool("SCHEDULER_ENABLED"),
		SchedulerJobs:      splitList(v.GetString("SCHEDULER_JOBS")),
		SnowflakeNode:      v.GetInt64("SNOWFLAKE_NODE"),
		MetricsEnabled:     v.GetBool("METRICS_ENABLED"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		slog.Warn("PORT not set, using default", slog.String("port", cfg.Port))
	}

	durations := []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{"HIRING_REQUEST_TTL", 24 * time.Hour, &cfg.HiringRequestTTL},
		{"REVENUE_INTERVAL", 15 * time.Minute, &cfg.RevenueInterval},
		{"REVENUE_WARMUP", time.Minute, &cfg.RevenueWarmup},
		{"REVENUE_COOLDOWN", 10 * time.Minute, &cfg.RevenueCooldown},
		{"PAYROLL_INTERVAL", 24 * time.Hour, &cfg.PayrollInterval},
		{"HIRING_EXPIRY_INTERVAL", time.Hour, &cfg.HiringExpiryInterval},
		{"ROLLUP_INTERVAL", time.Hour, &cfg.RollupInterval},
		{"SCHEDULER_JOB_TIMEOUT", 5 * time.Minute, &cfg.JobTimeout},
	}
	for _, d := range durations {
		*d.dst = durationOr(v, d.key, d.def)
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("%w: PGSQL_URL is required when STORE_DRIVER=%s", ErrInvalidConfig, StoreDriverPostgres)
		}
	case StoreDriverMemory:
		if cfg.IsProduction {
			return nil, fmt.Errorf("%w: the memory store cannot be used in production", ErrInvalidConfig)
		}
	default:
		return nil, fmt.Errorf("%w: unknown STORE_DRIVER %q", ErrInvalidConfig, cfg.StoreDriver)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("%w: JWT_SECRET must be set in production", ErrInvalidConfig)
		}
		cfg.JWTSecret = defaultJWTSecret
		slog.Warn("JWT_SECRET not set. Using default insecure key.")
	}

	if cfg.SnowflakeNode < 0 || cfg.SnowflakeNode > 1023 {
		return nil, fmt.Errorf("%w: SNOWFLAKE_NODE must be within [0, 1023], got %d", ErrInvalidConfig, cfg.SnowflakeNode)
	}

	return cfg, nil
}

// IsAdmin reports whether playerID is a configured administrator.
func (c *Config) IsAdmin(playerID string) bool {
	for _, id := range c.AdminPlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

func durationOr(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			slog.Warn("Invalid duration, using default",
				slog.String("key", key), slog.String("value", raw), slog.Duration("default", def))
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
