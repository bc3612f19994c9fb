package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string
	DBMaxConns     int32

	// RedisURL enables the account cache and the shared rate limit store when set.
	RedisURL        string
	AccountCacheTTL time.Duration

	ReportTimeout        time.Duration
	PostEntryMaxAttempts int

	RateLimit          string
	CORSAllowedOrigins []string
	DefaultActor       string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("ACCOUNT_CACHE_TTL", "5m")
	v.SetDefault("REPORT_TIMEOUT", "30s")
	v.SetDefault("POST_ENTRY_MAX_ATTEMPTS", 3)
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("DEFAULT_ACTOR", "system")
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.DatabaseURL = v.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = v.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = v.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = v.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = v.GetString("MIGRATIONS_PATH")
	cfg.RedisURL = v.GetString("REDIS_URL")
	cfg.RateLimit = v.GetString("RATE_LIMIT")

	cfg.DBMaxConns = int32(v.GetInt("DB_MAX_CONNS"))
	if cfg.DBMaxConns <= 0 {
		cfg.DBMaxConns = 10
		log.Printf("Warning: Invalid value for DB_MAX_CONNS. Defaulting to %d.\n", cfg.DBMaxConns)
	}

	cfg.AccountCacheTTL = durationOrDefault(v, "ACCOUNT_CACHE_TTL", 5*time.Minute)
	cfg.ReportTimeout = durationOrDefault(v, "REPORT_TIMEOUT", 30*time.Second)

	cfg.PostEntryMaxAttempts = v.GetInt("POST_ENTRY_MAX_ATTEMPTS")
	if cfg.PostEntryMaxAttempts < 1 {
		cfg.PostEntryMaxAttempts = 1
		log.Println("Warning: POST_ENTRY_MAX_ATTEMPTS must be at least 1. Defaulting to 1.")
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	cfg.DefaultActor = v.GetString("DEFAULT_ACTOR")
	if cfg.DefaultActor == "" {
		cfg.DefaultActor = "system"
	}

	return cfg
}

func durationOrDefault(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}
