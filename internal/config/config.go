package config

import (
	"fmt"
	"time"

	"kedai_pos_backend/pkg/utils"

	"github.com/joho/godotenv"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageMemory   = "memory"
)

type Config struct {
	Port     string
	LogLevel string
	LogJSON  bool

	StorageBackend string
	DB             DBConfig
	Redis          RedisConfig

	Auth AuthConfig

	CORSAllowedOrigins []string
	VendorRateLimit    string
	ConfirmationTTL    time.Duration
	Location           *time.Location
	EventsEnabled      bool
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds a lib/pq connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	StateKey string
}

// Addr is host:port.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type AuthConfig struct {
	JWTSecret   string
	JWTTTL      time.Duration
	OperatorPIN string
}

// Load reads .env (when present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		utils.LogDebug("No .env file found, using environment variables")
	}

	cfg := Config{
		Port:     utils.Getenv("PORT", "8080"),
		LogLevel: utils.Getenv("LOG_LEVEL", "info"),
		LogJSON:  !utils.GetenvBool("LOG_PRETTY", true),

		StorageBackend: utils.Getenv("STORAGE_BACKEND", StoragePostgres),
		DB: DBConfig{
			Host:     utils.Getenv("DB_HOST", "localhost"),
			Port:     utils.Getenv("DB_PORT", "5432"),
			User:     utils.Getenv("DB_USER", "kedai_user"),
			Password: utils.Getenv("DB_PASSWORD", "kedai_password"),
			Name:     utils.Getenv("DB_NAME", "kedai_pos_db"),
			SSLMode:  utils.Getenv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     utils.Getenv("REDIS_HOST", "localhost"),
			Port:     utils.Getenv("REDIS_PORT", "6379"),
			Password: utils.Getenv("REDIS_PASSWORD", ""),
			DB:       utils.GetenvInt("REDIS_DB", 0),
			StateKey: utils.Getenv("REDIS_STATE_KEY", "kedai:state"),
		},
		Auth: AuthConfig{
			JWTSecret:   utils.Getenv("JWT_SECRET", ""),
			JWTTTL:      utils.GetenvDuration("JWT_TTL", utils.DefaultAccessTokenTTL),
			OperatorPIN: utils.Getenv("OPERATOR_PIN", ""),
		},
		CORSAllowedOrigins: utils.GetenvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		VendorRateLimit:    utils.Getenv("VENDOR_RATE_LIMIT", "10-M"),
		ConfirmationTTL:    utils.GetenvDuration("CONFIRMATION_TTL", 5*time.Minute),
		EventsEnabled:      utils.GetenvBool("EVENTS_ENABLED", false),
	}

	switch cfg.StorageBackend {
	case StoragePostgres, StorageRedis, StorageMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_BACKEND %q (want postgres, redis or memory)", cfg.StorageBackend)
	}

	if cfg.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.Auth.OperatorPIN != "" && !utils.IsValidPINLength(cfg.Auth.OperatorPIN, 4, 12) {
		return Config{}, fmt.Errorf("OPERATOR_PIN must be 4 to 12 characters")
	}

	loc, err := time.LoadLocation(utils.Getenv("TIMEZONE", "Local"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	return cfg, nil
}
