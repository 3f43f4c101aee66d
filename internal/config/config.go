package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

type Config struct {
	Port         string
	DB           DBConfig
	RedisAddr    string
	KafkaBroker  string
	JWTSecret    string
	MaxRetries   int
	RateLimitRPS float64
	RateBurst    int
	OutboxPoll   time.Duration
	AutoMigrate  bool
}

// Load reads .env when present and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port: getEnv("PORT", "3000"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "resource_management"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		KafkaBroker:  os.Getenv("KAFKA_BROKER"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		MaxRetries:   getInt("DB_MAX_RETRIES", 5),
		RateLimitRPS: getFloat("RATE_LIMIT_RPS", 5),
		RateBurst:    getInt("RATE_LIMIT_BURST", 10),
		OutboxPoll:   getDuration("OUTBOX_POLL_INTERVAL", 3*time.Second),
		AutoMigrate:  getBool("DB_AUTO_MIGRATE", true),
	}
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

// Validate reports settings the API cannot start without. An empty secret
// would let any HS256 token signed with an empty key through.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
