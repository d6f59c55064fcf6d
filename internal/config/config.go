package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort         string
	PostgresDSN      string
	JWTSecret        string
	RedisURL         string
	UrgencyThreshold time.Duration
	DBMaxOpenConns   int
	DBMaxIdleConns   int
	DBConnMaxIdle    time.Duration
	DBConnMaxLife    time.Duration
	RequestTimeout   time.Duration
	MaxListLimit     int
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		PostgresDSN:      getEnv("DATABASE_URL", ""),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		RedisURL:         getEnv("REDIS_URL", ""),
		UrgencyThreshold: getDuration("URGENCY_THRESHOLD", 24*time.Hour),
		DBMaxOpenConns:   getInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:   getInt("DB_MAX_IDLE_CONNS", 10),
		DBConnMaxIdle:    getDuration("DB_CONN_MAX_IDLE", 5*time.Minute),
		DBConnMaxLife:    getDuration("DB_CONN_MAX_LIFE", 30*time.Minute),
		RequestTimeout:   getDuration("REQUEST_TIMEOUT", 10*time.Second),
		MaxListLimit:     getInt("MAX_LIST_LIMIT", 100),
	}

	if cfg.PostgresDSN == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	if cfg.UrgencyThreshold <= 0 {
		log.Fatal("URGENCY_THRESHOLD must be positive")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
