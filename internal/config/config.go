package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds server settings read from the environment
type Config struct {
	Port        int
	StorageType string
	RedisURL    string
	LogLevel    string
}

// Load reads configuration from a .env file (if present) and the environment
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:        getEnvInt("PORT", 3000),
		StorageType: getEnv("STORAGE_TYPE", "memory"),
		RedisURL:    os.Getenv("REDIS_URL"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
