package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabasePath  string
	SettingsPath  string
	PollInterval  time.Duration
	PollTimeout   int
	RedisAddr     string
	RedisPassword string
	LogLevel      string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		DatabasePath:  getEnv("DATABASE_PATH", "styx.db"),
		SettingsPath:  getEnv("SETTINGS_PATH", "ConfigFile.json"),
		PollInterval:  time.Duration(getEnvInt("POLL_INTERVAL", 1)) * time.Second,
		PollTimeout:   getEnvInt("POLL_TIMEOUT", 5),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
