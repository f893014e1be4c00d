package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	StatePath     string
	Timezone      string
	SummaryCron   string
	DevMode       bool
}

func Load() (*Config, error) {
	// .env file is optional in production
	_ = godotenv.Load()

	return &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		StatePath:     getEnvOrDefault("STATE_PATH", "timebutler.db"),
		Timezone:      getEnvOrDefault("TIMEZONE", "Asia/Singapore"),
		SummaryCron:   getEnvOrDefault("SUMMARY_CRON", "0 7 * * *"),
		DevMode:       os.Getenv("DEV_MODE") == "true",
	}, nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
