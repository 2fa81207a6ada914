package config

import (
	"os"
	"strconv"
)

// Config holds environment-driven configuration. Every option affects
// plumbing only, never core behavior.
type Config struct {
	Addr         string
	DatabaseURL  string
	EmailHost    string
	EmailPort    int
	EmailUser    string
	EmailPass    string
	FromName     string
	FromEmail    string
	AllowOrigins string
}

// Load reads configuration from environment variables, applying defaults.
func Load() Config {
	return Config{
		Addr:         ":" + getenv("PORT", "5000"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		EmailHost:    os.Getenv("EMAIL_HOST"),
		EmailPort:    getenvInt("EMAIL_PORT", 587),
		EmailUser:    os.Getenv("EMAIL_USER"),
		EmailPass:    os.Getenv("EMAIL_PASS"),
		FromName:     os.Getenv("FROM_NAME"),
		FromEmail:    os.Getenv("FROM_EMAIL"),
		AllowOrigins: getenv("ALLOW_ORIGINS", "*"),
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}
