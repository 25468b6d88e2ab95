package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr    string
	APIBaseURL    string
	APITimeout    time.Duration
	DBPath        string
	SessionSecret string
	SessionTTL    time.Duration
	DemoMode      bool
	DemoUserID    string
	LogLevel      string
	LogFormat     string
	LogFile       string
}

// Load reads configuration from the environment, after sourcing a
// local .env file if one exists. Missing keys fall back to defaults
// suitable for local development against a backend on :8000.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":3000"),
		APIBaseURL:    getEnv("API_BASE_URL", "http://localhost:8000"),
		APITimeout:    getDuration("API_TIMEOUT", 30*time.Second),
		DBPath:        getEnv("DB_PATH", "./data/greenscore.db"),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionTTL:    getDuration("SESSION_TTL", 24*time.Hour),
		DemoMode:      getEnv("DEMO_MODE", "") == "1",
		DemoUserID:    getEnv("DEMO_USER_ID", "demo-user"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		LogFile:       getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	// Bare numbers are read as seconds.
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultVal
}
