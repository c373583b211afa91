package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Env      string
	LogLevel string

	// Booking API
	APIBaseURL        string
	APIToken          string
	APITimeoutSeconds int
	UserAgent         string

	// Session persistence
	SessionFile string

	// Snapshot cache
	RedisURL         string
	SnapshotCacheTTL time.Duration

	// Dev API server
	Port           string
	DatabaseURL    string
	AllowedOrigins []string
	SeedFile       string
}

func Load() *Config {
	// Load .env file in development
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		// Environment
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		// Booking API
		APIBaseURL:        getEnv("BOOKING_API_URL", "http://localhost:8080"),
		APIToken:          getEnv("BOOKING_API_TOKEN", ""),
		APITimeoutSeconds: parseInt(getEnv("BOOKING_API_TIMEOUT_SECONDS", "10"), 10),
		UserAgent:         getEnv("USER_AGENT", "excursio-client/1.0"),

		// Session persistence
		SessionFile: getEnv("SESSION_FILE", defaultSessionFile()),

		// Snapshot cache
		RedisURL:         getEnv("REDIS_URL", ""),
		SnapshotCacheTTL: parseDuration(getEnv("SNAPSHOT_CACHE_TTL", "30s"), 30*time.Second),

		// Dev API server
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		AllowedOrigins: parseStringSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		SeedFile:       getEnv("SEED_FILE", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".excursio-session.json"
	}
	return filepath.Join(home, ".config", "excursio", "session.json")
}

func parseDuration(s string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultValue
	}
	return d
}

func parseInt(s string, defaultValue int) int {
	value, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseStringSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	// Simple split by comma
	var result []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if start < i {
				result = append(result, s[start:i])
			}
			start = i + 1
		}
	}
	return result
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// APITimeout returns the Booking API request timeout as a duration
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutSeconds) * time.Second
}
