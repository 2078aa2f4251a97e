package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds application configuration
type Config struct {
	// Server
	Env  string
	Port string

	// Session tokens
	JWTSecret             string
	JWTExpirationDur      time.Duration
	JWTRememberExpiration time.Duration
	RequireAuth           bool

	// Portfolio
	Currency            string
	InitialCashReserves decimal.Decimal
	SnapshotSchedule    string
	SnapshotHookKey     string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		Currency:         getEnv("CURRENCY", "USD"),
		SnapshotSchedule: os.Getenv("SNAPSHOT_SCHEDULE"),
		SnapshotHookKey:  os.Getenv("SNAPSHOT_HOOK_KEY"),
	}
	if _, set := os.LookupEnv("SNAPSHOT_SCHEDULE"); !set {
		config.SnapshotSchedule = "@hourly"
	}

	config.JWTExpirationDur = getDuration("JWT_EXPIRES_IN", 24*time.Hour)
	config.JWTRememberExpiration = getDuration("JWT_REMEMBER_EXPIRES_IN", 30*24*time.Hour)

	requireAuth, err := strconv.ParseBool(getEnv("REQUIRE_AUTH", "false"))
	if err != nil {
		log.Printf("Warning: invalid REQUIRE_AUTH value, falling back to false\n")
		requireAuth = false
	}
	config.RequireAuth = requireAuth

	cashStr := getEnv("CASH_RESERVES", "50000")
	cash, err := decimal.NewFromString(cashStr)
	if err != nil {
		log.Printf("Warning: invalid CASH_RESERVES value '%s', falling back to 50000\n", cashStr)
		cash = decimal.NewFromInt(50000)
	}
	config.InitialCashReserves = cash

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getDuration parses a duration variable, falling back to def on a bad value.
func getDuration(key string, def time.Duration) time.Duration {
	raw := getEnv(key, def.String())
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, def)
		return def
	}
	return d
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
