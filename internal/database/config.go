package database

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"apexfund/internal/logger"
)

// Supported DB_DRIVER values.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds database configuration
type Config struct {
	Driver string

	// SQLite
	Path string

	// PostgreSQL
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// NewConfig creates a new database configuration
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Get().Debug("no .env file, using process environment")
	}

	cfg := &Config{
		Driver:   getEnv("DB_DRIVER", DriverMemory),
		Path:     getEnv("DB_PATH", "apexfund.db"),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "apexfund"),
		Password: getEnv("DB_PASSWORD", "apexfund"),
		DBName:   getEnv("DB_NAME", "apexfund"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	switch cfg.Driver {
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (use memory, sqlite or postgres)", cfg.Driver)
	}
	return cfg, nil
}

// Persistent reports whether the config selects a real database.
func (c *Config) Persistent() bool {
	return c.Driver != DriverMemory
}

// DSN returns the PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MigrateURL returns the URL golang-migrate uses for PostgreSQL.
func (c *Config) MigrateURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
