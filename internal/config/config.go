package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/wakala/dwh/internal/domain"
	"github.com/wakala/dwh/internal/logger"
)

// Config holds all application configuration
type Config struct {
	// Store settings
	Driver     string
	DSN        string
	DBName     string
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBSSLMode  string

	// Ingestion file per entity
	Paths map[domain.Entity]string

	// Aggregation and mart settings
	DeltaDays int
	Standards domain.Standards

	// Output settings
	LogLevel        string
	LogFile         string
	MetricsTextfile string
	APIAddr         string
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Driver:    "postgres",
		DBName:    "dwh",
		DBHost:    "localhost",
		DBPort:    5432,
		DBUser:    "postgres",
		DBSSLMode: "disable",
		Paths: map[domain.Entity]string{
			domain.EntityClients:     "testdata/clients.csv",
			domain.EntityCompanies:   "testdata/companies.csv",
			domain.EntityBank:        "testdata/bank.csv",
			domain.EntityCapital:     "testdata/capital.csv",
			domain.EntityAssets:      "testdata/assets.csv",
			domain.EntityLiabilities: "testdata/liabilities.csv",
		},
		DeltaDays: 3,
		Standards: domain.DefaultStandards(),
		LogLevel:  "info",
		APIAddr:   ":8080",
	}
}

var pathEnv = map[domain.Entity]string{
	domain.EntityClients:     "PATH_CLIENTS",
	domain.EntityCompanies:   "PATH_COMPANIES",
	domain.EntityBank:        "PATH_BANK",
	domain.EntityCapital:     "PATH_CAPITAL",
	domain.EntityAssets:      "PATH_ASSETS",
	domain.EntityLiabilities: "PATH_LIABILITIES",
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	setString(&c.Driver, "DB_DRIVER")
	setString(&c.DSN, "DB_DSN")
	setString(&c.DBName, "DB_NAME")
	setString(&c.DBHost, "DB_HOST")
	setString(&c.DBUser, "DB_USER")
	setString(&c.DBPassword, "DB_PASS")
	setString(&c.DBSSLMode, "DB_SSLMODE")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFile, "LOG_FILE")
	setString(&c.MetricsTextfile, "METRICS_TEXTFILE")
	setString(&c.APIAddr, "API_ADDR")

	if port := os.Getenv("DB_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("DB_PORT: %w", err)
		}
		c.DBPort = p
	}

	if delta := os.Getenv("DELTA_DAYS"); delta != "" {
		d, err := strconv.Atoi(delta)
		if err != nil {
			return fmt.Errorf("DELTA_DAYS: %w", err)
		}
		c.DeltaDays = d
	}

	for entity, env := range pathEnv {
		if p := os.Getenv(env); p != "" {
			c.Paths[entity] = p
		}
	}

	for env, dst := range map[string]*decimal.Decimal{
		"STANDARD_N1_0": &c.Standards.N1_0,
		"STANDARD_N1_1": &c.Standards.N1_1,
		"STANDARD_N1_2": &c.Standards.N1_2,
	} {
		if v := os.Getenv(env); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil {
				return fmt.Errorf("%s: %w", env, err)
			}
			*dst = d
		}
	}
	return nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

// ConnString returns the DSN passed to the driver. An explicit DB_DSN wins.
func (c *Config) ConnString() string {
	if c.DSN != "" {
		return c.DSN
	}
	if c.Driver == "sqlite" {
		return c.DBName
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Driver {
	case "postgres", "pgx", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres, pgx or sqlite, got: %q", c.Driver)
	}
	if c.Driver != "sqlite" && c.DSN == "" && (c.DBPort < 1 || c.DBPort > 65535) {
		return fmt.Errorf("DB_PORT must be between 1 and 65535, got: %d", c.DBPort)
	}
	if c.DeltaDays < 0 {
		return fmt.Errorf("DELTA_DAYS must not be negative, got: %d", c.DeltaDays)
	}
	return nil
}

// LoadEnvironment loads environment variables from .env files
// It tries to load from the current directory and from the directory of the executable
func LoadEnvironment() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found in current directory: %v", err)
	} else {
		logger.Info("Loaded .env file from current directory")
	}

	execPath, err := os.Executable()
	if err != nil {
		logger.Debug("Could not determine executable path: %v", err)
		return
	}
	envPath := filepath.Join(filepath.Dir(execPath), ".env")
	if err := godotenv.Load(envPath); err != nil {
		logger.Debug("No .env file found in app directory (%s): %v", filepath.Dir(execPath), err)
	} else {
		logger.Info("Loaded .env file from app directory: %s", filepath.Dir(execPath))
	}
}
