package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv       string
	Port          string
	JWTSecret     string
	CompanyDomain string
	FrontendDir   string
	Database      DatabaseConfig
	Storage       StorageConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
	Embedded bool
}

// StorageConfig selects and configures the attachment store
type StorageConfig struct {
	Driver      string // disk (default) or s3
	Dir         string // disk: directory for uploaded files
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		NodeEnv:       getEnv("NODE_ENV", "development"),
		Port:          getEnv("PORT", "3001"),
		JWTSecret:     jwtSecret,
		CompanyDomain: getEnv("COMPANY_DOMAIN", "dematic.com"),
		FrontendDir:   os.Getenv("FRONTEND_DIR"),
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "prodreg"),
			Alter:    getEnv("DB_ALTER", "false") == "true",
			Embedded: getEnv("DB_EMBEDDED", "false") == "true",
		},
		Storage: StorageConfig{
			Driver:      getEnv("STORAGE_DRIVER", "disk"),
			Dir:         getEnv("STORAGE_DIR", "./uploads"),
			S3Bucket:    os.Getenv("STORAGE_S3_BUCKET"),
			S3Region:    getEnv("STORAGE_S3_REGION", "us-east-1"),
			S3Endpoint:  os.Getenv("STORAGE_S3_ENDPOINT"),
			S3PathStyle: getEnv("STORAGE_S3_PATH_STYLE", "false") == "true",
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
