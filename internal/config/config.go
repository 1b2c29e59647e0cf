// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the catalog service.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Storage  StorageConfig
	CORS     CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string
	Port         int
	GinMode      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig selects and configures the backing database.
type DatabaseConfig struct {
	Type       string // "sqlite" or "postgres"
	SQLitePath string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	TokenSecret string
}

// StorageConfig configures the poster object store. Posters are disabled
// when Endpoint is empty.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// CORSConfig lists allowed origins for browser clients.
type CORSConfig struct {
	AllowOrigins []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			GinMode:      getEnv("GIN_MODE", "debug"),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT", 15)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT", 15)) * time.Second,
		},
		Database: DatabaseConfig{
			Type:             getEnv("DATABASE_TYPE", "sqlite"),
			SQLitePath:       getEnv("SQLITE_PATH", "./data/cinelog.db"),
			PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
			PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
			PostgresUser:     os.Getenv("POSTGRES_USER"),
			PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
			PostgresDB:       getEnv("POSTGRES_DB", "cinelog"),
		},
		Auth: AuthConfig{
			TokenSecret: getEnv("TOKEN_SECRET", "insecure-dev-secret-change-me"),
		},
		Storage: StorageConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getEnv("MINIO_BUCKET", "cinelog-posters"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		CORS: CORSConfig{
			AllowOrigins: []string{getEnv("CORS_ALLOW_ORIGIN", "*")},
		},
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
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
