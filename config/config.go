// Package config loads tasklist configuration from environment variables.
// Required variables, defaults and parse failures are all checked in one pass
// and reported together, so a misconfigured deployment fails with the full list.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	minPoolSize     = 2
	maxPoolSize     = 100
	minSecretLength = 32
)

// DatabaseConfig holds the settings for the PostgreSQL connection pool.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	PoolSize int
}

// DSN returns a postgres:// URL usable by both pgx and lib/pq.
func (c *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	JWTSecret string        // Secret key for signing tokens
	TokenTTL  time.Duration // Lifetime of an issued token
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port           string
	MigrateOnStart bool
}

// LogConfig selects the slog level and output format.
type LogConfig struct {
	Level  string
	Format string
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	Database *DatabaseConfig
	Auth     *AuthConfig
	Server   *ServerConfig
	Log      *LogConfig
}

func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getOptionalEnvInt(key string, defaultValue int, errors *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

func getOptionalEnvBool(key string, defaultValue bool, errors *[]string) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueBool, err := strconv.ParseBool(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected boolean, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueBool
}

// `time.ParseDuration` expects a string like "15m", "1h30s".
func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// clampPoolSize keeps the pool between minPoolSize and maxPoolSize.
func clampPoolSize(size int) int {
	if size < minPoolSize {
		return minPoolSize
	}
	if size > maxPoolSize {
		return maxPoolSize
	}
	return size
}

// LoadConfig reads and validates every setting. All problems are returned in
// a single error.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	database := &DatabaseConfig{
		User:     getRequiredEnv("DB_USER", &errors),
		Password: getRequiredEnv("DB_PASSWORD", &errors),
		DBName:   getRequiredEnv("DB_NAME", &errors),
		Host:     getOptionalEnv("DB_HOST", "localhost"),
		Port:     getOptionalEnvInt("DB_PORT", 5432, &errors),
		SSLMode:  getOptionalEnv("DB_SSLMODE", "disable"),
		PoolSize: clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, &errors)),
	}

	jwtSecret := getRequiredEnv("JWT_SECRET", &errors)
	if jwtSecret != "" && len(jwtSecret) < minSecretLength {
		errors = append(errors, fmt.Sprintf("JWT_SECRET must be at least %d bytes long", minSecretLength))
	}
	tokenTTL := getOptionalEnvDuration("JWT_TOKEN_TTL", 24*time.Hour, &errors)
	if tokenTTL <= 0 {
		errors = append(errors, fmt.Sprintf("JWT_TOKEN_TTL must be positive, got %s", tokenTTL))
	}
	authConfig := &AuthConfig{
		JWTSecret: jwtSecret,
		TokenTTL:  tokenTTL,
	}

	serverConfig := &ServerConfig{
		Port:           getOptionalEnv("PORT", "4000"),
		MigrateOnStart: getOptionalEnvBool("MIGRATE_ON_START", true, &errors),
	}

	logConfig := &LogConfig{
		Level:  strings.ToLower(getOptionalEnv("LOG_LEVEL", "info")),
		Format: strings.ToLower(getOptionalEnv("LOG_FORMAT", "text")),
	}
	switch logConfig.Format {
	case "text", "json":
	default:
		errors = append(errors, fmt.Sprintf("invalid value for LOG_FORMAT: expected text or json, got '%s'", logConfig.Format))
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return &AppConfig{
		Database: database,
		Auth:     authConfig,
		Server:   serverConfig,
		Log:      logConfig,
	}, nil
}
