package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/dmateos82/tunecase/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port         string
	DBPath       string
	StatePath    string
	GatewayURL   string
	LibraryRoots []string
	ScanPageSize int
	LogLevel     string
	LogFormat    string
}

// Load loads configuration from environment variables with defaults.
// A .env file in the working directory is honored but never overrides
// variables already set in the environment.
func Load() *Config {
	_ = godotenv.Load()

	home, _ := os.UserHomeDir()
	defaultLibrary := filepath.Join(home, "Music")

	return &Config{
		Port:         getEnv("PORT", constants.DefaultPort),
		DBPath:       getEnv("DB_PATH", constants.DefaultDBPath),
		StatePath:    getEnv("STATE_PATH", constants.DefaultStatePath),
		GatewayURL:   getEnv("GATEWAY_URL", constants.DefaultGatewayURL),
		LibraryRoots: splitList(getEnv("LIBRARY_ROOTS", defaultLibrary)),
		ScanPageSize: getEnvInt("SCAN_PAGE_SIZE", constants.DefaultScanPageSize),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
	}
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	// Validate Port
	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	// Validate DBPath
	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	// Validate StatePath
	if c.StatePath == "" {
		errors = append(errors, "STATE_PATH cannot be empty")
	}

	// Validate GatewayURL
	if c.GatewayURL == "" {
		errors = append(errors, "GATEWAY_URL cannot be empty")
	} else {
		if _, err := url.Parse(c.GatewayURL); err != nil {
			errors = append(errors, fmt.Sprintf("GATEWAY_URL is not a valid URL: %s", c.GatewayURL))
		}
	}

	// Validate LibraryRoots
	if len(c.LibraryRoots) == 0 {
		errors = append(errors, "LIBRARY_ROOTS cannot be empty")
	}

	// Validate ScanPageSize
	if c.ScanPageSize < 1 {
		errors = append(errors, fmt.Sprintf("SCAN_PAGE_SIZE must be positive, got: %d", c.ScanPageSize))
	}

	// Validate LogLevel
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	// Validate LogFormat
	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

// splitList splits a list-valued variable on the OS path list separator,
// falling back to commas, and drops empty entries.
func splitList(value string) []string {
	sep := string(os.PathListSeparator)
	if !strings.Contains(value, sep) {
		sep = ","
	}
	var out []string
	for _, part := range strings.Split(value, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
