package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port       int
	LogLevel   string
	LogFormat  string
	APIKey     string // API key for the administrative surface
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	DBDisabled bool // run without persistence (in-memory only)

	CatalogPath   string // JSON catalog source
	OverridesPath string // JSON property-override source, optional

	DiscordToken   string // optional activation announcer; empty disables it
	DiscordChannel string

	TrustedProxies []string // IPs whose X-Forwarded-For is honored
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		APIKey:         getEnv("API_KEY", ""),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBName:         getEnv("DB_NAME", "vanitycore"),
		CatalogPath:    getEnv("CATALOG_PATH", "configs/cosmetics.json"),
		OverridesPath:  getEnv("OVERRIDES_PATH", "configs/overrides.json"),
		DiscordToken:   getEnv("DISCORD_TOKEN", ""),
		DiscordChannel: getEnv("DISCORD_CHANNEL", ""),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	disabledStr := getEnv("DB_DISABLED", "false")
	disabled, err := strconv.ParseBool(disabledStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_DISABLED value: %w", err)
	}
	cfg.DBDisabled = disabled

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		for _, p := range strings.Split(proxies, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, p)
			}
		}
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
