package config

import (
	"fmt"
	"os"
	"strconv"
)

// Authorization modes for the API surface
const (
	AuthModeSignature = "signature"
	AuthModeAllowAll  = "allow-all"
)

type Config struct {
	// Postgres connection string; empty means run on the in-memory host
	DatabaseURL string

	// Network passphrase used when deriving token contract addresses
	NetworkPassphrase string

	// Port for the HTTP API
	APIPort int

	// Log level ( debug, info, warn, error )
	LogLevel string

	// Authorization oracle mode ( signature or allow-all )
	AuthMode string
}

// Load returns the factory configuration from environment variables
func Load() *Config {
	return &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Mainnet passphrase: Public Global Stellar Network ; September 2015
		NetworkPassphrase: getEnv("NETWORK_PASSPHRASE", "Test SDF Network ; September 2015"),

		APIPort: getEnvAsInt("API_PORT", 8080),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		// allow-all skips signature checks; for local development only
		AuthMode: getEnv("AUTH_MODE", AuthModeSignature),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.NetworkPassphrase == "" {
		return fmt.Errorf("NetworkPassphrase is required")
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("APIPort must be a valid port, got %d", c.APIPort)
	}
	if c.AuthMode != AuthModeSignature && c.AuthMode != AuthModeAllowAll {
		return fmt.Errorf("AuthMode must be %q or %q, got %q", AuthModeSignature, AuthModeAllowAll, c.AuthMode)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}
