package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/subosito/gotenv"
)

const (
	DefaultPort          = "5050"
	DefaultWatsonURL     = "https://sn-watson-emotion.labs.skills.network/v1/watson.runtime.nlp.v1/NlpService/Analyze"
	DefaultWatsonModelID = "emotion_aggregated-workflow_lang_en_stock"
	DefaultTimeout       = 15 * time.Second
	DefaultMaxBodyBytes  = int64(64 << 10)
)

// Config holds the immutable process configuration. It is built once at
// startup and passed by value to the components that need it.
type Config struct {
	Port          string
	WatsonURL     string
	WatsonModelID string
	Timeout       time.Duration
	MaxBodyBytes  int64
}

// Default returns the configuration with every field at its default value
func Default() Config {
	return Config{
		Port:          DefaultPort,
		WatsonURL:     DefaultWatsonURL,
		WatsonModelID: DefaultWatsonModelID,
		Timeout:       DefaultTimeout,
		MaxBodyBytes:  DefaultMaxBodyBytes,
	}
}

// Load reads an optional env file and then the process environment.
// Only PORT is environment driven; variables already set in the
// environment take precedence over the env file.
func Load(envFile string) Config {
	if envFile != "" {
		if err := gotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			slog.Warn("Failed to load env file, using OS environment", "file", envFile, "error", err)
		}
	}

	cfg := Default()
	cfg.Port = getEnvOrDefault("PORT", DefaultPort)
	return cfg
}

// Addr returns the listen address for the HTTP server
func (c Config) Addr() string {
	return ":" + c.Port
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
