// Package config provides configuration for the chat orchestration core.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the orchestration configuration. The knobs under
// "Orchestration policy" are what used to be separate fast/optimized code
// paths in earlier revisions of the product; there is now one core
// configured here.
type Config struct {
	// Server settings
	HTTPPort int

	// Provider-config persistence. Empty disables persistence and the
	// registry runs on in-memory defaults.
	DatabaseURL string

	// Optional webhook that receives message-updated events.
	NotifyWebhookURL string

	// Orchestration policy
	CallTimeout     time.Duration // default per-provider call deadline
	RetryAttempts   int           // extra attempts per provider before failover
	EnhanceDelay    time.Duration // settle delay before the background upgrade
	CacheEnabled    bool
	CacheMaxEntries int
	CacheTTL        time.Duration
	QuickReplies    bool

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:         getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:      getEnv("DATABASE_URL", "file:chatcore.db?cache=shared&mode=rwc"),
		NotifyWebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		CallTimeout:      time.Duration(getEnvInt("CALL_TIMEOUT_MS", 15000)) * time.Millisecond,
		RetryAttempts:    getEnvInt("RETRY_ATTEMPTS", 1),
		EnhanceDelay:     time.Duration(getEnvInt("ENHANCE_DELAY_MS", 200)) * time.Millisecond,
		CacheEnabled:     getEnvBool("CACHE_ENABLED", true),
		CacheMaxEntries:  getEnvInt("CACHE_MAX_ENTRIES", 100),
		CacheTTL:         time.Duration(getEnvInt("CACHE_TTL_MS", 3600000)) * time.Millisecond,
		QuickReplies:     getEnvBool("QUICK_REPLIES_ENABLED", true),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}
