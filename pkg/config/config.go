package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	CacheBackend  string `mapstructure:"CACHE_BACKEND"` // "redis" or "memory"
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// PostgresURL is optional. Lookup auditing and page scans are disabled without it.
	PostgresURL string `mapstructure:"POSTGRES_URL"`

	SafeBrowsingAPIKey        string        `mapstructure:"SAFE_BROWSING_API_KEY"`
	SafeBrowsingEndpoint      string        `mapstructure:"SAFE_BROWSING_ENDPOINT"`
	SafeBrowsingClientID      string        `mapstructure:"SAFE_BROWSING_CLIENT_ID"`
	SafeBrowsingClientVersion string        `mapstructure:"SAFE_BROWSING_CLIENT_VERSION"`
	ThreatAPITimeout          time.Duration `mapstructure:"THREAT_API_TIMEOUT"`
	DedupeInFlight            bool          `mapstructure:"DEDUPE_INFLIGHT"`

	HoverDebounce     time.Duration `mapstructure:"HOVER_DEBOUNCE"`
	TooltipOffset     int           `mapstructure:"TOOLTIP_OFFSET"`
	ClearConfirmation time.Duration `mapstructure:"CLEAR_CONFIRMATION"`

	ScanWorkers     int           `mapstructure:"SCAN_WORKERS"`
	PageLoadTimeout time.Duration `mapstructure:"PAGE_LOAD_TIMEOUT"`
}

var defaults = map[string]any{
	"SERVER_PORT":                  "8080",
	"LOG_LEVEL":                    "info",
	"CACHE_BACKEND":                "redis",
	"REDIS_ADDR":                   "localhost:6379",
	"REDIS_PASSWORD":               "",
	"REDIS_DB":                     0,
	"POSTGRES_URL":                 "",
	"SAFE_BROWSING_API_KEY":        "",
	"SAFE_BROWSING_ENDPOINT":       "https://safebrowsing.googleapis.com/v4/threatMatches:find",
	"SAFE_BROWSING_CLIENT_ID":      "chrome-url-safety-check",
	"SAFE_BROWSING_CLIENT_VERSION": "1.0",
	"THREAT_API_TIMEOUT":           "10s",
	"DEDUPE_INFLIGHT":              false,
	"HOVER_DEBOUNCE":               "400ms",
	"TOOLTIP_OFFSET":               10,
	"CLEAR_CONFIRMATION":           "2s",
	"SCAN_WORKERS":                 2,
	"PAGE_LOAD_TIMEOUT":            "30s",
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit env file path. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Attempt to read the env file, but don't fail if it's not present
	// This allows configuration purely through environment variables in production
	_ = v.ReadInConfig()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
