package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// QuickBooks Time upstream
	QBTimeAccessToken string
	QBTimeBaseURL     string

	// Timezone used to anchor natural-language date resolution.
	ReportTimezone string

	// Outbound rate-limit discipline against the upstream API.
	RequestsPerSecond int
	RequestsPerMinute int
	MaxRetries        int
	RetryBaseDelay    time.Duration
	RetryMaxDelay     time.Duration

	// Inbound rate limit applied to the tool surface.
	ToolRateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("QB_TIME_ACCESS_TOKEN", "")
	viper.SetDefault("QB_TIME_BASE_URL", "https://rest.tsheets.com/api/v1")
	viper.SetDefault("REPORT_TIMEZONE", "UTC")
	viper.SetDefault("REQUESTS_PER_SECOND", 3)
	viper.SetDefault("REQUESTS_PER_MINUTE", 300)
	viper.SetDefault("MAX_RETRIES", 4)
	viper.SetDefault("RETRY_BASE_DELAY", "500ms")
	viper.SetDefault("RETRY_MAX_DELAY", "30s")
	viper.SetDefault("TOOL_RATE_LIMIT", "60-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.QBTimeAccessToken = viper.GetString("QB_TIME_ACCESS_TOKEN")
	if cfg.QBTimeAccessToken == "" {
		return nil, fmt.Errorf("QB_TIME_ACCESS_TOKEN environment variable is required")
	}

	cfg.QBTimeBaseURL = viper.GetString("QB_TIME_BASE_URL")
	cfg.ReportTimezone = viper.GetString("REPORT_TIMEZONE")
	if _, err := time.LoadLocation(cfg.ReportTimezone); err != nil {
		log.Printf("Warning: Invalid REPORT_TIMEZONE (%q). Defaulting to UTC.\n", cfg.ReportTimezone)
		cfg.ReportTimezone = "UTC"
	}

	cfg.RequestsPerSecond = viper.GetInt("REQUESTS_PER_SECOND")
	cfg.RequestsPerMinute = viper.GetInt("REQUESTS_PER_MINUTE")
	cfg.MaxRetries = viper.GetInt("MAX_RETRIES")

	baseDelayStr := viper.GetString("RETRY_BASE_DELAY")
	baseDelay, err := time.ParseDuration(baseDelayStr)
	if err != nil {
		baseDelay = 500 * time.Millisecond
		log.Printf("Warning: Invalid value for RETRY_BASE_DELAY (%q). Defaulting to %s.\n", baseDelayStr, baseDelay)
	}
	cfg.RetryBaseDelay = baseDelay

	maxDelayStr := viper.GetString("RETRY_MAX_DELAY")
	maxDelay, err := time.ParseDuration(maxDelayStr)
	if err != nil {
		maxDelay = 30 * time.Second
		log.Printf("Warning: Invalid value for RETRY_MAX_DELAY (%q). Defaulting to %s.\n", maxDelayStr, maxDelay)
	}
	cfg.RetryMaxDelay = maxDelay

	cfg.ToolRateLimit = viper.GetString("TOOL_RATE_LIMIT")

	return cfg, nil
}

// Location returns the configured report timezone, defaulting to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
