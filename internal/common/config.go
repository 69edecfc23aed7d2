package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment" validate:"oneof=development production"`
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Collector   CollectorConfig `toml:"collector"`
	Scoring     ScoringConfig   `toml:"scoring"`
	Signals     SignalsConfig   `toml:"signals"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=0,max=65535"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"`
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level" validate:"oneof=debug info warn error"`
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// CollectorConfig controls the fetch side of every source adapter
type CollectorConfig struct {
	UserAgent      string   `toml:"user_agent"`
	RequestTimeout string   `toml:"request_timeout"` // e.g. "10s" - per-request deadline
	RequestDelay   string   `toml:"request_delay"`   // e.g. "1s" - minimum delay between requests to one source
	MaxPages       int      `toml:"max_pages" validate:"min=1"`
	Sources        []string `toml:"sources"` // enabled source names; empty = all registered
}

// ScoringConfig holds the overall-score weights.
// Weights are a configuration constant so scores stay reproducible
// and comparable across articles scored at different times.
type ScoringConfig struct {
	SentimentWeight  float64 `toml:"sentiment_weight" validate:"min=0,max=1"`
	ImportanceWeight float64 `toml:"importance_weight" validate:"min=0,max=1"`
	ImpactWeight     float64 `toml:"impact_weight" validate:"min=0,max=1"`
	TimelinessWeight float64 `toml:"timeliness_weight" validate:"min=0,max=1"`
}

// SignalsConfig holds the trading-signal decision thresholds
type SignalsConfig struct {
	MinNewsCount    int     `toml:"min_news_count" validate:"min=1"`
	BuySentiment    float64 `toml:"buy_sentiment"`  // avg sentiment at or above -> buy side
	BuyOverall      float64 `toml:"buy_overall"`    // avg overall at or above -> buy side
	SellSentiment   float64 `toml:"sell_sentiment"` // avg sentiment at or below the negation -> sell side
	SellOverall     float64 `toml:"sell_overall"`   // avg overall at or above -> high-impact negative
	ConfidenceFloor float64 `toml:"confidence_floor" validate:"min=0,max=1"`
}

type SchedulerConfig struct {
	TickInterval       string `toml:"tick_interval"`        // how often due times are polled, e.g. "5s"
	MarketInterval     string `toml:"market_interval"`      // Mon-Fri 09:00-15:30
	AfterHoursInterval string `toml:"after_hours_interval"` // Mon-Fri 15:30-24:00
	OffHoursInterval   string `toml:"off_hours_interval"`   // weekend or 00:00-09:00
	DrainTimeout       string `toml:"drain_timeout"`        // max wait for in-flight cycles on shutdown
	Timezone           string `toml:"timezone"`             // market local time, e.g. "Asia/Seoul"
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings are exposed in newsflow.toml; defaults here
// match the production cadence and the documented scoring formula.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8090,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Collector: CollectorConfig{
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			RequestTimeout: "10s",
			RequestDelay:   "1s",
			MaxPages:       3,
		},
		Scoring: ScoringConfig{
			SentimentWeight:  0.4,
			ImportanceWeight: 0.3,
			ImpactWeight:     0.2,
			TimelinessWeight: 0.1,
		},
		Signals: SignalsConfig{
			MinNewsCount:    3,
			BuySentiment:    0.1,
			BuyOverall:      0.3,
			SellSentiment:   0.1,
			SellOverall:     0.3,
			ConfidenceFloor: 0.1,
		},
		Scheduler: SchedulerConfig{
			TickInterval:       "5s",
			MarketInterval:     "1m",
			AfterHoursInterval: "5m",
			OffHoursInterval:   "30m",
			DrainTimeout:       "30s",
			Timezone:           "Asia/Seoul",
		},
	}
}

// LoadFromFiles loads configuration from defaults, then each file in order
// (later files override earlier ones), then environment variables.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration against struct tags and cross-field rules
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Durations must parse; fail at startup, not mid-cycle
	for name, value := range map[string]string{
		"collector.request_timeout":      c.Collector.RequestTimeout,
		"collector.request_delay":        c.Collector.RequestDelay,
		"scheduler.tick_interval":        c.Scheduler.TickInterval,
		"scheduler.market_interval":      c.Scheduler.MarketInterval,
		"scheduler.after_hours_interval": c.Scheduler.AfterHoursInterval,
		"scheduler.off_hours_interval":   c.Scheduler.OffHoursInterval,
		"scheduler.drain_timeout":        c.Scheduler.DrainTimeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid duration for %s: %w", name, err)
		}
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("invalid scheduler.timezone: %w", err)
	}

	weights := c.Scoring.SentimentWeight + c.Scoring.ImportanceWeight +
		c.Scoring.ImpactWeight + c.Scoring.TimelinessWeight
	if weights < 0.99 || weights > 1.01 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.3f", weights)
	}

	return nil
}

// ApplyFlagOverrides applies command-line flag values (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// applyEnvOverrides applies NEWSFLOW_* environment variable overrides
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("NEWSFLOW_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("NEWSFLOW_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("NEWSFLOW_LOG_LEVEL"); v != "" {
		config.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("NEWSFLOW_DATA_PATH"); v != "" {
		config.Storage.Badger.Path = v
	}
}

// Duration helpers; values are validated at load time so parse errors here
// fall back to the documented defaults.

func (c *CollectorConfig) GetRequestTimeout() time.Duration {
	return parseDurationOr(c.RequestTimeout, 10*time.Second)
}

func (c *CollectorConfig) GetRequestDelay() time.Duration {
	return parseDurationOr(c.RequestDelay, time.Second)
}

func (c *SchedulerConfig) GetTickInterval() time.Duration {
	return parseDurationOr(c.TickInterval, 5*time.Second)
}

func (c *SchedulerConfig) GetMarketInterval() time.Duration {
	return parseDurationOr(c.MarketInterval, time.Minute)
}

func (c *SchedulerConfig) GetAfterHoursInterval() time.Duration {
	return parseDurationOr(c.AfterHoursInterval, 5*time.Minute)
}

func (c *SchedulerConfig) GetOffHoursInterval() time.Duration {
	return parseDurationOr(c.OffHoursInterval, 30*time.Minute)
}

func (c *SchedulerConfig) GetDrainTimeout() time.Duration {
	return parseDurationOr(c.DrainTimeout, 30*time.Second)
}

// Location returns the market timezone, falling back to UTC
func (c *SchedulerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
