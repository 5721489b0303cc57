package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration. Every field is
// populated after loading; downstream packages never see optional values.
type Config struct {
	App      AppConfig      `json:"app" yaml:"app"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Playbook PlaybookConfig `json:"playbook" yaml:"playbook"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Insights InsightsConfig `json:"insights" yaml:"insights"`
	Database DatabaseConfig `json:"database" yaml:"database"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
	Schedule ScheduleConfig `json:"schedule" yaml:"schedule"`
}

// AppConfig contains basic application configuration
type AppConfig struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	Environment string `json:"environment" yaml:"environment"` // "development", "production"
	Debug       bool   `json:"debug" yaml:"debug"`
}

// StrategyConfig parameterizes the signal engine and portfolio simulator
type StrategyConfig struct {
	// Moving averages
	MAShort int `json:"ma_short" yaml:"ma_short"` // 3
	MALong  int `json:"ma_long" yaml:"ma_long"`   // 7

	// Weighting
	MinSignals    int     `json:"min_signals" yaml:"min_signals"`       // half-weight gate, 1..3
	ShortAlts     bool    `json:"short_alts" yaml:"short_alts"`         // allow -1 raw weight on 3/3 bear
	BaselineHedge float64 `json:"baseline_hedge" yaml:"baseline_hedge"` // short-baseline fraction in bear state

	// Stops
	StopLookback int     `json:"stop_lookback" yaml:"stop_lookback"` // 14
	ATRMult      float64 `json:"atr_mult" yaml:"atr_mult"`           // 3.0
	VolMult      float64 `json:"vol_mult" yaml:"vol_mult"`           // 2.5
}

// PlaybookConfig parameterizes trade plan generation
type PlaybookConfig struct {
	PortfolioValue float64 `json:"portfolio_value" yaml:"portfolio_value"`
	TopN           int     `json:"top_n" yaml:"top_n"` // plans to emit
}

// DataConfig describes the OHLC source and on-disk layout
type DataConfig struct {
	// Layout
	OutDir     string `json:"out_dir" yaml:"out_dir"`
	SignalsDir string `json:"signals_dir" yaml:"signals_dir"`

	// Baseline asset
	BaselineName   string `json:"baseline_name" yaml:"baseline_name"`
	BaselineCoinID string `json:"baseline_coin_id" yaml:"baseline_coin_id"`

	// Source
	APIKey       string        `json:"api_key" yaml:"api_key"`
	TopN         int           `json:"top_n" yaml:"top_n"`
	VsCurrency   string        `json:"vs_currency" yaml:"vs_currency"`
	Days         int           `json:"days" yaml:"days"`
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`
	Resume       bool          `json:"resume" yaml:"resume"`
}

// InsightsConfig configures the optional text-insight provider
type InsightsConfig struct {
	Enabled bool          `json:"enabled" yaml:"enabled"`
	APIKey  string        `json:"api_key" yaml:"api_key"`
	Model   string        `json:"model" yaml:"model"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// DatabaseConfig configures the run recorder. An empty path selects the
// noop recorder.
type DatabaseConfig struct {
	SQLitePath string `json:"sqlite_path" yaml:"sqlite_path"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	// Output
	Level     string `json:"level" yaml:"level"`         // "debug", "info", "warn", "error"
	Format    string `json:"format" yaml:"format"`       // "json", "text"
	Output    string `json:"output" yaml:"output"`       // "stdout", "file", "both"
	Directory string `json:"directory" yaml:"directory"` // Log file directory

	// File rotation
	MaxSize    int  `json:"max_size" yaml:"max_size"`       // Max MB per file
	MaxBackups int  `json:"max_backups" yaml:"max_backups"` // Max number of old files
	MaxAge     int  `json:"max_age" yaml:"max_age"`         // Max days to retain
	Compress   bool `json:"compress" yaml:"compress"`       // Compress old files
}

// ScheduleConfig configures daemon mode
type ScheduleConfig struct {
	CronSpec      string        `json:"cron_spec" yaml:"cron_spec"`
	CheckInterval time.Duration `json:"check_interval" yaml:"check_interval"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "cryptomomentum",
			Version:     "1.0.0",
			Environment: "development",
			Debug:       false,
		},
		Strategy: StrategyConfig{
			MAShort:       3,
			MALong:        7,
			MinSignals:    2,
			ShortAlts:     false,
			BaselineHedge: 0.3,
			StopLookback:  14,
			ATRMult:       3.0,
			VolMult:       2.5,
		},
		Playbook: PlaybookConfig{
			PortfolioValue: 100000.0,
			TopN:           10,
		},
		Data: DataConfig{
			OutDir:         "./data",
			SignalsDir:     "./out",
			BaselineName:   "BTC",
			BaselineCoinID: "bitcoin",
			TopN:           100,
			VsCurrency:     "usd",
			Days:           365,
			RequestDelay:   250 * time.Millisecond,
			Resume:         true,
		},
		Insights: InsightsConfig{
			Enabled: true,
			Model:   "gpt-4o-mini",
			Timeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			SQLitePath: "",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stdout",
			Directory:  "./logs",
			MaxSize:    100, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		},
		Schedule: ScheduleConfig{
			CronSpec:      "5 0 * * *", // daily, shortly after UTC midnight
			CheckInterval: time.Hour,
		},
	}
}

// LoadConfig loads configuration from a JSON or YAML file, selected by
// extension, over the defaults and applies environment overrides. If the
// file does not exist a default config is written there and used.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveConfig(config, configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		config.applyEnv()
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// SaveConfig saves configuration to file as pretty-printed JSON
func SaveConfig(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnv layers environment overrides over the loaded values. Secrets in
// particular are expected to arrive this way rather than in the file.
func (c *Config) applyEnv() {
	if v := os.Getenv("CG_PRO_API_KEY"); v != "" {
		c.Data.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Insights.APIKey = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	c.Logging.Level = GetEnv("LOG_LEVEL", c.Logging.Level)
	c.Playbook.PortfolioValue = GetEnvFloat("PORTFOLIO_VALUE", c.Playbook.PortfolioValue)
	c.Strategy.ShortAlts = GetEnvBool("SHORT_ALTS", c.Strategy.ShortAlts)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}

	// Validate strategy config
	if c.Strategy.MAShort <= 0 || c.Strategy.MALong <= 0 {
		return fmt.Errorf("moving average windows must be positive")
	}
	if c.Strategy.MAShort >= c.Strategy.MALong {
		return fmt.Errorf("ma_short (%d) must be less than ma_long (%d)", c.Strategy.MAShort, c.Strategy.MALong)
	}
	if c.Strategy.MinSignals < 1 || c.Strategy.MinSignals > 3 {
		return fmt.Errorf("min_signals must be between 1 and 3")
	}
	if c.Strategy.BaselineHedge < 0 || c.Strategy.BaselineHedge > 1 {
		return fmt.Errorf("baseline_hedge must be between 0 and 1")
	}
	if c.Strategy.StopLookback <= 0 {
		return fmt.Errorf("stop_lookback must be positive")
	}
	if c.Strategy.ATRMult <= 0 {
		return fmt.Errorf("atr_mult must be positive")
	}
	if c.Strategy.VolMult <= 0 {
		return fmt.Errorf("vol_mult must be positive")
	}

	// Validate playbook config
	if c.Playbook.PortfolioValue <= 0 {
		return fmt.Errorf("portfolio_value must be positive")
	}
	if c.Playbook.TopN <= 0 {
		return fmt.Errorf("playbook top_n must be positive")
	}

	// Validate data config
	if c.Data.BaselineName == "" {
		return fmt.Errorf("baseline_name is required")
	}
	if c.Data.TopN <= 0 {
		return fmt.Errorf("data top_n must be positive")
	}
	if c.Data.VsCurrency == "" {
		return fmt.Errorf("vs_currency is required")
	}

	// Validate logging config
	validLevels := []string{"debug", "info", "warn", "error"}
	levelValid := false
	for _, level := range validLevels {
		if c.Logging.Level == level {
			levelValid = true
			break
		}
	}
	if !levelValid {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	validFormats := []string{"json", "text"}
	formatValid := false
	for _, format := range validFormats {
		if c.Logging.Format == format {
			formatValid = true
			break
		}
	}
	if !formatValid {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}

// GetEnv returns environment variable with default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvBool returns boolean environment variable with default value
func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

// GetEnvFloat returns float environment variable with default value
func GetEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetEnvInt returns integer environment variable with default value
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
