// Package config loads application configuration from environment
// variables and an optional YAML file. Environment values take
// precedence over file values; struct-tag defaults cover the rest.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// envPrefix namespaces all environment variables (COSTPULSE_SERVER_PORT, ...).
const envPrefix = "COSTPULSE"

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Sheets   SheetsConfig   `yaml:"sheets" envconfig:"SHEETS"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"16777216"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"50"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"25"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"json"`
	// Output selects "stdout", "file" or "both".
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/costpulse.log"`
}

// AnalysisConfig carries the tunable analysis defaults. The two
// heuristic defaults encode observed business assumptions, not
// verified rules; they are configuration so a tenant can flip them
// without a release.
type AnalysisConfig struct {
	DefaultHeadcount int `yaml:"default_headcount" envconfig:"DEFAULT_HEADCOUNT" default:"5"`

	// AmbiguousAmountDefault: side a bare amount lands on when a row
	// carries no revenue/expense signal. "revenue" or "expense".
	AmbiguousAmountDefault string `yaml:"ambiguous_amount_default" envconfig:"AMBIGUOUS_AMOUNT_DEFAULT" default:"revenue"`

	// UnmatchedPurchaseDefault: category for purchases no keyword
	// list claims. "food", "supply" or "other".
	UnmatchedPurchaseDefault string `yaml:"unmatched_purchase_default" envconfig:"UNMATCHED_PURCHASE_DEFAULT" default:"food"`

	MaxBatchConcurrency int `yaml:"max_batch_concurrency" envconfig:"MAX_BATCH_CONCURRENCY" default:"4"`
}

// SheetsConfig configures the Google Sheets reader collaborator.
type SheetsConfig struct {
	APIKey    string `yaml:"api_key" envconfig:"API_KEY"`
	ReadRange string `yaml:"read_range" envconfig:"READ_RANGE" default:"A1:Z10000"`
}

// Load builds the configuration from defaults, the optional YAML
// file and the environment, in ascending precedence.
func Load(path string) (*Config, error) {
	var cfg Config

	// Defaults and environment values first.
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			fileCfg, err := loadFromFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg.mergeFile(*fileCfg)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// mergeFile overlays non-zero file values onto the config, except
// where the matching environment variable was set explicitly:
// env > file > default.
func (c *Config) mergeFile(f Config) {
	set := func(envKey string) bool {
		_, ok := os.LookupEnv(envPrefix + "_" + envKey)
		return ok
	}

	if f.Server.Port != 0 && !set("SERVER_PORT") {
		c.Server.Port = f.Server.Port
	}
	if f.Server.ReadTimeout != 0 && !set("SERVER_READ_TIMEOUT") {
		c.Server.ReadTimeout = f.Server.ReadTimeout
	}
	if f.Server.WriteTimeout != 0 && !set("SERVER_WRITE_TIMEOUT") {
		c.Server.WriteTimeout = f.Server.WriteTimeout
	}
	if f.Server.IdleTimeout != 0 && !set("SERVER_IDLE_TIMEOUT") {
		c.Server.IdleTimeout = f.Server.IdleTimeout
	}
	if f.Server.ShutdownTimeout != 0 && !set("SERVER_SHUTDOWN_TIMEOUT") {
		c.Server.ShutdownTimeout = f.Server.ShutdownTimeout
	}
	if f.Server.MaxUploadBytes != 0 && !set("SERVER_MAX_UPLOAD_BYTES") {
		c.Server.MaxUploadBytes = f.Server.MaxUploadBytes
	}
	if f.Server.RateLimitRPS != 0 && !set("SERVER_RATE_LIMIT_RPS") {
		c.Server.RateLimitRPS = f.Server.RateLimitRPS
	}
	if f.Server.RateLimitBurst != 0 && !set("SERVER_RATE_LIMIT_BURST") {
		c.Server.RateLimitBurst = f.Server.RateLimitBurst
	}
	if f.Logging.Level != "" && !set("LOGGING_LEVEL") {
		c.Logging.Level = f.Logging.Level
	}
	if f.Logging.Format != "" && !set("LOGGING_FORMAT") {
		c.Logging.Format = f.Logging.Format
	}
	if f.Logging.Output != "" && !set("LOGGING_OUTPUT") {
		c.Logging.Output = f.Logging.Output
	}
	if f.Logging.FilePath != "" && !set("LOGGING_FILE_PATH") {
		c.Logging.FilePath = f.Logging.FilePath
	}
	if f.Analysis.DefaultHeadcount != 0 && !set("ANALYSIS_DEFAULT_HEADCOUNT") {
		c.Analysis.DefaultHeadcount = f.Analysis.DefaultHeadcount
	}
	if f.Analysis.AmbiguousAmountDefault != "" && !set("ANALYSIS_AMBIGUOUS_AMOUNT_DEFAULT") {
		c.Analysis.AmbiguousAmountDefault = f.Analysis.AmbiguousAmountDefault
	}
	if f.Analysis.UnmatchedPurchaseDefault != "" && !set("ANALYSIS_UNMATCHED_PURCHASE_DEFAULT") {
		c.Analysis.UnmatchedPurchaseDefault = f.Analysis.UnmatchedPurchaseDefault
	}
	if f.Analysis.MaxBatchConcurrency != 0 && !set("ANALYSIS_MAX_BATCH_CONCURRENCY") {
		c.Analysis.MaxBatchConcurrency = f.Analysis.MaxBatchConcurrency
	}
	if f.Sheets.APIKey != "" && !set("SHEETS_API_KEY") {
		c.Sheets.APIKey = f.Sheets.APIKey
	}
	if f.Sheets.ReadRange != "" && !set("SHEETS_READ_RANGE") {
		c.Sheets.ReadRange = f.Sheets.ReadRange
	}
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.Analysis.AmbiguousAmountDefault {
	case "revenue", "expense":
	default:
		return fmt.Errorf("invalid ambiguous_amount_default: %q", c.Analysis.AmbiguousAmountDefault)
	}
	switch c.Analysis.UnmatchedPurchaseDefault {
	case "food", "supply", "other":
	default:
		return fmt.Errorf("invalid unmatched_purchase_default: %q", c.Analysis.UnmatchedPurchaseDefault)
	}
	if c.Analysis.MaxBatchConcurrency < 1 {
		return fmt.Errorf("invalid max_batch_concurrency: %d", c.Analysis.MaxBatchConcurrency)
	}
	return nil
}
