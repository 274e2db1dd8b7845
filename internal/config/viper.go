// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter      string `mapstructure:"delimiter" yaml:"delimiter"`
		IncludeHeaders bool   `mapstructure:"include_headers" yaml:"include_headers"`
	} `mapstructure:"csv" yaml:"csv"`

	Categorization struct {
		ConfidenceThreshold float64 `mapstructure:"confidence_threshold" yaml:"confidence_threshold"`
	} `mapstructure:"categorization" yaml:"categorization"`

	Rules struct {
		File            string `mapstructure:"file" yaml:"file"`
		CategoriesFile  string `mapstructure:"categories_file" yaml:"categories_file"`
		CacheTTLMinutes int    `mapstructure:"cache_ttl_minutes" yaml:"cache_ttl_minutes"`
	} `mapstructure:"rules" yaml:"rules"`

	Audit struct {
		Database string `mapstructure:"database" yaml:"database"`
	} `mapstructure:"audit" yaml:"audit"`

	Parser struct {
		Template string `mapstructure:"template" yaml:"template"`
		Currency string `mapstructure:"currency" yaml:"currency"`
	} `mapstructure:"parser" yaml:"parser"`
}

// CacheTTL returns the rule cache time-to-live as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Rules.CacheTTLMinutes) * time.Minute
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.mpesa-csv")
	v.AddConfigPath(".mpesa-csv")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("MPESA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Continue with defaults and env vars, but surface the problem
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.include_headers", true)

	v.SetDefault("categorization.confidence_threshold", 0.8)

	v.SetDefault("rules.file", "rules.yaml")
	v.SetDefault("rules.categories_file", "categories.yaml")
	v.SetDefault("rules.cache_ttl_minutes", 5)

	v.SetDefault("audit.database", "matches.db")

	v.SetDefault("parser.template", "mpesa")
	v.SetDefault("parser.currency", "KES")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if t := config.Categorization.ConfidenceThreshold; t < 0 || t > 1 {
		return fmt.Errorf("confidence threshold must be in [0,1], got: %v", t)
	}

	if config.Rules.CacheTTLMinutes <= 0 {
		return fmt.Errorf("rules cache TTL must be positive, got: %d", config.Rules.CacheTTLMinutes)
	}

	return nil
}
