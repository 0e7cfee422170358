// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"fjacquet/divtax/internal/logging"
	"fjacquet/divtax/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. DIVTAX_LOG_LEVEL.
const EnvPrefix = "DIVTAX"

// LogConfig controls the application logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// RatesConfig controls the exchange-rate client and its cache.
type RatesConfig struct {
	BaseURL           string  `mapstructure:"base_url" yaml:"base_url"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	CacheDir          string  `mapstructure:"cache_dir" yaml:"cache_dir"`
	LocalCurrency     string  `mapstructure:"local_currency" yaml:"local_currency"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	MemoryTTLMinutes  int     `mapstructure:"memory_ttl_minutes" yaml:"memory_ttl_minutes"`
}

// PathsConfig holds the default input and output directories.
type PathsConfig struct {
	InputDir  string `mapstructure:"input_dir" yaml:"input_dir"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
}

// CSVConfig controls the flat CSV export.
type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// ReportConfig controls the ledger output.
type ReportConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
}

// SummaryConfig controls the yearly summary.
type SummaryConfig struct {
	AdditionalTaxRate float64 `mapstructure:"additional_tax_rate" yaml:"additional_tax_rate"`
	Style             string  `mapstructure:"style" yaml:"style"`
}

// Config represents the complete application configuration
type Config struct {
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Rates   RatesConfig   `mapstructure:"rates" yaml:"rates"`
	Paths   PathsConfig   `mapstructure:"paths" yaml:"paths"`
	CSV     CSVConfig     `mapstructure:"csv" yaml:"csv"`
	Report  ReportConfig  `mapstructure:"report" yaml:"report"`
	Summary SummaryConfig `mapstructure:"summary" yaml:"summary"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return InitializeConfigFromFile("")
}

// InitializeConfigFromFile is InitializeConfig with an explicit config file.
// Unlike the search path, an explicit file must exist and parse.
func InitializeConfigFromFile(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.divtax")
		v.AddConfigPath(".divtax")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless explicit)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case configFile != "":
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		case !errors.As(err, &notFound):
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Rates.LocalCurrency = strings.ToUpper(strings.TrimSpace(config.Rates.LocalCurrency))
	config.Report.Format = strings.ToLower(config.Report.Format)

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Rate service defaults
	v.SetDefault("rates.base_url", "https://api.nbp.pl/api/exchangerates/rates/a")
	v.SetDefault("rates.timeout_seconds", 20)
	v.SetDefault("rates.cache_dir", "cache/nbp")
	v.SetDefault("rates.local_currency", "PLN")
	v.SetDefault("rates.requests_per_second", 5.0)
	v.SetDefault("rates.memory_ttl_minutes", 60)

	// Path defaults
	v.SetDefault("paths.input_dir", "broker_reports")
	v.SetDefault("paths.output_dir", "tax_reports")

	// Output defaults
	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("report.format", "json")
	v.SetDefault("summary.additional_tax_rate", 0.09)
	v.SetDefault("summary.style", "dark")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Rates.BaseURL == "" {
		return fmt.Errorf("rates.base_url must not be empty")
	}

	if config.Rates.TimeoutSeconds < 1 || config.Rates.TimeoutSeconds > 300 {
		return fmt.Errorf("rates.timeout_seconds must be between 1 and 300, got: %d", config.Rates.TimeoutSeconds)
	}

	if err := validation.IsValidCurrencyCode(config.Rates.LocalCurrency); err != nil {
		return fmt.Errorf("rates.local_currency must be a 3-letter code: %w", err)
	}

	if config.Rates.RequestsPerSecond <= 0 {
		return fmt.Errorf("rates.requests_per_second must be positive, got: %g", config.Rates.RequestsPerSecond)
	}

	if config.Rates.MemoryTTLMinutes < 0 {
		return fmt.Errorf("rates.memory_ttl_minutes must not be negative, got: %d", config.Rates.MemoryTTLMinutes)
	}

	// Validate CSV delimiter
	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if err := validation.IsValidOutputFormat(config.Report.Format); err != nil {
		return fmt.Errorf("invalid report format: %w", err)
	}

	if config.Summary.AdditionalTaxRate < 0.0 || config.Summary.AdditionalTaxRate > 1.0 {
		return fmt.Errorf("summary.additional_tax_rate must be between 0.0 and 1.0, got: %f", config.Summary.AdditionalTaxRate)
	}

	return nil
}

// Timeout returns the rate service request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Rates.TimeoutSeconds) * time.Second
}

// MemoryTTL returns how long fetched rates stay memoized in process.
func (c *Config) MemoryTTL() time.Duration {
	return time.Duration(c.Rates.MemoryTTLMinutes) * time.Minute
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	if c.CSV.Delimiter == "" {
		return ','
	}
	return rune(c.CSV.Delimiter[0])
}

// AdditionalTaxRate returns the summary top-up rate as a decimal.
func (c *Config) AdditionalTaxRate() decimal.Decimal {
	return decimal.NewFromFloat(c.Summary.AdditionalTaxRate)
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(strings.ToLower(config.Log.Level), strings.ToLower(config.Log.Format))
}
