// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"oposiciones/quiz-extract/internal/logging"
	"oposiciones/quiz-extract/internal/pdftext"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "QUIZ"

// MaxWorkers bounds extraction.workers.
const MaxWorkers = 64

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Extraction struct {
		BaseDir   string `mapstructure:"base_dir" yaml:"base_dir"`
		OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
		Extractor string `mapstructure:"extractor" yaml:"extractor"`
		Workers   int    `mapstructure:"workers" yaml:"workers"`
	} `mapstructure:"extraction" yaml:"extraction"`

	Classifier struct {
		RulesFile string `mapstructure:"rules_file" yaml:"rules_file"`
	} `mapstructure:"classifier" yaml:"classifier"`

	Output struct {
		ReportPath string `mapstructure:"report_path" yaml:"report_path"`
		SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	} `mapstructure:"output" yaml:"output"`
}

// NewViper returns a Viper instance with defaults, config file locations and
// environment bindings set up. An explicit configFile replaces the search
// paths. Callers may bind command-line flags before passing it to Load.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.quiz-extract")
		v.AddConfigPath(".quiz-extract")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return v
}

// Load reads the config file (optional unless explicitly set), unmarshals
// and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
		// Config file not found is OK, we'll use defaults and env vars
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
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Extraction defaults
	v.SetDefault("extraction.base_dir", "Test")
	v.SetDefault("extraction.output_dir", "quiz/src/data")
	v.SetDefault("extraction.extractor", pdftext.ExtractorNative)
	v.SetDefault("extraction.workers", 1)

	// Classifier defaults
	v.SetDefault("classifier.rules_file", "")

	// Optional sinks
	v.SetDefault("output.report_path", "")
	v.SetDefault("output.sqlite_path", "")
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

	if strings.TrimSpace(config.Extraction.BaseDir) == "" {
		return fmt.Errorf("extraction.base_dir must not be empty")
	}
	if strings.TrimSpace(config.Extraction.OutputDir) == "" {
		return fmt.Errorf("extraction.output_dir must not be empty")
	}

	switch strings.ToLower(config.Extraction.Extractor) {
	case pdftext.ExtractorNative, pdftext.ExtractorPdftotext:
	default:
		return fmt.Errorf("invalid extractor: %s (must be '%s' or '%s')",
			config.Extraction.Extractor, pdftext.ExtractorNative, pdftext.ExtractorPdftotext)
	}

	if config.Extraction.Workers < 1 || config.Extraction.Workers > MaxWorkers {
		return fmt.Errorf("extraction.workers must be between 1 and %d, got: %d", MaxWorkers, config.Extraction.Workers)
	}

	return nil
}

// NewLoggerFromConfig builds the application logger from the Config struct
func NewLoggerFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(config.Log.Level, config.Log.Format)
}
